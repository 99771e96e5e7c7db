package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okian/baseline/internal/domain/model"
)

// CSVSource reads ATP-style result rows from a CSV file. Expected
// columns (order-independent, matched by header): Tournament, Date,
// Court, Surface, Round, Player_1, Player_2, Winner, Score. Unknown
// columns are ignored.
type CSVSource struct {
	path string
}

// NewCSV constructs a CSVSource over a file path.
func NewCSV(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Fetch implements Source. The file must open and parse as CSV;
// anything row-level (bad date, unknown winner) is preserved in the
// record for the controller to exclude and count.
func (s *CSVSource) Fetch(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // the feed occasionally pads rows

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrUnavailable, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []model.Record
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		default:
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", ErrUnavailable, err)
		}
		records = append(records, rowToRecord(cols, row))
	}
	return records, nil
}

// field returns the named column of a row, or "" when absent.
func field(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowToRecord maps one CSV row to a Record. Rows the feed cannot
// express cleanly become records that fail validation downstream; this
// keeps per-row problems recoverable instead of failing the fetch.
func rowToRecord(cols map[string]int, row []string) model.Record {
	p1 := field(cols, row, "player_1")
	p2 := field(cols, row, "player_2")
	winner := field(cols, row, "winner")

	rec := model.Record{
		Tournament: field(cols, row, "tournament"),
		Round:      field(cols, row, "round"),
		Surface:    field(cols, row, "surface"),
		Court:      field(cols, row, "court"),
		Score:      field(cols, row, "score"),
		PlayerA:    model.PlayerRef{ID: PlayerID(p1), Name: p1},
		PlayerB:    model.PlayerRef{ID: PlayerID(p2), Name: p2},
	}

	if date, err := time.Parse("2006-01-02", field(cols, row, "date")); err == nil {
		rec.Date = date
	}

	// The winner column repeats one participant's name; anything else
	// leaves WinnerID empty and the record is excluded as malformed.
	switch winner {
	case "":
	case p1:
		rec.WinnerID = rec.PlayerA.ID
	case p2:
		rec.WinnerID = rec.PlayerB.ID
	}
	return rec
}

// PlayerID derives a stable identifier from a player name: lowercase,
// spaces to underscores, dots and apostrophes stripped. The feed has no
// native ids, so the derivation must stay fixed across pulls.
func PlayerID(name string) string {
	if name == "" {
		return ""
	}
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, ".", "")
	id = strings.ReplaceAll(id, "'", "")
	return id
}
