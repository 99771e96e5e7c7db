package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/baseline/internal/adapters/source"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFetch(t *testing.T) {
	path := writeCSV(t, `Tournament,Date,Court,Surface,Round,Player_1,Player_2,Winner,Score
Australian Open,2024-01-15,Outdoor,Hard,1st Round,Rafael Nadal,Jack Draper,Rafael Nadal,6-4 6-4 6-4
Paris Masters,2024-10-30,Indoor,Hard,2nd Round,Ugo Humbert,Novak Djokovic,Novak Djokovic,7-6 6-3
`)

	records, err := source.NewCSV(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.Tournament != "Australian Open" || r.Round != "1st Round" {
		t.Errorf("unexpected tournament fields: %+v", r)
	}
	if r.Date.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("unexpected date: %v", r.Date)
	}
	if r.PlayerA.ID != "rafael_nadal" || r.PlayerA.Name != "Rafael Nadal" {
		t.Errorf("unexpected player A: %+v", r.PlayerA)
	}
	if r.WinnerID != "rafael_nadal" {
		t.Errorf("unexpected winner: %q", r.WinnerID)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("record should be ratable: %v", err)
	}

	if records[1].Court != "Indoor" || records[1].WinnerID != "novak_djokovic" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestFetchColumnOrderIndependent(t *testing.T) {
	path := writeCSV(t, `Winner,Player_2,Player_1,Surface,Date,Tournament,Round,Court,Score,Extra
Ann Li,Ann Li,Mia Chen,Clay,2024-05-02,Rome Masters,Quarterfinals,,6-1 6-2,ignored
`)

	records, err := source.NewCSV(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.PlayerA.ID != "mia_chen" || r.PlayerB.ID != "ann_li" {
		t.Errorf("columns misread: %+v", r)
	}
	if r.WinnerID != "ann_li" {
		t.Errorf("unexpected winner: %q", r.WinnerID)
	}
}

func TestFetchKeepsProblemRows(t *testing.T) {
	path := writeCSV(t, `Tournament,Date,Court,Surface,Round,Player_1,Player_2,Winner,Score
Rome Masters,not-a-date,,Clay,1st Round,Ann Li,Mia Chen,Ann Li,6-0 6-0
Rome Masters,2024-05-02,,Clay,1st Round,Ann Li,Mia Chen,Somebody Else,6-0 6-0
`)

	records, err := source.NewCSV(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: problem rows stay in the batch", len(records))
	}
	if err := records[0].Validate(); err == nil {
		t.Error("row with bad date should fail validation")
	}
	if err := records[1].Validate(); err == nil {
		t.Error("row with unknown winner should fail validation")
	}
}

func TestFetchMissingFile(t *testing.T) {
	_, err := source.NewCSV(filepath.Join(t.TempDir(), "absent.csv")).Fetch(context.Background())
	if !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	path := writeCSV(t, `Tournament,Date,Court,Surface,Round,Player_1,Player_2,Winner,Score
Rome Masters,2024-05-02,,Clay,1st Round,Ann Li,Mia Chen,Ann Li,6-0 6-0
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.NewCSV(path).Fetch(ctx)
	if !errors.Is(err, source.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestPlayerID(t *testing.T) {
	cases := map[string]string{
		"Rafael Nadal":          "rafael_nadal",
		"  Juan Martin  ":       "juan_martin",
		"J.J. Wolf":             "jj_wolf",
		"O'Connell Christopher": "oconnell_christopher",
		"":                      "",
	}
	for in, want := range cases {
		if got := source.PlayerID(in); got != want {
			t.Errorf("PlayerID(%q) = %q, want %q", in, got, want)
		}
	}
}
