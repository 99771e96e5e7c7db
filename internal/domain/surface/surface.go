// Package surface normalizes raw playing-surface descriptors into the
// four canonical categories ratings are partitioned by.
package surface

import "strings"

// Surface is a canonical playing-surface category.
type Surface string

// Canonical surfaces. Ratings are entirely independent across them.
const (
	IndoorHard  Surface = "indoor_hard"
	OutdoorHard Surface = "outdoor_hard"
	Clay        Surface = "clay"
	Grass       Surface = "grass"
)

// All lists the canonical surfaces in a fixed order.
func All() []Surface {
	return []Surface{IndoorHard, OutdoorHard, Clay, Grass}
}

// Parse maps a canonical surface name to its Surface value. Used at the
// API boundary; raw descriptors go through Classify instead.
func Parse(s string) (Surface, bool) {
	switch Surface(strings.ToLower(strings.TrimSpace(s))) {
	case IndoorHard:
		return IndoorHard, true
	case OutdoorHard:
		return OutdoorHard, true
	case Clay:
		return Clay, true
	case Grass:
		return Grass, true
	}
	return "", false
}

// Tournaments known to be played indoors, for hard-court matches whose
// source rows carry no usable court flag.
var indoorTournaments = map[string]struct{}{
	"paris masters":    {},
	"vienna":           {},
	"basel":            {},
	"stockholm":        {},
	"st. petersburg":   {},
	"antwerp":          {},
	"metz":             {},
	"moscow":           {},
	"marseille":        {},
	"montpellier":      {},
	"rotterdam":        {},
	"sofia":            {},
	"atp finals":       {},
	"next gen finals":  {},
	"davis cup finals": {},
}

// Tournaments known to be played on grass regardless of how the source
// labels the surface.
var grassTournaments = map[string]struct{}{
	"wimbledon":       {},
	"halle":           {},
	"queens":          {},
	"queen's club":    {},
	"stuttgart":       {},
	"eastbourne":      {},
	"s-hertogenbosch": {},
	"newport":         {},
	"mallorca":        {},
}

// Classify maps a raw surface descriptor to a canonical surface.
//
// The mapping table is the single source of truth for surface
// semantics: clay and grass map directly, hard and carpet are resolved
// to indoor or outdoor via the court flag, falling back to the known
// indoor-tournament table and an "indoor" substring in the tournament
// name, and defaulting to outdoor. A raw value outside the table
// returns ok=false and the match must be excluded from rating
// computation; it is never silently defaulted.
func Classify(raw, court, tournament string) (Surface, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	court = strings.ToLower(strings.TrimSpace(court))
	tournament = strings.ToLower(strings.TrimSpace(tournament))

	if isGrassTournament(tournament) {
		return Grass, true
	}

	switch raw {
	case "grass":
		return Grass, true
	case "clay":
		return Clay, true
	case "hard", "carpet":
		switch court {
		case "indoor":
			return IndoorHard, true
		case "outdoor":
			return OutdoorHard, true
		}
		if isIndoorTournament(tournament) || strings.Contains(tournament, "indoor") {
			return IndoorHard, true
		}
		return OutdoorHard, true
	}
	return "", false
}

func isIndoorTournament(tournament string) bool {
	for name := range indoorTournaments {
		if strings.Contains(tournament, name) {
			return true
		}
	}
	return false
}

func isGrassTournament(tournament string) bool {
	for name := range grassTournaments {
		if strings.Contains(tournament, name) {
			return true
		}
	}
	return false
}
