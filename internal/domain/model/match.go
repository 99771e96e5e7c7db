// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Namespace for deriving stable match keys when the source carries no
// native identifier. Must never change: derived keys are part of the
// replay order.
var matchKeyNamespace = uuid.MustParse("f2f1c6e8-9d0b-4a3e-8c5a-7b1d2e4f6a90")

// PlayerRef identifies a match participant.
type PlayerRef struct {
	ID      string `json:"player_id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// Record is a single raw match outcome as delivered by a source.
// Surface and Court carry the raw descriptors; classification into a
// canonical surface happens downstream.
type Record struct {
	MatchID    string    // native identifier; may be empty
	Date       time.Time // calendar date of the match
	Tournament string
	Round      string
	Surface    string // raw surface descriptor, e.g. "Hard"
	Court      string // raw indoor/outdoor flag, may be empty
	PlayerA    PlayerRef
	PlayerB    PlayerRef
	WinnerID   string // must equal PlayerA.ID or PlayerB.ID
	Score      string
}

// Validation errors for match records.
var (
	ErrMissingPlayer = errors.New("match record missing player identity")
	ErrMissingDate   = errors.New("match record missing date")
	ErrUnknownWinner = errors.New("match record winner is not a participant")
	ErrSelfMatch     = errors.New("match record has identical participants")
)

// Validate reports why a record cannot be rated. Records failing
// validation are excluded from rating computation and counted; they are
// never fatal to a run.
func (r Record) Validate() error {
	switch {
	case r.PlayerA.ID == "" || r.PlayerB.ID == "":
		return ErrMissingPlayer
	case r.PlayerA.ID == r.PlayerB.ID:
		return ErrSelfMatch
	case r.Date.IsZero():
		return ErrMissingDate
	case r.WinnerID != r.PlayerA.ID && r.WinnerID != r.PlayerB.ID:
		return ErrUnknownWinner
	}
	return nil
}

// Key returns the stable identifier used for ordering and corrections.
// The native match id wins when present; otherwise a UUIDv5 is derived
// from the fields that make a match unique. The derivation is
// deterministic so re-ingesting the same record yields the same key.
func (r Record) Key() string {
	if r.MatchID != "" {
		return r.MatchID
	}
	var b strings.Builder
	b.WriteString(r.Date.Format("2006-01-02"))
	b.WriteByte('|')
	b.WriteString(r.Tournament)
	b.WriteByte('|')
	b.WriteString(r.Round)
	b.WriteByte('|')
	b.WriteString(r.PlayerA.ID)
	b.WriteByte('|')
	b.WriteString(r.PlayerB.ID)
	return uuid.NewSHA1(matchKeyNamespace, []byte(b.String())).String()
}

// SortKey returns the (date, key) pair that defines the total replay
// order within a surface.
func (r Record) SortKey() SortKey {
	return SortKey{Date: r.Date, Key: r.Key()}
}

// Equal reports whether two records carry the same content. Used to
// distinguish a re-delivered duplicate from a correction.
func (r Record) Equal(o Record) bool {
	return r.MatchID == o.MatchID &&
		r.Date.Equal(o.Date) &&
		r.Tournament == o.Tournament &&
		r.Round == o.Round &&
		r.Surface == o.Surface &&
		r.Court == o.Court &&
		r.PlayerA == o.PlayerA &&
		r.PlayerB == o.PlayerB &&
		r.WinnerID == o.WinnerID &&
		r.Score == o.Score
}

// SortKey is a point in the replay order of one surface.
type SortKey struct {
	Date time.Time
	Key  string
}

// Compare orders two sort keys: date ascending, then key ascending.
func (k SortKey) Compare(o SortKey) int {
	switch {
	case k.Date.Before(o.Date):
		return -1
	case k.Date.After(o.Date):
		return 1
	}
	return strings.Compare(k.Key, o.Key)
}

// After reports whether k is strictly after o in replay order.
func (k SortKey) After(o SortKey) bool {
	return k.Compare(o) > 0
}
