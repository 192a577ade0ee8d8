// internal/uno/history.go
package uno

import "github.com/google/uuid"

// ForfeitNote records why the dealer substituted a move on a player's
// behalf: the rejected attempt (nil for a timeout or agent error) and the
// normalized reason.
type ForfeitNote struct {
	Attempted *Move   `json:"attempted,omitempty"`
	Reason    string  `json:"reason"`
	Kind      ErrKind `json:"kind,omitempty"`
}

// Record is one resolved turn, immutable once appended. Ordinal is the
// append sequence number, which doubles as a timestamp ordinal: later
// records always carry larger ordinals.
type Record struct {
	Ordinal        int          `json:"ordinal"`
	TurnIndex      int          `json:"turnIndex"`
	PlayerID       uuid.UUID    `json:"playerId"`
	Move           Move         `json:"move"`
	Forfeit        *ForfeitNote `json:"forfeit,omitempty"`
	ResultingTop   Card         `json:"resultingTop"`
	ActiveColor    Color        `json:"activeColor"`
	CardsRemaining int          `json:"cardsRemaining"`
	CardsDrawn     int          `json:"cardsDrawn,omitempty"`
}

// HistoryLog is the append-only sequence of resolved moves. Records are
// never edited or removed for the life of a game.
type HistoryLog struct {
	records []Record
}

// Append adds a record, stamping its ordinal, and returns the stamped copy.
func (l *HistoryLog) Append(r Record) Record {
	r.Ordinal = len(l.records)
	l.records = append(l.records, r)
	return r
}

// Records returns a copy of the full ordered sequence for restartable
// read-only iteration by statistics consumers.
func (l *HistoryLog) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of appended records.
func (l *HistoryLog) Len() int { return len(l.records) }
