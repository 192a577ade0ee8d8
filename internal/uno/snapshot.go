// internal/uno/snapshot.go
package uno

import "github.com/google/uuid"

// Direction is the order of play around the table.
type Direction int8

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

func (d Direction) String() string {
	if d == Clockwise {
		return "clockwise"
	}
	return "counter_clockwise"
}

// HandSize pairs a player with the number of cards they hold. Hand contents
// are never exposed here; agents see only their own hand, passed separately.
type HandSize struct {
	PlayerID uuid.UUID `json:"playerId"`
	Cards    int       `json:"cards"`
}

// Snapshot is the public game state handed to an agent on its turn. It is
// derived from the dealer's authoritative state on each query, so calling
// the accessor twice without an intervening move yields identical results.
type Snapshot struct {
	GameID        uuid.UUID `json:"gameId"`
	TurnIndex     int       `json:"turnIndex"`
	CurrentPlayer uuid.UUID `json:"currentPlayer"`
	Direction     Direction `json:"direction"`

	// TopCard is the authoritative current card; ActiveColor is its
	// effective color, which differs from TopCard.Color after a wild.
	TopCard     Card  `json:"topCard"`
	ActiveColor Color `json:"activeColor"`

	// PendingDraw is the accumulated forced-draw count owed by the current
	// player. ChallengeOpen is set when the current player may still
	// challenge the Wild Draw Four that created it.
	PendingDraw   int  `json:"pendingDraw"`
	ChallengeOpen bool `json:"challengeOpen"`

	DrawPileCount    int        `json:"drawPileCount"`
	DiscardPileCount int        `json:"discardPileCount"`
	HandSizes        []HandSize `json:"handSizes"`
	HistoryLength    int        `json:"historyLength"`
}

// HandSizeOf returns the recorded hand size for a player, or -1 when the
// player is not (or no longer) in the rotation.
func (s Snapshot) HandSizeOf(id uuid.UUID) int {
	for _, hs := range s.HandSizes {
		if hs.PlayerID == id {
			return hs.Cards
		}
	}
	return -1
}
