// internal/uno/move.go
package uno

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MoveType discriminates the Move union.
type MoveType string

const (
	MovePlayCard            MoveType = "play_card"
	MoveDrawCard            MoveType = "draw_card"
	MovePassAfterForcedDraw MoveType = "pass_after_forced_draw"
	MoveChallengeWD4        MoveType = "challenge_wild_draw_four"
)

// Move is an agent's proposed action for one turn. Card is set only for
// MovePlayCard. DeclaredColor is mandatory when the played card is colorless
// and forbidden otherwise; the validator enforces both directions.
type Move struct {
	Type          MoveType `json:"type"`
	Card          *Card    `json:"card,omitempty"`
	DeclaredColor *Color   `json:"declaredColor,omitempty"`
}

func (m Move) String() string {
	switch m.Type {
	case MovePlayCard:
		if m.Card == nil {
			return "play <nil>"
		}
		if m.DeclaredColor != nil {
			return fmt.Sprintf("play %s declaring %s", m.Card, *m.DeclaredColor)
		}
		return fmt.Sprintf("play %s", m.Card)
	default:
		return string(m.Type)
	}
}

// PlayCard builds a play move for a colored card.
func PlayCard(c Card) Move {
	return Move{Type: MovePlayCard, Card: &c}
}

// PlayWild builds a play move for a colorless card with its declared color.
func PlayWild(c Card, declared Color) Move {
	return Move{Type: MovePlayCard, Card: &c, DeclaredColor: &declared}
}

// DrawCard builds a voluntary draw move.
func DrawCard() Move {
	return Move{Type: MoveDrawCard}
}

// PassAfterForcedDraw builds the move that accepts a pending forced draw.
func PassAfterForcedDraw() Move {
	return Move{Type: MovePassAfterForcedDraw}
}

// ChallengeWildDrawFour builds a challenge against the preceding Wild Draw
// Four.
func ChallengeWildDrawFour() Move {
	return Move{Type: MoveChallengeWD4}
}

// Agent is the capability boundary between the dealer and whatever produces
// moves: a deterministic strategy, a remote process, or a model-backed
// player. The dealer never inspects how a move was produced. ProposeMove
// must honor ctx cancellation; a late return is discarded by the dealer.
type Agent interface {
	Name() string
	ProposeMove(ctx context.Context, rules RuleConfig, snap Snapshot, hand []Card) (Move, error)
}

// Seat binds a player id to the agent occupying it.
type Seat struct {
	ID    uuid.UUID
	Name  string
	Agent Agent
}
