// internal/agent/agent.go
//
// Deterministic strategies implementing the dealer's Agent boundary. Each
// strategy is pure over the public snapshot and its own hand; none touches
// engine internals or other players' cards. Remote and model-backed agents
// implement the same interface elsewhere.
package agent

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/unoarena/unoarena/internal/uno"
)

// New constructs a built-in strategy by name. The seed only matters for
// strategies with a random component.
func New(name string, seed int64) (uno.Agent, error) {
	switch name {
	case "greedy":
		return NewGreedy(seed), nil
	case "random":
		return NewRandom(seed), nil
	case "first":
		return NewFirstPlayable(), nil
	default:
		return nil, fmt.Errorf("unknown agent strategy %q", name)
	}
}

// Greedy plays the legal card worth the most points, declaring the color it
// holds most of when it lays a wild. Mirrors the classic hold-nothing-back
// baseline: dump expensive cards before an opponent goes out.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(seed int64) *Greedy {
	return &Greedy{rng: rand.New(rand.NewSource(seed))}
}

func (g *Greedy) Name() string { return "greedy" }

func (g *Greedy) ProposeMove(ctx context.Context, rules uno.RuleConfig, snap uno.Snapshot, hand []uno.Card) (uno.Move, error) {
	moves := uno.LegalMoves(rules, snap, hand)
	if len(moves) == 0 {
		return uno.Move{}, fmt.Errorf("no legal move")
	}

	best := -1
	bestPoints := -1
	for i, m := range moves {
		if m.Type != uno.MovePlayCard {
			continue
		}
		if pts := m.Card.Points(); pts > bestPoints {
			best, bestPoints = i, pts
		}
	}
	if best == -1 {
		// Nothing playable: draw, or accept the pending forced draw.
		return moves[len(moves)-1], nil
	}

	chosen := moves[best]
	if chosen.Card.IsWild() {
		color := g.colorMostHeld(hand)
		chosen = uno.PlayWild(*chosen.Card, color)
	}
	return chosen, nil
}

// colorMostHeld picks the concrete color the hand holds most of, falling
// back to a random color when only wilds remain.
func (g *Greedy) colorMostHeld(hand []uno.Card) uno.Color {
	counts := map[uno.Color]int{}
	for _, c := range hand {
		if c.Color.Concrete() {
			counts[c.Color]++
		}
	}
	best := uno.ColorWild
	bestN := 0
	for _, color := range uno.ConcreteColors {
		if counts[color] > bestN {
			best, bestN = color, counts[color]
		}
	}
	if best == uno.ColorWild {
		return uno.ConcreteColors[g.rng.Intn(len(uno.ConcreteColors))]
	}
	return best
}

// Random picks uniformly among the legal moves.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) ProposeMove(ctx context.Context, rules uno.RuleConfig, snap uno.Snapshot, hand []uno.Card) (uno.Move, error) {
	moves := uno.LegalMoves(rules, snap, hand)
	if len(moves) == 0 {
		return uno.Move{}, fmt.Errorf("no legal move")
	}
	return moves[r.rng.Intn(len(moves))], nil
}

// FirstPlayable takes the first legal move in enumeration order. Useful as
// a fully deterministic baseline in tests and benchmarks.
type FirstPlayable struct{}

func NewFirstPlayable() *FirstPlayable { return &FirstPlayable{} }

func (f *FirstPlayable) Name() string { return "first" }

func (f *FirstPlayable) ProposeMove(ctx context.Context, rules uno.RuleConfig, snap uno.Snapshot, hand []uno.Card) (uno.Move, error) {
	moves := uno.LegalMoves(rules, snap, hand)
	if len(moves) == 0 {
		return uno.Move{}, fmt.Errorf("no legal move")
	}
	return moves[0], nil
}
