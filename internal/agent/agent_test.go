// internal/agent/agent_test.go
package agent

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unoarena/unoarena/internal/uno"
)

var me = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func snapWith(top uno.Card, active uno.Color) uno.Snapshot {
	return uno.Snapshot{
		CurrentPlayer: me,
		TopCard:       top,
		ActiveColor:   active,
	}
}

func TestNewKnowsEveryStrategy(t *testing.T) {
	for _, name := range []string{"greedy", "random", "first"} {
		a, err := New(name, 1)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}
	_, err := New("psychic", 1)
	assert.Error(t, err)
}

func TestGreedyPlaysHighestValueCard(t *testing.T) {
	g := NewGreedy(1)
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red)
	hand := []uno.Card{
		{Color: uno.Red, Rank: uno.Two},
		{Color: uno.Red, Rank: uno.Nine},
		{Color: uno.Red, Rank: uno.Skip},
		{Color: uno.Blue, Rank: uno.Seven}, // dead card
	}

	m, err := g.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
	require.NoError(t, err)
	require.Equal(t, uno.MovePlayCard, m.Type)
	assert.Equal(t, uno.Card{Color: uno.Red, Rank: uno.Skip}, *m.Card, "20-point skip beats the nines")
}

func TestGreedyDeclaresMostHeldColor(t *testing.T) {
	g := NewGreedy(1)
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red)
	hand := []uno.Card{
		{Color: uno.ColorWild, Rank: uno.Wild},
		{Color: uno.Green, Rank: uno.One},
		{Color: uno.Green, Rank: uno.Two},
		{Color: uno.Blue, Rank: uno.Three},
	}

	m, err := g.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
	require.NoError(t, err)
	require.Equal(t, uno.MovePlayCard, m.Type)
	assert.True(t, m.Card.IsWild(), "the 50-point wild outranks everything")
	require.NotNil(t, m.DeclaredColor)
	assert.Equal(t, uno.Green, *m.DeclaredColor)
}

func TestGreedyDrawsWhenStuck(t *testing.T) {
	g := NewGreedy(1)
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red)
	hand := []uno.Card{{Color: uno.Blue, Rank: uno.Seven}}

	m, err := g.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
	require.NoError(t, err)
	assert.Equal(t, uno.MoveDrawCard, m.Type)
}

func TestGreedyAcceptsForcedDraw(t *testing.T) {
	g := NewGreedy(1)
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.DrawTwo}, uno.Red)
	snap.PendingDraw = 2
	hand := []uno.Card{{Color: uno.Blue, Rank: uno.Seven}}

	m, err := g.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
	require.NoError(t, err)
	assert.Equal(t, uno.MovePassAfterForcedDraw, m.Type)
}

func TestGreedyWildOnlyHandDeclaresSomeColor(t *testing.T) {
	g := NewGreedy(5)
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red)
	hand := []uno.Card{{Color: uno.ColorWild, Rank: uno.Wild}}

	m, err := g.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
	require.NoError(t, err)
	require.NotNil(t, m.DeclaredColor)
	assert.True(t, m.DeclaredColor.Concrete())
}

func TestStrategiesAlwaysProposeLegalMoves(t *testing.T) {
	rules := uno.DefaultRules()
	rules.StackingDraws = true
	snaps := []uno.Snapshot{
		snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red),
		snapWith(uno.Card{Color: uno.ColorWild, Rank: uno.Wild}, uno.ColorWild),
		func() uno.Snapshot {
			s := snapWith(uno.Card{Color: uno.Green, Rank: uno.DrawTwo}, uno.Green)
			s.PendingDraw = 2
			return s
		}(),
	}
	hand := []uno.Card{
		{Color: uno.Red, Rank: uno.Two},
		{Color: uno.Green, Rank: uno.DrawTwo},
		{Color: uno.ColorWild, Rank: uno.WildDrawFour},
	}

	for _, name := range []string{"greedy", "random", "first"} {
		a, err := New(name, 42)
		require.NoError(t, err)
		for i, snap := range snaps {
			m, err := a.ProposeMove(context.Background(), rules, snap, hand)
			require.NoError(t, err, "%s on snapshot %d", name, i)
			assert.NoError(t, uno.Validate(rules, snap, me, hand, m), "%s proposed %s on snapshot %d", name, m, i)
		}
	}
}

func TestRandomIsSeedDeterministic(t *testing.T) {
	snap := snapWith(uno.Card{Color: uno.Red, Rank: uno.Five}, uno.Red)
	hand := []uno.Card{
		{Color: uno.Red, Rank: uno.One},
		{Color: uno.Red, Rank: uno.Two},
		{Color: uno.Red, Rank: uno.Three},
		{Color: uno.ColorWild, Rank: uno.Wild},
	}

	run := func() []uno.Move {
		a := NewRandom(7)
		var out []uno.Move
		for i := 0; i < 10; i++ {
			m, err := a.ProposeMove(context.Background(), uno.DefaultRules(), snap, hand)
			require.NoError(t, err)
			out = append(out, m)
		}
		return out
	}
	assert.Equal(t, run(), run())
}
