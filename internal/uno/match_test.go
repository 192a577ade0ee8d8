// internal/uno/match_test.go
package uno

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRunsToTargetScore(t *testing.T) {
	rules := DefaultRules()
	rules.TargetScore = 50
	rules.TurnTimerSec = 0

	seats := []Seat{
		{ID: playerA, Name: "a", Agent: naive{}},
		{ID: playerB, Name: "b", Agent: naive{}},
	}
	m := NewMatch(rules, seats, 1234)
	m.Logf = quietLogf

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	sum, err := m.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.NumberOfPlayers)
	assert.GreaterOrEqual(t, sum.Rounds, 1)
	assert.Len(t, sum.RoundMoves, sum.Rounds)
	assert.Len(t, sum.GameSummaries, sum.Rounds)

	assert.Contains(t, []string{"a", "b"}, sum.WinnerName)
	assert.Equal(t, "naive", sum.WinnerStrategy)
	assert.GreaterOrEqual(t, sum.WinnerScore, rules.TargetScore)
	assert.Equal(t, sum.Scores[sum.Winner], sum.WinnerScore)

	// The winner of each round scores the points left in the losing hands.
	total := 0
	for _, g := range sum.GameSummaries {
		for id, pts := range g.HandPoints {
			if id != g.Winner {
				total += pts
			}
		}
	}
	scored := 0
	for _, s := range sum.Scores {
		scored += s
	}
	assert.Equal(t, total, scored)
}

func TestMatchSinkFactoryReceivesEachRound(t *testing.T) {
	rules := DefaultRules()
	rules.TargetScore = 1
	rules.TurnTimerSec = 0

	seats := []Seat{
		{ID: playerA, Name: "a", Agent: naive{}},
		{ID: playerB, Name: "b", Agent: naive{}},
	}
	m := NewMatch(rules, seats, 77)
	m.Logf = quietLogf

	records := 0
	m.SinkFactory = func(gameID uuid.UUID) func(Record) {
		return func(Record) { records++ }
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	sum, err := m.Run(ctx)
	require.NoError(t, err)

	turns := 0
	for _, n := range sum.RoundMoves {
		turns += n
	}
	assert.Equal(t, turns, records, "the sink sees every resolved turn of every round")
}
