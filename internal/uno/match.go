// internal/uno/match.go
package uno

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// MatchSummary aggregates a completed multi-round match for statistics
// consumers: round counts, per-round move counts, final scores, and the
// winner's identity and strategy name.
type MatchSummary struct {
	MatchID         uuid.UUID         `json:"matchId"`
	NumberOfPlayers int               `json:"numberOfPlayers"`
	Rounds          int               `json:"rounds"`
	RoundMoves      []int             `json:"roundMoves"`
	PlayerNames     map[uuid.UUID]string `json:"playerNames"`
	Scores          map[uuid.UUID]int `json:"scores"`
	Winner          uuid.UUID         `json:"winner"`
	WinnerName      string            `json:"winnerName"`
	WinnerScore     int               `json:"winnerScore"`
	WinnerStrategy  string            `json:"winnerStrategy"`
	GameSummaries   []Summary         `json:"-"`
}

// Match runs successive games between the same seats until a player's
// accumulated score reaches the rule config's target. The winner of each
// round scores the points left in every other hand; cards are collected and
// reshuffled between rounds; the starting seat rotates by one each round.
type Match struct {
	ID    uuid.UUID
	Rules RuleConfig
	Seats []Seat
	Seed  int64

	// SinkFactory, if set, builds a per-round history sink from the round
	// dealer's generated game id. Logf is passed through to each dealer.
	SinkFactory func(gameID uuid.UUID) func(Record)
	Logf        func(format string, v ...interface{})
}

// NewMatch builds a match with defaulted rules when zero-valued.
func NewMatch(rules RuleConfig, seats []Seat, seed int64) *Match {
	if rules.TargetScore == 0 {
		rules.TargetScore = DefaultRules().TargetScore
	}
	return &Match{ID: uuid.New(), Rules: rules, Seats: seats, Seed: seed}
}

// Run plays rounds until the target score is reached or ctx is cancelled.
func (m *Match) Run(ctx context.Context) (MatchSummary, error) {
	logf := m.Logf
	if logf == nil {
		logf = log.Printf
	}

	scores := make(map[uuid.UUID]int, len(m.Seats))
	names := make(map[uuid.UUID]string, len(m.Seats))
	for _, s := range m.Seats {
		scores[s.ID] = 0
		names[s.ID] = s.Name
	}

	summary := MatchSummary{
		MatchID:         m.ID,
		NumberOfPlayers: len(m.Seats),
		PlayerNames:     names,
		Scores:          scores,
	}

	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		dealer, err := NewDealer(DealerConfig{
			Rules: m.Rules,
			// A fresh seeded shuffle per round stands in for collecting
			// and reshuffling the physical cards.
			Seed:      m.Seed + int64(round),
			Seats:     m.Seats,
			StartSeat: round % len(m.Seats),
			Logf:      logf,
		})
		if err != nil {
			return summary, fmt.Errorf("round %d: %w", round+1, err)
		}
		if m.SinkFactory != nil {
			dealer.SetSink(m.SinkFactory(dealer.ID))
		}

		game, err := dealer.Run(ctx)
		if err != nil {
			return summary, fmt.Errorf("round %d: %w", round+1, err)
		}

		roundPoints := 0
		for id, pts := range game.HandPoints {
			if id != game.Winner {
				roundPoints += pts
			}
		}
		scores[game.Winner] += roundPoints
		summary.Rounds++
		summary.RoundMoves = append(summary.RoundMoves, game.Turns)
		summary.GameSummaries = append(summary.GameSummaries, game)
		logf("match %s: round %d won by %s (+%d points, total %d)",
			m.ID, summary.Rounds, names[game.Winner], roundPoints, scores[game.Winner])

		if scores[game.Winner] >= m.Rules.TargetScore {
			summary.Winner = game.Winner
			summary.WinnerName = names[game.Winner]
			summary.WinnerScore = scores[game.Winner]
			summary.WinnerStrategy = m.seatOf(game.Winner).Agent.Name()
			logf("match %s: %s wins the match with %d points after %d rounds",
				m.ID, summary.WinnerName, summary.WinnerScore, summary.Rounds)
			return summary, nil
		}
	}
}

func (m *Match) seatOf(id uuid.UUID) Seat {
	for _, s := range m.Seats {
		if s.ID == id {
			return s
		}
	}
	return Seat{}
}
