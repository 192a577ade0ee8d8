// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unoarena/unoarena/internal/uno"
)

// RecordGameAndResults persists the final outcome of a single game: the game
// row is finalized and one game_results row per seat records the points left
// in that seat's hand plus whether it won.
func RecordGameAndResults(ctx context.Context, sum uno.Summary, names map[uuid.UUID]string) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, winner_id, turns, reshuffles, end_time)
			VALUES ($1, 'completed', $2, $3, $4, NOW())
			ON CONFLICT (id) DO UPDATE
			SET status = 'completed', winner_id = $2, turns = $3, reshuffles = $4, end_time = NOW()
		`
		if _, e := tx.Exec(ctx, upsertGame, sum.GameID, sum.Winner, sum.Turns, sum.Reshuffles); e != nil {
			return e
		}

		for playerID, points := range sum.HandPoints {
			q := `
				INSERT INTO game_results (game_id, player_id, player_name, hand_points, did_win)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET hand_points = $4, did_win = $5
			`
			if _, e := tx.Exec(ctx, q, sum.GameID, playerID, names[playerID], points, playerID == sum.Winner); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// RecordMatch persists a completed multi-round match: the match row plus a
// match_results row per seat with the accumulated score. Round games are
// linked by inserting their ids into the games table with a match reference.
func RecordMatch(ctx context.Context, sum uno.MatchSummary) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		roundMoves, e := json.Marshal(sum.RoundMoves)
		if e != nil {
			return e
		}
		insMatch := `
			INSERT INTO matches (id, num_players, rounds, round_moves, winner_id, winner_score, end_time)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			ON CONFLICT (id) DO UPDATE
			SET rounds = $3, round_moves = $4, winner_id = $5, winner_score = $6, end_time = NOW()
		`
		if _, e := tx.Exec(ctx, insMatch,
			sum.MatchID, sum.NumberOfPlayers, sum.Rounds, roundMoves, sum.Winner, sum.WinnerScore); e != nil {
			return e
		}

		for playerID, score := range sum.Scores {
			q := `
				INSERT INTO match_results (match_id, player_id, player_name, score)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (match_id, player_id) DO UPDATE SET score = $4
			`
			if _, e := tx.Exec(ctx, q, sum.MatchID, playerID, sum.PlayerNames[playerID], score); e != nil {
				return e
			}
		}

		for _, game := range sum.GameSummaries {
			q := `
				UPDATE games SET match_id = $1 WHERE id = $2
			`
			if _, e := tx.Exec(ctx, q, sum.MatchID, game.GameID); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert match: %w", err)
	}
	return nil
}
