// cmd/arena/main.go is a local simulator: it pits strategy agents against
// each other over a number of matches and reports aggregate statistics,
// optionally persisting results when Redis/Postgres are configured.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/unoarena/unoarena/internal/agent"
	"github.com/unoarena/unoarena/internal/cache"
	"github.com/unoarena/unoarena/internal/config"
	"github.com/unoarena/unoarena/internal/database"
	"github.com/unoarena/unoarena/internal/uno"
)

func main() {
	var (
		players = flag.String("players", "greedy,greedy,random,first", "comma-separated strategy list, one per seat")
		matches = flag.Int("matches", 1, "number of matches to play")
		seed    = flag.Int64("seed", 0, "base RNG seed (0 => time-derived)")
		target  = flag.Int("target", 500, "match target score")
		jsonOut = flag.Bool("json", false, "print each match summary as JSON")
		persist = flag.Bool("persist", false, "publish turn records to Redis and results to Postgres")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	if *persist {
		if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.HistorianQueue); err != nil {
			logger.Warnf("redis unavailable: %v", err)
		}
		database.ConnectDB(cfg)
		defer database.DB.Close()
	}

	kinds := strings.Split(*players, ",")
	if len(kinds) < 2 {
		logger.Fatal("need at least two seats, e.g. -players greedy,random")
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	rules := uno.DefaultRules()
	rules.TargetScore = *target

	winsByStrategy := make(map[string]int)
	totalRounds := 0

	for i := 0; i < *matches; i++ {
		seats, err := buildSeats(kinds, baseSeed+int64(i)*1000)
		if err != nil {
			logger.Fatalf("seats: %v", err)
		}

		m := uno.NewMatch(rules, seats, baseSeed+int64(i)*1000)
		m.Logf = logger.Debugf
		if *persist {
			m.SinkFactory = func(gameID uuid.UUID) func(uno.Record) {
				return cache.SinkFor(gameID, logger.Warnf)
			}
		}

		sum, err := m.Run(context.Background())
		if err != nil {
			logger.Fatalf("match %d: %v", i+1, err)
		}

		winsByStrategy[sum.WinnerStrategy]++
		totalRounds += sum.Rounds

		logger.WithFields(logrus.Fields{
			"match":    i + 1,
			"winner":   sum.WinnerName,
			"strategy": sum.WinnerStrategy,
			"score":    sum.WinnerScore,
			"rounds":   sum.Rounds,
		}).Info("Match complete")

		if *jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(sum); err != nil {
				log.Printf("encode summary: %v", err)
			}
		}

		if *persist && database.DB != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := database.RecordMatch(ctx, sum); err != nil {
				logger.Errorf("persist match: %v", err)
			}
			cancel()
		}
	}

	logger.Infof("Played %d matches (%d rounds total, seed %d)", *matches, totalRounds, baseSeed)
	for strategy, wins := range winsByStrategy {
		logger.Infof("  %-8s %d wins", strategy, wins)
	}
}

// buildSeats makes one seat per strategy name, numbering duplicates so the
// report stays readable.
func buildSeats(kinds []string, seed int64) ([]uno.Seat, error) {
	seen := make(map[string]int)
	seats := make([]uno.Seat, 0, len(kinds))
	for i, kind := range kinds {
		kind = strings.TrimSpace(kind)
		a, err := agent.New(kind, seed+int64(i))
		if err != nil {
			return nil, err
		}
		seen[kind]++
		name := kind
		if seen[kind] > 1 || countOf(kinds, kind) > 1 {
			name = fmt.Sprintf("%s-%d", kind, seen[kind])
		}
		seats = append(seats, uno.Seat{ID: uuid.New(), Name: name, Agent: a})
	}
	return seats, nil
}

func countOf(kinds []string, kind string) int {
	n := 0
	for _, k := range kinds {
		if strings.TrimSpace(k) == kind {
			n++
		}
	}
	return n
}
