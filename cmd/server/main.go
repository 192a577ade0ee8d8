// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/unoarena/unoarena/internal/auth"
	"github.com/unoarena/unoarena/internal/cache"
	"github.com/unoarena/unoarena/internal/config"
	"github.com/unoarena/unoarena/internal/database"
	"github.com/unoarena/unoarena/internal/handlers"
	"github.com/unoarena/unoarena/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	auth.Init(cfg.TokenExpire)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Redis only carries the historian feed; the server stays up without it.
	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.HistorianQueue); err != nil {
		logger.Warnf("redis unavailable, turn records will not be published: %v", err)
	}

	if cfg.Persist {
		database.ConnectDB(cfg)
		defer database.DB.Close()
	}

	srv := handlers.NewGameServer(logger, cfg)

	mux := http.NewServeMux()

	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))
	mux.Handle("/game/", middleware.LogMiddleware(logger)(srv))

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
