// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, parsed from the environment. The cmd
// entrypoints load a .env file first via godotenv's autoload import, so a
// local checkout runs without exporting anything.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// TurnTimerSec is the default per-turn agent timeout for new games.
	TurnTimerSec int `env:"TURN_TIMER_SEC" envDefault:"15"`

	RedisAddr        string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	HistorianQueue   string `env:"HISTORIAN_QUEUE_NAME" envDefault:"uno_turns"`
	HistorianBatch   int    `env:"HISTORIAN_BATCH_SIZE" envDefault:"20"`
	HistorianFlushMS int    `env:"HISTORIAN_FLUSH_MS" envDefault:"500"`

	// GameInactivitySec is how long a game may sit idle before the
	// historian marks it abandoned.
	GameInactivitySec int `env:"GAME_INACTIVITY_TIMEOUT_SEC" envDefault:"600"`

	// Persist enables the Postgres-backed result store. Off by default so
	// the server runs standalone.
	Persist bool `env:"PERSIST_RESULTS" envDefault:"false"`

	PostgresUser     string `env:"POSTGRES_USER" envDefault:"uno"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:""`
	PostgresHost     string `env:"PG_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"PG_PORT" envDefault:"5432"`
	PostgresDatabase string `env:"PG_DATABASE" envDefault:"unoarena"`

	// TokenExpire is the seat-token lifetime ("0" or "never" => no expiry).
	TokenExpire string `env:"TOKEN_EXPIRE_TIME" envDefault:"72h"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// PostgresDSN assembles the pgx connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDatabase)
}
