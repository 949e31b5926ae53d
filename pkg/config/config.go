package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Storage struct {
		// Driver selects the repository backend: "postgres" or "memory".
		Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
	}
	Engine struct {
		StoryTTL             time.Duration `env:"ENGINE_STORY_TTL" env-default:"24h"`
		DefaultStoryDuration time.Duration `env:"ENGINE_DEFAULT_STORY_DURATION" env-default:"5s"`
		MaxOverlays          int           `env:"ENGINE_MAX_OVERLAYS" env-default:"10"`
		ResponsePageMax      int           `env:"ENGINE_RESPONSE_PAGE_MAX" env-default:"100"`
		// RetentionAge is how long after expiry a non-highlight story is kept
		// for by-id reads before the archival sweep removes it.
		RetentionAge time.Duration `env:"ENGINE_RETENTION_AGE" env-default:"120h"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns a lib/pq style connection string for tooling that goes
// through database/sql (goose migrations).
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
