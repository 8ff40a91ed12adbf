package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Feed struct {
		ApiUrl          string `env:"FEED_API_URL"`
		ItemsPerPage    int    `env:"FEED_ITEMS_PER_PAGE" env-default:"5"`
		FallbackUrl     string `env:"FEED_FALLBACK_URL"`
		FallbackMessage string `env:"FEED_FALLBACK_MESSAGE" env-default:"Posts are temporarily unavailable. Please try again later."`
		FilterKeywords  string `env:"FEED_FILTER_KEYWORDS"` // semicolon-separated, e.g. "fire;cyclone"
		StartDate       string `env:"FEED_START_DATE"`      // YYYY-MM-DD
		EndDate         string `env:"FEED_END_DATE"`        // YYYY-MM-DD
		Theme           string `env:"FEED_THEME" env-default:"light"`
		RefreshCron     string `env:"FEED_REFRESH_CRON"` // empty disables scheduled refresh
		MaxRetries      int    `env:"FEED_MAX_RETRIES" env-default:"2"`
	}
	Cache struct {
		Backend string `env:"CACHE_BACKEND" env-default:"file"` // "file" or "postgres"
		Dir     string `env:"CACHE_DIR" env-default:"./cache"`
		Key     string `env:"CACHE_KEY" env-default:"securent-fb-cache"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
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

// GetDSN returns the postgres connection string for the configured database.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
