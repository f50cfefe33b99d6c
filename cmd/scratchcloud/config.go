package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/credstore"
	credredis "github.com/aussiebroadwan/scratchcloud/internal/credstore/drivers/redis"
	credsqlite "github.com/aussiebroadwan/scratchcloud/internal/credstore/drivers/sqlite"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

type config struct {
	BaseURL     string        `env:"SCRATCH_BASE_URL" envDefault:"https://scratch.mit.edu"`
	APIURL      string        `env:"SCRATCH_API_URL" envDefault:"https://api.scratch.mit.edu"`
	WaitTimeout time.Duration `env:"SCRATCH_WAIT_TIMEOUT" envDefault:"10s"`

	Home        string `env:"SCRATCHCLOUD_HOME"`
	StoreDriver string `env:"SCRATCHCLOUD_STORE" envDefault:"sqlite"` // sqlite, redis
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	Env       string `env:"ENV" envDefault:"prod"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// loadConfig reads an optional .env file from the working directory and
// then the environment.
func loadConfig() (config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, fmt.Errorf("error parsing configuration: %w", err)
	}

	if cfg.Home == "" {
		homeDir, err := homedir.Dir()
		if err != nil {
			return config{}, fmt.Errorf("error locating user's home directory: %w", err)
		}
		cfg.Home = filepath.Join(homeDir, ".scratchcloud")
	} else if cfg.Home, err = homedir.Expand(cfg.Home); err != nil {
		return config{}, fmt.Errorf("error expanding SCRATCHCLOUD_HOME: %w", err)
	}

	if cfg.WaitTimeout <= 0 {
		return config{}, fmt.Errorf("SCRATCH_WAIT_TIMEOUT must be positive, got %s", cfg.WaitTimeout)
	}
	return cfg, nil
}

// redisURL accepts either host:port or a full redis:// URL.
func (c config) redisURL() string {
	if strings.Contains(c.RedisAddr, "://") {
		return c.RedisAddr
	}
	return "redis://" + c.RedisAddr + "/0"
}

// openStore opens and migrates the configured credential cache.
func openStore(ctx context.Context, cfg config) (credstore.Store, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case "sqlite":
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, fmt.Errorf("error creating scratchcloud home at %s: %w", cfg.Home, err)
		}
		dsn := "file:" + filepath.Join(cfg.Home, "credentials.db") + "?_pragma=busy_timeout(5000)"
		s, err := credsqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("error opening credential cache: %w", err)
		}
		if err := s.ApplyMigrations(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("error migrating credential cache: %w", err)
		}
		return s, nil

	case "redis":
		s, err := credredis.Connect(ctx, cfg.redisURL(), "scratchcloud")
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown SCRATCHCLOUD_STORE %q: want sqlite or redis", cfg.StoreDriver)
	}
}
