package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env                 string        `env:"ENV" envDefault:"dev"`            // dev, test, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`     // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`    // json, text
	Port                int           `env:"PORT" envDefault:"8080"`          // HTTP server port
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// DatabaseFile is the SQLite file backing the stub. ":memory:" keeps
	// users and sessions in process, so a restart starts from the seeds.
	DatabaseFile string `env:"STUB_DATABASE_FILE" envDefault:":memory:"`

	// Users is a comma separated list of name:password pairs. When empty a
	// single user is created with a generated password that is logged.
	Users string `env:"STUB_USERS"`

	// XTokenSecret signs extended tokens; at least 32 bytes. Generated
	// per process when empty.
	XTokenSecret string        `env:"STUB_XTOKEN_SECRET"`
	Issuer       string        `env:"STUB_ISSUER" envDefault:"scratchstub"`
	XTokenTTL    time.Duration `env:"STUB_XTOKEN_TTL" envDefault:"6h"`
	SessionTTL   time.Duration `env:"STUB_SESSION_TTL" envDefault:"336h"`

	// SessionDelay is added to every session endpoint call.
	SessionDelay  time.Duration `env:"STUB_SESSION_DELAY" envDefault:"0s"`
	SecureCookies bool          `env:"STUB_SECURE_COOKIES" envDefault:"false"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.SessionDelay < 0 {
		return Config{}, fmt.Errorf("STUB_SESSION_DELAY must not be negative, got %s", cfg.SessionDelay)
	}
	return cfg, nil
}
