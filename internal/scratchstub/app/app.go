package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/scratchcloud/internal/scratchstub/http"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store"
	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/store/drivers/sqlite"
	"github.com/aussiebroadwan/scratchcloud/pkg/cryptox"
	"github.com/aussiebroadwan/scratchcloud/pkg/jwtx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	defaultUsername = "scratcher"
)

// Application is the stub Scratch service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	sessionService      *service.SessionService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with seeded users.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "scratchstub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initKeys(); err != nil {
		return nil, err
	}
	if err := app.initStore(); err != nil {
		return nil, err
	}
	if err := app.seed(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("scratch stub starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down scratch stub...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("scratch stub stopped")
	return nil
}

// initKeys sets up the extended token signer, generating a secret when
// none is configured.
func (app *Application) initKeys() error {
	secret := []byte(app.cfg.XTokenSecret)
	if len(secret) == 0 {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return err
		}
		secret = []byte(generated)
		app.logger.Warn("STUB_XTOKEN_SECRET not set; extended tokens will not survive a restart")
	}

	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("failed to create xtoken signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256(secret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to create xtoken verifier: %w", err)
	}

	app.signer, app.verifier = signer, verifier
	return nil
}

// initStore opens the database and applies migrations. An empty
// DatabaseFile keeps everything in memory.
func (app *Application) initStore() error {
	dsn := sqlite.MemoryDSN
	if app.cfg.DatabaseFile != "" && app.cfg.DatabaseFile != sqlite.MemoryDSN {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.db = db
	return nil
}

func (app *Application) seed(ctx context.Context) error {
	seeds, err := service.ParseUserSeeds(app.cfg.Users)
	if err != nil {
		return fmt.Errorf("invalid STUB_USERS: %w", err)
	}

	if len(seeds) == 0 {
		password, err := cryptox.GeneratePassword()
		if err != nil {
			return err
		}
		seeds = []service.UserSeed{{Username: defaultUsername, Password: password}}
		app.logger.Warn("STUB_USERS not set; created default user",
			"username", defaultUsername,
			"password", password,
		)
	}

	if err := (&service.SeedService{Store: app.db}).Seed(ctx, seeds); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	app.logger.Info("users seeded", "count", len(seeds))
	return nil
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
		XTokenTTL:  app.cfg.XTokenTTL,
		Delay:      app.cfg.SessionDelay,
	}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.verifier, BuildVersion, app.cfg.SecureCookies, app.logger)
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
