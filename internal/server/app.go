// Package server initializes and runs the API server: database connection,
// schema migrations, services, the HTTP listener, and the background session
// cleanup, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/config"
	"github.com/impulseapp/impulse-api/internal/server/httpapi"
	"github.com/impulseapp/impulse-api/internal/server/repositories/repomanager"
	"github.com/impulseapp/impulse-api/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	syncService *services.SyncService
}

// NewApp connects to the database, runs migrations, and wires the services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db connection error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		authService: services.NewAuthService(db, rm, cfg, logger),
		syncService: services.NewSyncService(db, rm, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.config, app.logger, app.authService, app.syncService)
	srv := &http.Server{Addr: app.config.Addr(), Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "server started", "addr", app.config.Addr(), "env", app.config.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

// runSessionCleanup deletes expired and revoked sessions on a fixed interval
// until the context is cancelled.
func (app *App) runSessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(app.config.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.authService.CleanupSessions(ctx); err != nil {
				app.logger.Warn(ctx, "session cleanup failed", "error", err)
			}
		}
	}
}

// Run starts the HTTP server and the cleanup loop and blocks until shutdown.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSessionCleanup(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "server stopped")
}
