// Package server initializes and runs the main application server.
// It opens the metadata database, runs migrations, selects the content store
// backend, wires the services and notification channels, and starts the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkovx/listsync/internal/logging"
	"github.com/avolkovx/listsync/internal/server/config"
	"github.com/avolkovx/listsync/internal/server/contentstore"
	"github.com/avolkovx/listsync/internal/server/httpapi"
	"github.com/avolkovx/listsync/internal/server/hub"
	"github.com/avolkovx/listsync/internal/server/notify"
	"github.com/avolkovx/listsync/internal/server/push"
	"github.com/avolkovx/listsync/internal/server/repositories/repomanager"
	"github.com/avolkovx/listsync/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	content, err := newContentStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("content store init error: %w", err)
	}

	eventHub := hub.New()
	pushService := push.NewService(db, rm, push.NewLogProvider(logger), logger)
	dispatcher := notify.NewDispatcher(eventHub, pushService, logger)

	tokens := services.NewTokenService(cfg.ShareTokenKeyLength)
	userService := services.NewUserService(db, rm, cfg)
	contactService := services.NewContactService(db, rm, tokens, dispatcher)
	sharingService := services.NewSharingService(db, rm, content, tokens, dispatcher, logger)

	handler := httpapi.NewRouter(httpapi.NewHandler(userService, sharingService, contactService, eventHub, logger))

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func newContentStore(ctx context.Context, cfg *config.Config) (contentstore.Store, error) {
	switch cfg.ContentBackend {
	case config.ContentBackendFS:
		return contentstore.NewFSStore(cfg.DataDir)
	case config.ContentBackendS3:
		return contentstore.NewS3Store(ctx, contentstore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.ContentBackend)
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// termination signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}
