// Package server wires configuration, storage, services and the HTTP and
// gRPC transports together and runs them until shutdown.
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/avatars"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"

	gs "github.com/dmitrijs2005/gophtasks/internal/server/grpc"
)

const version = "1.0.0"

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	users    *services.UserService
	tasks    *services.TaskService
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, c.DatabaseDSN, dbx.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxIdleTime: c.DBMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app, err := newApp(ctx, c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	secret, err := signingSecret(ctx, c.SecretKey, logger)
	if err != nil {
		return nil, err
	}

	tm, err := auth.NewTokenManager(secret, c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	store, err := avatarStore(ctx, c, db, rm)
	if err != nil {
		return nil, err
	}

	sessions := services.NewSessionService(db, rm, tm, logger)
	users := services.NewUserService(db, rm, auth.NewPasswordHasher(c.PasswordHashCost), sessions, store, logger)
	tasks := services.NewTaskService(db, rm, logger)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		sessions: sessions,
		users:    users,
		tasks:    tasks,
	}, nil
}

// signingSecret returns the configured secret, or a random one when none
// is set. Tokens signed with a random secret do not survive a restart.
func signingSecret(ctx context.Context, configured string, logger logging.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	logger.Warn(ctx, "GOPHTASKS_SECRET_KEY is not set, generating a random signing key; tokens will not survive a restart")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	return secret, nil
}

func avatarStore(ctx context.Context, c *config.Config, db *sql.DB, rm repomanager.RepositoryManager) (avatars.Store, error) {
	switch c.AvatarStorage {
	case config.AvatarStorageS3:
		client, err := avatars.NewS3Client(ctx, avatars.S3Options{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return avatars.NewS3Store(client, c.S3Bucket), nil
	default:
		return avatars.NewPostgresStore(db, rm), nil
	}
}

func (app *App) httpServer() *http.Server {
	api := httpapi.NewServer(app.sessions, app.users, app.tasks, app.logger, app.config.Environment, version)
	return &http.Server{
		Addr:         app.config.EndpointAddrHTTP,
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := app.httpServer()

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr, "env", app.config.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.sessions, app.users, app.tasks)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until SIGINT, SIGTERM or SIGQUIT arrives, or
// until either transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", version)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
