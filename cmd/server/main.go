// Package main implements the entry point for the braindump API server,
// which manages users' flashcard categories, their Leitner-style review
// sessions, and category sharing between users.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/memodrop/braindump/internal/config"
	"github.com/memodrop/braindump/internal/events"
	"github.com/memodrop/braindump/internal/platform/logger"
	"github.com/memodrop/braindump/internal/platform/postgres"
	"github.com/memodrop/braindump/internal/service"
	"github.com/memodrop/braindump/internal/service/auth"
	"github.com/memodrop/braindump/internal/service/braindump"
	"github.com/memodrop/braindump/internal/service/sharing"
	"github.com/memodrop/braindump/internal/store"
	"github.com/memodrop/braindump/internal/task"
)

// defaultMigrationsDir is where the goose SQL migrations live, relative to
// the project root. Override with BRAINDUMP_MIGRATIONS_DIR.
const defaultMigrationsDir = "internal/platform/postgres/migrations"

// application bundles the initialized dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	userService     service.UserService
	categoryService service.CategoryService
	cardService     service.CardService
	reviewService   braindump.Service
	sharingService  sharing.Service

	taskRunner *task.TaskRunner
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}()

	if err := app.taskRunner.Start(); err != nil {
		log.Fatalf("Failed to start task runner: %v", err)
	}
	defer app.taskRunner.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      app.setupRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		app.logger.Info("server listening", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("graceful shutdown failed", "error", err)
	}
}

// initializeApp loads configuration and builds the full dependency graph.
func initializeApp() (*application, error) {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Stores
	userStore := postgres.NewPostgresUserStore(db, appLogger)
	categoryStore := postgres.NewPostgresCategoryStore(db, appLogger)
	cardStore := postgres.NewPostgresCardStore(db, appLogger)
	placementStore := postgres.NewPostgresPlacementStore(db, appLogger)
	contractStore := postgres.NewPostgresShareContractStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	txRunner := store.NewTxRunner(db)

	// Auth
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// Background task machinery. The event emitter decouples the sharing
	// service from task construction; the rehydrator rebuilds recovered
	// tasks after a restart.
	shareStores := task.ShareStores{
		Tx:         txRunner,
		Categories: categoryStore,
		Cards:      cardStore,
		Placements: placementStore,
		Contracts:  contractStore,
	}
	taskFactory := task.NewShareTaskFactory(shareStores, appLogger)
	taskStore.SetRehydrator(taskFactory)

	taskRunner := task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount:            cfg.Task.WorkerCount,
		QueueSize:              cfg.Task.QueueSize,
		StuckTaskAge:           time.Duration(cfg.Task.StuckTaskAgeMin) * time.Minute,
		StuckTaskCheckInterval: time.Duration(cfg.Task.StuckTaskCheckMin) * time.Minute,
	}, appLogger)

	emitter := events.NewInMemoryEventEmitter(appLogger)
	emitter.RegisterHandler(task.NewShareTaskEventHandler(taskFactory, taskRunner, appLogger))

	// Services
	userService, err := service.NewUserService(userStore, hasher, hasher, jwtService, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	categoryService, err := service.NewCategoryService(categoryStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}
	cardService, err := service.NewCardService(
		txRunner, cardStore, categoryStore, placementStore, contractStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}
	reviewService, err := braindump.NewService(
		braindump.Config{
			MaxPostpone: time.Duration(cfg.Review.MaxPostponeSeconds) * time.Second,
		},
		txRunner, cardStore, categoryStore, placementStore, nil, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}
	sharingService, err := sharing.NewService(
		userStore, categoryStore, contractStore, emitter, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharing service: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          appLogger,
		db:              db,
		jwtService:      jwtService,
		userService:     userService,
		categoryService: categoryService,
		cardService:     cardService,
		reviewService:   reviewService,
		sharingService:  sharingService,
		taskRunner:      taskRunner,
	}, nil
}

// runMigrations applies all pending goose migrations.
func runMigrations(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	dir := os.Getenv("BRAINDUMP_MIGRATIONS_DIR")
	if dir == "" {
		dir = defaultMigrationsDir
	}
	return goose.Up(db, dir)
}
