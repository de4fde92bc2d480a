package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cnovais/flashdeck-api/internal/config"
	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/srs"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/platform/postgres"
	"github.com/cnovais/flashdeck-api/internal/service"
	"github.com/cnovais/flashdeck-api/internal/service/auth"
	"github.com/cnovais/flashdeck-api/internal/service/gamification"
	"github.com/cnovais/flashdeck-api/internal/service/study_session"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	deckStore        store.DeckStore
	cardStore        store.CardStore
	reviewStore      store.ReviewLogStore
	profileStore     store.ProfileStore
	achievementStore store.AchievementStore

	// Services
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	srsService          srs.Service
	userService         service.UserService
	deckService         service.DeckService
	studyService        study_session.StudySessionService
	gamificationService gamification.GamificationService

	// Event system and background work
	eventEmitter events.EventEmitter
	taskRunner   *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logging and the database connection are
// established by the caller.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db)
	app.deckStore = postgres.NewPostgresDeckStore(db)
	app.cardStore = postgres.NewPostgresCardStore(db)
	app.reviewStore = postgres.NewPostgresReviewLogStore(db)
	app.profileStore = postgres.NewPostgresProfileStore(db)
	app.achievementStore = postgres.NewPostgresAchievementStore(db)

	// Background task runner for fire-and-forget side effects
	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Study.TaskWorkerCount,
		QueueSize:   cfg.Study.TaskQueueSize,
		TaskTimeout: time.Duration(cfg.Study.TaskTimeoutSeconds) * time.Second,
	}, logger)
	app.taskRunner.Start()

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Review scheduling policy from the configured fixed intervals
	params := srs.NewParams(srs.ParamsConfig{
		AgainInterval: time.Duration(cfg.Study.AgainIntervalMs) * time.Millisecond,
		HardInterval:  time.Duration(cfg.Study.HardIntervalMs) * time.Millisecond,
		GoodInterval:  time.Duration(cfg.Study.GoodIntervalMs) * time.Millisecond,
		EasyInterval:  time.Duration(cfg.Study.EasyIntervalMs) * time.Millisecond,
	})
	app.srsService = srs.NewServiceWithParams(params)

	// Application services
	app.userService = service.NewUserService(app.userStore, app.passwordVerifier, logger)
	app.deckService = service.NewDeckService(app.deckStore, app.cardStore, app.eventEmitter, logger)

	app.studyService = study_session.NewStudySessionService(
		app.deckStore,
		app.cardStore,
		app.reviewStore,
		app.srsService,
		app.taskRunner,
		app.eventEmitter,
		study.XPAwards{
			domain.RatingAgain: cfg.Study.AgainXP,
			domain.RatingHard:  cfg.Study.HardXP,
			domain.RatingGood:  cfg.Study.GoodXP,
			domain.RatingEasy:  cfg.Study.EasyXP,
		},
	)

	app.gamificationService = gamification.NewGamificationService(
		app.profileStore,
		app.achievementStore,
		app.taskRunner,
	)

	// Route XP events into the accumulator
	xpHandler := gamification.NewXPEventHandler(app.gamificationService, cfg.Gamification)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(xpHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register XP handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
