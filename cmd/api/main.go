package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charterdesk_backend/internal/accesstoken"
	"charterdesk_backend/internal/auth"
	"charterdesk_backend/internal/bookings"
	"charterdesk_backend/internal/documents"
	"charterdesk_backend/internal/economy"
	"charterdesk_backend/internal/email"
	"charterdesk_backend/internal/events"
	apphttp "charterdesk_backend/internal/http"
	"charterdesk_backend/internal/http/router"
	"charterdesk_backend/internal/notification"
	"charterdesk_backend/internal/offers"
	"charterdesk_backend/internal/scheduler"
	"charterdesk_backend/platform/config"
	"charterdesk_backend/platform/db"
	"charterdesk_backend/platform/logger"
	"charterdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := initMailSender(cfg, log)

	// Document archive (optional, proposal PDFs still attach without it)
	var docStorage *documents.Storage
	if cfg.IsMinIOEnabled() {
		storage, err := documents.NewStorage(cfg)
		if err != nil {
			log.Error("failed to initialize document storage", "error", err)
			panic("failed to initialize document storage: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure offer-documents bucket", 5, 2*time.Second, func() error {
			return storage.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure document bucket exists", "error", err)
			panic("failed to ensure document bucket exists: " + err.Error())
		}
		docStorage = storage
		log.Info("document storage initialized", "bucket", cfg.GetMinioBucketOfferDocuments())
	} else {
		log.Warn("MinIO not configured; offer documents will not be archived")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	tokens := accesstoken.New(cfg)

	authModule := auth.NewModule(pool, cfg, val)
	offersModule := offers.NewModule(pool, tokens, cfg, eventBus, val, log)
	bookingsModule := bookings.NewModule(pool, offersModule.Service(), eventBus, val)
	economyModule := economy.NewModule(bookingsModule.Repository(), offersModule.Repository(), redisClient, cfg, log)
	economyModule.RegisterHandlers(eventBus)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(sender, offersModule.Repository(), docStorage, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// Reminder planner schedules follow-ups when proposals go out
	planner := scheduler.NewPlanner(reminderScheduler, cfg, log)
	planner.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			offersModule,
			bookingsModule,
			economyModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; financial series cache disabled")
		return nil
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; proposal reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func initMailSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		log.Warn("SMTP not configured; customer mail disabled")
		return nil
	}
	return email.NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
