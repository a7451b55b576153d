package scheduler

import (
	"context"
	"fmt"

	"charterdesk_backend/internal/accesstoken"
	"charterdesk_backend/internal/email"
	"charterdesk_backend/internal/offers/domain"
	"charterdesk_backend/internal/offers/repository"
	offersvc "charterdesk_backend/internal/offers/service"
	"charterdesk_backend/platform/config"
	"charterdesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkerConfig combines the configuration the worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.NotificationConfig
}

// Worker processes scheduled tasks in the scheduler binary.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	tokens *accesstoken.Service
	sender email.Sender
	cfg    WorkerConfig
	log    *logger.Logger
}

// NewWorker creates the asynq server and registers task handlers.
func NewWorker(cfg WorkerConfig, pool *pgxpool.Pool, tokens *accesstoken.Service, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		tokens: tokens,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}

	mux.HandleFunc(TaskProposalReminder, w.handleProposalReminder)

	return w, nil
}

// Run starts processing tasks and blocks until Shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleProposalReminder mails a nudge if the offer is still waiting on
// the customer. A fresh token is issued so the reminder link outlives
// the original one.
func (w *Worker) handleProposalReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseProposalReminderPayload(task)
	if err != nil {
		return err
	}

	offerID, err := uuid.Parse(payload.OfferID)
	if err != nil {
		return fmt.Errorf("invalid offer id in reminder payload: %w", err)
	}

	offer, err := w.repo.GetByID(ctx, offerID)
	if err != nil {
		// The offer may have been purged; don't retry forever.
		w.log.Warn("reminder target missing", "offer", payload.OfferNumber, "error", err)
		return nil
	}

	if status, ok := domain.ParseStatus(offer.Status); !ok || status != domain.StatusAnswered {
		w.log.Debug("skipping reminder, offer moved on", "offer", offer.OfferNumber, "status", offer.Status)
		return nil
	}

	if w.sender == nil {
		return nil
	}

	token, err := w.tokens.Issue(offer.ID, offer.OfferNumber, accesstoken.RoleCustomer)
	if err != nil {
		return fmt.Errorf("issue reminder token: %w", err)
	}

	link := offersvc.BuildOfferLink(w.cfg.GetAppBaseURL(), offer.OfferNumber, token)
	return w.sender.SendProposalReminder(ctx, offer.Email, offer.CustomerName, offer.OfferNumber, link)
}
