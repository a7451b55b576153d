package scheduler

import (
	"context"

	"charterdesk_backend/internal/events"
	"charterdesk_backend/platform/config"
	platformevents "charterdesk_backend/platform/events"
	"charterdesk_backend/platform/logger"
)

// Planner schedules a proposal reminder when an offer is answered. It
// runs in the API process; the worker binary executes the task.
type Planner struct {
	client ReminderScheduler
	cfg    config.SchedulerConfig
	log    *logger.Logger
}

// NewPlanner creates the reminder planner. The client may be nil when
// Redis is not configured; reminders are then skipped.
func NewPlanner(client ReminderScheduler, cfg config.SchedulerConfig, log *logger.Logger) *Planner {
	return &Planner{client: client, cfg: cfg, log: log}
}

// RegisterHandlers subscribes to the answered event.
func (p *Planner) RegisterHandlers(bus *platformevents.InMemoryBus) {
	bus.Subscribe(events.OfferAnswered{}.EventName(), p)
}

// Handle schedules the reminder ahead of the token's expiry.
func (p *Planner) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.OfferAnswered)
	if !ok || p.client == nil {
		return nil
	}

	runAt := e.TokenExpiresAt.Add(-p.cfg.GetReminderLeadTime())
	if err := p.client.ScheduleProposalReminder(ctx, ProposalReminderPayload{
		OfferID:     e.OfferID.String(),
		OfferNumber: e.OfferNumber,
	}, runAt); err != nil {
		p.log.Error("failed to schedule proposal reminder", "offer", e.OfferNumber, "error", err)
	}
	return nil
}
