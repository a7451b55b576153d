// Package economy provides the financial rollup module.
package economy

import (
	"context"

	bookingrepo "charterdesk_backend/internal/bookings/repository"
	"charterdesk_backend/internal/economy/handler"
	"charterdesk_backend/internal/economy/service"
	"charterdesk_backend/internal/events"
	apphttp "charterdesk_backend/internal/http"
	offerrepo "charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/platform/config"
	platformevents "charterdesk_backend/platform/events"
	"charterdesk_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Config combines the configuration interfaces the economy module needs.
type Config interface {
	config.EconomyConfig
	config.PricingConfig
}

// Module represents the economy domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new economy module with all dependencies wired.
// The Redis client may be nil, the series is then computed on every
// request.
func NewModule(bookings *bookingrepo.Repository, offers *offerrepo.Repository, redisClient *redis.Client, cfg Config, log *logger.Logger) *Module {
	cache := service.NewCache(redisClient, cfg.GetEconomyCacheTTL())
	svc := service.New(bookings, offers, cache, log)
	h := handler.New(svc, cfg)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "economy"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	economy := ctx.Protected.Group("/economy")
	m.handler.RegisterRoutes(economy)
}

// RegisterHandlers subscribes to the events that move money between
// forecast and realized figures, invalidating the cached series.
func (m *Module) RegisterHandlers(bus *platformevents.InMemoryBus) {
	bus.Subscribe(events.OfferApproved{}.EventName(), m)
	bus.Subscribe(events.OfferCancelled{}.EventName(), m)
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
	bus.Subscribe(events.BookingCompleted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.OfferApproved, events.OfferCancelled, events.BookingCreated, events.BookingCompleted:
		m.service.InvalidateCache(ctx)
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
