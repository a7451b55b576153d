// Package offers provides the offer lifecycle domain module.
package offers

import (
	"charterdesk_backend/internal/accesstoken"
	apphttp "charterdesk_backend/internal/http"
	"charterdesk_backend/internal/offers/handler"
	"charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/internal/offers/service"
	"charterdesk_backend/platform/events"
	"charterdesk_backend/platform/logger"
	"charterdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the offers domain module
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
	repo          *repository.Repository
}

// NewModule creates a new offers module with all dependencies wired
func NewModule(pool *pgxpool.Pool, tokens *accesstoken.Service, cfg service.Config, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, tokens, cfg, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)
	ph := handler.NewPublicHandler(svc, val)

	return &Module{
		handler:       h,
		publicHandler: ph,
		service:       svc,
		repo:          repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "offers"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the repository for the financial rollup's bulk
// reads and for the notification module's document rendering.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	offers := ctx.Protected.Group("/offers")
	m.handler.RegisterRoutes(offers)

	// Public routes — no auth middleware, token travels in the link
	publicOffers := ctx.V1.Group("/public/offers")
	m.publicHandler.RegisterRoutes(publicOffers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
