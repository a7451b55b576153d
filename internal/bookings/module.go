// Package bookings provides the bookings domain module.
package bookings

import (
	"charterdesk_backend/internal/bookings/handler"
	"charterdesk_backend/internal/bookings/repository"
	"charterdesk_backend/internal/bookings/service"
	apphttp "charterdesk_backend/internal/http"
	offersvc "charterdesk_backend/internal/offers/service"
	"charterdesk_backend/platform/events"
	"charterdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the bookings domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new bookings module with all dependencies wired
func NewModule(pool *pgxpool.Pool, offers *offersvc.Service, eventBus *events.InMemoryBus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, offers)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "bookings"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the repository for the financial rollup's bulk reads.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	bookings := ctx.Protected.Group("/bookings")
	m.handler.RegisterRoutes(bookings)

	offers := ctx.Protected.Group("/offers")
	m.handler.RegisterConvertRoute(offers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
