// Package service implements booking conversion and operational updates.
package service

import (
	"context"
	"errors"
	"time"

	"charterdesk_backend/internal/bookings/domain"
	"charterdesk_backend/internal/bookings/repository"
	"charterdesk_backend/internal/bookings/transport"
	"charterdesk_backend/internal/events"
	offersvc "charterdesk_backend/internal/offers/service"
	"charterdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service implements booking operations.
type Service struct {
	repo     *repository.Repository
	offers   *offersvc.Service
	eventBus events.Bus
}

// New creates a new bookings service.
func New(repo *repository.Repository, offers *offersvc.Service) *Service {
	return &Service{repo: repo, offers: offers}
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// ConvertFromOffer creates a booking from an approved offer. The booking
// insert and the offer's move to booking_confirmed commit atomically; a
// concurrent cancel or second conversion loses and gets a conflict.
func (s *Service) ConvertFromOffer(ctx context.Context, offerID uuid.UUID, req transport.ConvertRequest) (*transport.BookingResponse, error) {
	offer, err := s.offers.BeginBookingConversion(ctx, offerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &repository.Booking{
		ID:            uuid.New(),
		OfferID:       offer.ID,
		OfferNumber:   offer.OfferNumber,
		Status:        string(domain.StatusPlanned),
		CustomerName:  offer.CustomerName,
		Company:       offer.Company,
		Email:         offer.Email,
		Phone:         offer.Phone,
		Origin:        offer.OutboundOrigin,
		Destination:   offer.OutboundDestination,
		TravelDate:    offer.OutboundDate,
		TravelTime:    offer.OutboundTime,
		Passengers:    offer.OutboundPassengers,
		Driver:        req.Driver,
		Vehicle:       req.Vehicle,
		OnSiteTime:    req.OnSiteTime,
		InternalNotes: req.InternalNotes,
		NetExVAT:      offer.GrandExVAT,
		VAT:           offer.GrandVAT,
		GrossTotal:    offer.GrandTotal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateFromOffer(ctx, booking, offer); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("offer was modified concurrently, retry")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create booking", err)
	}

	s.offers.AnnounceBookingCreated(ctx, booking.ID, offer.ID, offer.OfferNumber)

	return toResponse(booking), nil
}

// GetByOffer retrieves the booking created from an offer, if any.
func (s *Service) GetByOffer(ctx context.Context, offerID uuid.UUID) (*transport.BookingResponse, error) {
	booking, err := s.repo.GetByOfferID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return toResponse(booking), nil
}

// Get retrieves a booking by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(booking), nil
}

// List returns bookings matching the filter. A status filter is parsed
// against the canonical vocabulary first so Swedish spellings work.
func (s *Service) List(ctx context.Context, params repository.ListParams) (*transport.ListResponse, error) {
	if params.Status != nil {
		canonical, ok := domain.ParseStatus(*params.Status)
		if !ok {
			return nil, apperr.Validation("unknown booking status: " + *params.Status)
		}
		str := string(canonical)
		params.Status = &str
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.BookingResponse, len(result.Items))
	for i := range result.Items {
		items[i] = *toResponse(&result.Items[i])
	}
	return &transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update patches a booking's operational fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRequest) (*transport.BookingResponse, error) {
	booking, err := s.repo.UpdateOperational(ctx, id, req.Driver, req.Vehicle, req.OnSiteTime, req.InternalNotes)
	if err != nil {
		return nil, err
	}
	return toResponse(booking), nil
}

// MarkCompleted moves a planned booking to completed and stamps the time.
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID) (*transport.BookingResponse, error) {
	now := time.Now()
	if err := s.repo.UpdateStatusCAS(ctx, id, domain.StatusPlanned, domain.StatusCompleted, &now); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("booking is not in planned state")
		}
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.BookingCompleted{
			BaseEvent: events.NewBaseEvent(),
			BookingID: id,
		})
	}

	return s.Get(ctx, id)
}

// Cancel voids a planned booking.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*transport.BookingResponse, error) {
	if err := s.repo.UpdateStatusCAS(ctx, id, domain.StatusPlanned, domain.StatusCancelled, nil); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict("only planned bookings can be cancelled")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func toResponse(b *repository.Booking) *transport.BookingResponse {
	return &transport.BookingResponse{
		ID:            b.ID.String(),
		OfferID:       b.OfferID.String(),
		OfferNumber:   b.OfferNumber,
		Status:        b.Status,
		CustomerName:  b.CustomerName,
		Company:       b.Company,
		Email:         b.Email,
		Phone:         b.Phone,
		Origin:        b.Origin,
		Destination:   b.Destination,
		TravelDate:    b.TravelDate,
		TravelTime:    b.TravelTime,
		Passengers:    b.Passengers,
		Driver:        b.Driver,
		Vehicle:       b.Vehicle,
		OnSiteTime:    b.OnSiteTime,
		InternalNotes: b.InternalNotes,
		NetExVAT:      b.NetExVAT,
		VAT:           b.VAT,
		GrossTotal:    b.GrossTotal,
		CompletedAt:   b.CompletedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
