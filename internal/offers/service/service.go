// Package service implements the offer lifecycle: intake, pricing,
// proposal, customer decision and booking conversion handoff.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charterdesk_backend/internal/accesstoken"
	"charterdesk_backend/internal/events"
	"charterdesk_backend/internal/offers/domain"
	"charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/apperr"
	"charterdesk_backend/platform/config"
	"charterdesk_backend/platform/logger"
	"charterdesk_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	msgTransitionConflict = "offer was modified concurrently, retry"
	msgNeedsBreakdown     = "a pricing breakdown must be attached to answer an offer"
	msgLegCountMismatch   = "quote legs must match the offer's legs"
)

// Config combines the configuration interfaces the offers service needs.
type Config interface {
	config.PricingConfig
	config.OfferTokenConfig
	config.NotificationConfig
}

// Service implements offer lifecycle operations.
type Service struct {
	repo     *repository.Repository
	tokens   *accesstoken.Service
	cfg      Config
	log      *logger.Logger
	eventBus events.Bus
}

// New creates a new offers service.
func New(repo *repository.Repository, tokens *accesstoken.Service, cfg Config, log *logger.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, cfg: cfg, log: log}
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// logTransition records a committed status move.
func (s *Service) logTransition(offerNumber string, from, to domain.Status, actor domain.Actor) {
	if s.log != nil {
		s.log.OfferTransition(offerNumber, string(from), string(to), string(actor))
	}
}

func (s *Service) defaultRates() Rates {
	return Rates{
		Km:      s.cfg.GetStandardKmRate(),
		Day:     s.cfg.GetStandardDayRate(),
		Evening: s.cfg.GetStandardEveningRate(),
		Weekend: s.cfg.GetStandardWeekendRate(),
	}
}

func (s *Service) vatRates() VATRates {
	return VATRates{
		Domestic:      s.cfg.GetVATRateDomestic(),
		International: s.cfg.GetVATRateInternational(),
	}
}

// Create registers a new price request in state received.
func (s *Service) Create(ctx context.Context, req transport.CreateOfferRequest) (*transport.OfferResponse, error) {
	number, err := s.repo.NextOfferNumber(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "could not allocate offer number", err)
	}

	outboundDate, err := parseLegDate(req.Outbound.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offer := &repository.Offer{
		ID:                  uuid.New(),
		OfferNumber:         number,
		Status:              string(domain.StatusReceived),
		CustomerName:        strings.TrimSpace(req.CustomerName),
		Company:             req.Company,
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:               phone.NormalizeE164(req.Phone),
		Address:             req.Address,
		ExternalRef:         req.ExternalRef,
		OutboundOrigin:      req.Outbound.Origin,
		OutboundDestination: req.Outbound.Destination,
		OutboundDate:        outboundDate,
		OutboundTime:        optionalString(req.Outbound.Time),
		OutboundPassengers:  req.Outbound.Passengers,
		OutboundNotes:       req.Outbound.Notes,
		OutboundDomestic:    req.IsDomestic == nil || *req.IsDomestic,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if req.Return != nil {
		returnDate, err := parseLegDate(req.Return.Date)
		if err != nil {
			return nil, err
		}
		offer.ReturnOrigin = &req.Return.Origin
		offer.ReturnDestination = &req.Return.Destination
		offer.ReturnDate = returnDate
		offer.ReturnTime = optionalString(req.Return.Time)
		offer.ReturnPassengers = &req.Return.Passengers
		offer.ReturnNotes = req.Return.Notes
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferReceived{
			BaseEvent:    events.NewBaseEvent(),
			OfferID:      offer.ID,
			OfferNumber:  offer.OfferNumber,
			CustomerName: offer.CustomerName,
			Email:        offer.Email,
		})
	}

	return offerToResponse(offer), nil
}

// Get returns the staff view of one offer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return offerToResponse(offer), nil
}

// List returns a filtered, paginated list of offers.
func (s *Service) List(ctx context.Context, params repository.ListParams) (*transport.ListResponse, error) {
	if params.Status != nil {
		status, ok := domain.ParseStatus(*params.Status)
		if !ok {
			return nil, apperr.Validation("unknown status filter")
		}
		canonical := string(status)
		params.Status = &canonical
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.OfferResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *offerToResponse(&result.Items[i]))
	}
	return &transport.ListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Update lets staff correct contact and reference fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateOfferRequest) (*transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		offer.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.Company != nil {
		offer.Company = req.Company
	}
	if req.Email != nil {
		offer.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		offer.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Address != nil {
		offer.Address = req.Address
	}
	if req.ExternalRef != nil {
		offer.ExternalRef = req.ExternalRef
	}
	if req.InternalRef != nil {
		offer.InternalRef = req.InternalRef
	}

	if err := s.repo.UpdateContact(ctx, offer); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Preview runs the calculator without persisting anything. Staff use it to
// iterate on a quote before sending the proposal.
func (s *Service) Preview(ctx context.Context, req transport.QuoteRequest) (*transport.QuoteBreakdown, error) {
	return CalculateQuote(req, s.defaultRates(), s.vatRates())
}

// SendProposal prices the offer and moves it received -> answered in one
// atomic write, then issues a customer token and announces the proposal.
func (s *Service) SendProposal(ctx context.Context, id uuid.UUID, req transport.SendProposalRequest) (*transport.OfferResponse, error) {
	return s.answer(ctx, id, req, domain.StatusReceived)
}

// Reopen re-answers a declined offer with a fresh proposal. This is the
// explicit reopen path; a declined offer never silently becomes answered.
func (s *Service) Reopen(ctx context.Context, id uuid.UUID, req transport.SendProposalRequest) (*transport.OfferResponse, error) {
	resp, err := s.answer(ctx, id, req, domain.StatusDeclined)
	if err != nil {
		return nil, err
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferReopened{
			BaseEvent:   events.NewBaseEvent(),
			OfferID:     id,
			OfferNumber: resp.OfferNumber,
		})
	}
	return resp, nil
}

func (s *Service) answer(ctx context.Context, id uuid.UUID, req transport.SendProposalRequest, from domain.Status) (*transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	if current != from {
		return nil, apperr.Conflict(fmt.Sprintf("offer is %s, expected %s", current, from))
	}
	if err := domain.Transition(current, domain.StatusAnswered, domain.ActorStaff); err != nil {
		return nil, transitionErr(err)
	}

	wantLegs := 1
	if offer.HasReturn() {
		wantLegs = 2
	}
	if len(req.Quote.Legs) != wantLegs {
		return nil, apperr.Validation(msgLegCountMismatch)
	}

	breakdown, err := CalculateQuote(req.Quote, s.defaultRates(), s.vatRates())
	if err != nil {
		return nil, err
	}

	pricing := pricingFromBreakdown(breakdown, req.CommissionPercent)
	if err := s.repo.AnswerWithPricing(ctx, id, string(current), string(domain.StatusAnswered), pricing); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict(msgTransitionConflict)
		}
		return nil, err
	}

	s.logTransition(offer.OfferNumber, current, domain.StatusAnswered, domain.ActorStaff)

	token, err := s.tokens.Issue(offer.ID, offer.OfferNumber, accesstoken.RoleCustomer)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not issue customer token", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferAnswered{
			BaseEvent:      events.NewBaseEvent(),
			OfferID:        offer.ID,
			OfferNumber:    offer.OfferNumber,
			CustomerName:   offer.CustomerName,
			Email:          offer.Email,
			GrandTotal:     breakdown.GrandTotal,
			AccessToken:    token,
			TokenExpiresAt: time.Now().Add(s.cfg.GetOfferTokenTTL()),
		})
	}

	return s.Get(ctx, id)
}

// Cancel voids the offer from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	if err := domain.Transition(current, domain.StatusCancelled, domain.ActorStaff); err != nil {
		return nil, transitionErr(err)
	}

	if err := s.repo.UpdateStatusCAS(ctx, id, string(current), string(domain.StatusCancelled)); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict(msgTransitionConflict)
		}
		return nil, err
	}

	s.logTransition(offer.OfferNumber, current, domain.StatusCancelled, domain.ActorStaff)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferCancelled{
			BaseEvent:    events.NewBaseEvent(),
			OfferID:      offer.ID,
			OfferNumber:  offer.OfferNumber,
			CustomerName: offer.CustomerName,
			Email:        offer.Email,
		})
	}

	return s.Get(ctx, id)
}

// CustomerLink re-issues an access token on demand and returns the deep
// link that embeds it.
func (s *Service) CustomerLink(ctx context.Context, id uuid.UUID, role accesstoken.Role) (string, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(offer.ID, offer.OfferNumber, role)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "could not issue customer token", err)
	}
	return BuildOfferLink(s.cfg.GetAppBaseURL(), offer.OfferNumber, token), nil
}

// BeginBookingConversion validates the approved -> booking_confirmed
// transition and returns the offer so the bookings module can copy its
// fields. The status write itself happens transactionally with the booking
// insert in the bookings repository.
func (s *Service) BeginBookingConversion(ctx context.Context, id uuid.UUID) (*repository.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	if err := domain.Transition(current, domain.StatusBookingConfirmed, domain.ActorStaff); err != nil {
		return nil, transitionErr(err)
	}
	if !offer.HasBreakdown() {
		// Guarded by the state machine already, kept as a hard invariant.
		return nil, apperr.Conflict(msgNeedsBreakdown)
	}
	return offer, nil
}

// AnnounceBookingCreated publishes the conversion event once the bookings
// module has committed.
func (s *Service) AnnounceBookingCreated(ctx context.Context, bookingID, offerID uuid.UUID, offerNumber string) {
	s.logTransition(offerNumber, domain.StatusApproved, domain.StatusBookingConfirmed, domain.ActorStaff)
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.BookingCreated{
		BaseEvent:   events.NewBaseEvent(),
		BookingID:   bookingID,
		OfferID:     offerID,
		OfferNumber: offerNumber,
	})
}

// BuildOfferLink composes the customer deep link for an offer.
func BuildOfferLink(baseURL, offerNumber, token string) string {
	return strings.TrimRight(baseURL, "/") + "/offer/" + offerNumber + "?t=" + token
}

func parseLegDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperr.Validation("leg date must be formatted YYYY-MM-DD")
	}
	return &d, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// transitionErr maps a state machine rejection onto the error taxonomy,
// keeping the transition details for the response body.
func transitionErr(err error) error {
	if err == nil {
		return nil
	}
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		return apperr.Wrap(apperr.KindConflict, invalid.Error(), err).WithDetails(map[string]string{
			"from": string(invalid.From),
			"to":   string(invalid.To),
		})
	}
	return err
}
