package service

import (
	"context"
	"errors"

	"charterdesk_backend/internal/accesstoken"
	"charterdesk_backend/internal/events"
	"charterdesk_backend/internal/offers/domain"
	"charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgTokenRequired = "access token required"
	msgTokenInvalid  = "access token invalid or expired"
	msgTokenMismatch = "access token does not grant access to this offer"
)

func (s *Service) getByIDOrNumber(ctx context.Context, idOrNumber string) (*repository.Offer, error) {
	if id, err := uuid.Parse(idOrNumber); err == nil {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.GetByNumber(ctx, idOrNumber)
}

// authorize resolves the offer and enforces the token rule. A request that
// supplies a token must carry claims matching this offer, else access is
// forbidden. A request with no token at all passes only when the public
// link fallback is explicitly enabled in configuration; the historical
// behavior was to always let it through, which is an asymmetric trust rule
// the operator now has to opt into.
func (s *Service) authorize(ctx context.Context, idOrNumber, rawToken string, requireToken bool) (*repository.Offer, error) {
	offer, err := s.getByIDOrNumber(ctx, idOrNumber)
	if err != nil {
		return nil, err
	}

	if rawToken == "" {
		if !requireToken && s.cfg.IsPublicFallbackEnabled() {
			return offer, nil
		}
		s.logTokenRejected("missing", offer.OfferNumber)
		return nil, apperr.Unauthorized(msgTokenRequired)
	}

	claims := s.tokens.Verify(rawToken)
	if claims == nil {
		s.logTokenRejected("invalid or expired", offer.OfferNumber)
		return nil, apperr.Unauthorized(msgTokenInvalid)
	}
	if !claims.MatchesOffer(offer.ID, offer.OfferNumber) {
		s.logTokenRejected("offer mismatch", offer.OfferNumber)
		return nil, apperr.Forbidden(msgTokenMismatch)
	}
	if requireToken && claims.Role != accesstoken.RoleCustomer && claims.Role != accesstoken.RoleAdmin {
		s.logTokenRejected("role not allowed", offer.OfferNumber)
		return nil, apperr.Forbidden(msgTokenMismatch)
	}
	return offer, nil
}

func (s *Service) logTokenRejected(reason, offerNumber string) {
	if s.log != nil {
		s.log.TokenRejected(reason, offerNumber)
	}
}

// GetPublic returns the customer-facing view of an offer, rendered per the
// status display binding.
func (s *Service) GetPublic(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error) {
	offer, err := s.authorize(ctx, idOrNumber, rawToken, false)
	if err != nil {
		return nil, err
	}

	status, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	return offerToPublic(offer, status), nil
}

// Approve records the customer's acceptance of the priced offer.
// Mutations always require a valid token; the public link fallback only
// ever applies to reads.
func (s *Service) Approve(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error) {
	offer, err := s.authorize(ctx, idOrNumber, rawToken, true)
	if err != nil {
		return nil, err
	}

	current, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	if err := domain.Transition(current, domain.StatusApproved, domain.ActorCustomer); err != nil {
		return nil, transitionErr(err)
	}

	if err := s.repo.SetApproved(ctx, offer.ID, string(current), string(domain.StatusApproved)); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict(msgTransitionConflict)
		}
		return nil, err
	}

	s.logTransition(offer.OfferNumber, current, domain.StatusApproved, domain.ActorCustomer)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferApproved{
			BaseEvent:    events.NewBaseEvent(),
			OfferID:      offer.ID,
			OfferNumber:  offer.OfferNumber,
			CustomerName: offer.CustomerName,
			Email:        offer.Email,
			GrandTotal:   deref(offer.GrandTotal),
		})
	}

	return s.GetPublic(ctx, idOrNumber, rawToken)
}

// Decline records the customer's rejection with an optional reason.
func (s *Service) Decline(ctx context.Context, idOrNumber, rawToken string, req transport.DeclineRequest) (*transport.PublicOfferResponse, error) {
	offer, err := s.authorize(ctx, idOrNumber, rawToken, true)
	if err != nil {
		return nil, err
	}

	current, ok := domain.ParseStatus(offer.Status)
	if !ok {
		return nil, apperr.Internal("offer has unrecognized status")
	}
	if err := domain.Transition(current, domain.StatusDeclined, domain.ActorCustomer); err != nil {
		return nil, transitionErr(err)
	}

	if err := s.repo.SetDeclined(ctx, offer.ID, string(current), string(domain.StatusDeclined), req.Reason); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperr.Conflict(msgTransitionConflict)
		}
		return nil, err
	}

	s.logTransition(offer.OfferNumber, current, domain.StatusDeclined, domain.ActorCustomer)

	if s.eventBus != nil {
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		s.eventBus.Publish(ctx, events.OfferDeclined{
			BaseEvent:   events.NewBaseEvent(),
			OfferID:     offer.ID,
			OfferNumber: offer.OfferNumber,
			Reason:      reason,
		})
	}

	return s.GetPublic(ctx, idOrNumber, rawToken)
}

// RequestChange stores a customer change request note on the offer.
func (s *Service) RequestChange(ctx context.Context, idOrNumber, rawToken string, req transport.ChangeRequestNote) error {
	offer, err := s.authorize(ctx, idOrNumber, rawToken, true)
	if err != nil {
		return err
	}
	return s.repo.SetChangeRequest(ctx, offer.ID, req.Note)
}
