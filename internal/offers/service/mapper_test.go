package service

import (
	"testing"
	"time"

	"charterdesk_backend/internal/offers/repository"

	"github.com/google/uuid"
)

func TestOfferToResponseCarriesDomesticFlag(t *testing.T) {
	base := repository.Offer{
		ID:                  uuid.New(),
		OfferNumber:         "HB26-9",
		Status:              "received",
		CustomerName:        "Anna Svensson",
		Email:               "anna@example.com",
		Phone:               "+46701234567",
		OutboundOrigin:      "Helsingborg",
		OutboundDestination: "Köpenhamn",
		OutboundPassengers:  25,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	domestic := base
	domestic.OutboundDomestic = true
	if resp := offerToResponse(&domestic); !resp.IsDomestic {
		t.Error("domestic trip should surface IsDomestic = true")
	}

	international := base
	international.OutboundDomestic = false
	if resp := offerToResponse(&international); resp.IsDomestic {
		t.Error("international trip should surface IsDomestic = false")
	}
}

func TestOfferToResponseHidesBreakdownBeforePricing(t *testing.T) {
	o := repository.Offer{
		ID:                  uuid.New(),
		OfferNumber:         "HB26-10",
		Status:              "received",
		OutboundOrigin:      "Lund",
		OutboundDestination: "Göteborg",
		OutboundPassengers:  12,
	}

	if resp := offerToResponse(&o); resp.Breakdown != nil {
		t.Error("unpriced offer should have no breakdown")
	}
}
