// Package transport defines request/response DTOs for the offers module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Intake ────────────────────────────────────────────────────────────────────

// LegRequest describes one trip leg on an incoming price request.
type LegRequest struct {
	Origin      string  `json:"origin" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string  `json:"time,omitempty"`
	Passengers  int     `json:"passengers" validate:"gte=1"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateOfferRequest is the public intake payload creating an offer in
// state received. The return leg is optional.
type CreateOfferRequest struct {
	CustomerName string      `json:"customerName" validate:"required"`
	Company      *string     `json:"company,omitempty"`
	Email        string      `json:"email" validate:"required,email"`
	Phone        string      `json:"phone" validate:"required"`
	Address      *string     `json:"address,omitempty"`
	ExternalRef  *string     `json:"externalRef,omitempty"`
	// IsDomestic marks the whole trip as within Sweden; it pre-selects
	// the VAT rate staff see when pricing. Omitted means domestic.
	IsDomestic *bool       `json:"isDomestic,omitempty"`
	Outbound   LegRequest  `json:"outbound" validate:"required"`
	Return     *LegRequest `json:"return,omitempty"`
}

// UpdateOfferRequest lets staff correct contact and reference fields.
type UpdateOfferRequest struct {
	CustomerName *string `json:"customerName,omitempty"`
	Company      *string `json:"company,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	ExternalRef  *string `json:"externalRef,omitempty"`
	InternalRef  *string `json:"internalRef,omitempty"`
}

// ChangeRequestNote records a customer's change request against an offer.
type ChangeRequestNote struct {
	Note string `json:"note" validate:"required"`
}

// ── Quote calculation ─────────────────────────────────────────────────────────

// QuoteLegInput is the calculator input for one leg. Discount is in
// currency units, not percent. IsDomestic selects the VAT rate applied
// downstream; it does not change the subtotal formula.
type QuoteLegInput struct {
	IsDomestic   bool    `json:"isDomestic"`
	Km           float64 `json:"km"`
	HoursDay     float64 `json:"hoursDay"`
	HoursEvening float64 `json:"hoursEvening"`
	HoursWeekend float64 `json:"hoursWeekend"`
	Discount     float64 `json:"discount"`
}

// RatesInput optionally overrides the operator's standard prices for a
// single calculation. Nil fields fall back to configured defaults.
type RatesInput struct {
	KmRate      *float64 `json:"kmRate,omitempty"`
	DayRate     *float64 `json:"dayRate,omitempty"`
	EveningRate *float64 `json:"eveningRate,omitempty"`
	WeekendRate *float64 `json:"weekendRate,omitempty"`
}

// QuoteRequest is the calculator input: one or two legs plus a flat
// service fee (ex-VAT).
type QuoteRequest struct {
	Legs       []QuoteLegInput `json:"legs" validate:"required,min=1,max=2"`
	ServiceFee float64         `json:"serviceFee"`
	Rates      *RatesInput     `json:"rates,omitempty"`
}

// LegBreakdown is the priced result for one leg or the service fee.
type LegBreakdown struct {
	SubtotalExVAT float64 `json:"subtotalExVat"`
	VAT           float64 `json:"vat"`
	Total         float64 `json:"total"`
	VATRate       float64 `json:"vatRate"`
}

// QuoteBreakdown is the full calculator output with per-leg and grand totals.
type QuoteBreakdown struct {
	Legs       []LegBreakdown `json:"legs"`
	ServiceFee LegBreakdown   `json:"serviceFee"`
	GrandExVAT float64        `json:"grandExVat"`
	GrandVAT   float64        `json:"grandVat"`
	GrandTotal float64        `json:"grandTotal"`
}

// SendProposalRequest prices an offer and moves it to answered in one
// atomic action.
type SendProposalRequest struct {
	Quote             QuoteRequest `json:"quote" validate:"required"`
	CommissionPercent *float64     `json:"commissionPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// ── Customer actions ──────────────────────────────────────────────────────────

// DeclineRequest carries the customer's optional reason for declining.
type DeclineRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LegResponse is one trip leg on an offer.
type LegResponse struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Date        *time.Time `json:"date,omitempty"`
	Time        *string    `json:"time,omitempty"`
	Passengers  int        `json:"passengers"`
	Notes       *string    `json:"notes,omitempty"`
}

// OfferResponse is the staff-facing view of an offer.
type OfferResponse struct {
	ID                uuid.UUID       `json:"id"`
	OfferNumber       string          `json:"offerNumber"`
	Status            string          `json:"status"`
	CustomerName      string          `json:"customerName"`
	Company           *string         `json:"company,omitempty"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Address           *string         `json:"address,omitempty"`
	ExternalRef       *string         `json:"externalRef,omitempty"`
	InternalRef       *string         `json:"internalRef,omitempty"`
	IsDomestic        bool            `json:"isDomestic"`
	Outbound          LegResponse     `json:"outbound"`
	Return            *LegResponse    `json:"return,omitempty"`
	Breakdown         *QuoteBreakdown `json:"breakdown,omitempty"`
	CommissionPercent *float64        `json:"commissionPercent,omitempty"`
	Approved          bool            `json:"approved"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	ChangeRequestNote *string         `json:"changeRequestNote,omitempty"`
	ChangeRequestAt   *time.Time      `json:"changeRequestAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// PublicOfferResponse is the customer-facing view resolved through the
// access token service and the status display binding. The breakdown is
// present only for states that render priced information.
type PublicOfferResponse struct {
	OfferNumber  string          `json:"offerNumber"`
	DisplayMode  string          `json:"displayMode"`
	Status       string          `json:"status"`
	CustomerName string          `json:"customerName"`
	Outbound     LegResponse     `json:"outbound"`
	Return       *LegResponse    `json:"return,omitempty"`
	Breakdown    *QuoteBreakdown `json:"breakdown,omitempty"`
	Approved     bool            `json:"approved"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`
}

// ListResponse is a paginated list of offers.
type ListResponse struct {
	Items      []OfferResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}
