// Package events defines the domain events exchanged between modules.
package events

import (
	"time"

	platformevents "charterdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-exported platform types so modules only import internal/events.
type (
	Event     = platformevents.Event
	BaseEvent = platformevents.BaseEvent
	Bus       = platformevents.Bus
	Handler   = platformevents.Handler
)

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc = platformevents.HandlerFunc

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent { return platformevents.NewBaseEvent() }

// Event names.
const (
	EventOfferReceived    = "offer.received"
	EventOfferAnswered    = "offer.answered"
	EventOfferApproved    = "offer.approved"
	EventOfferDeclined    = "offer.declined"
	EventOfferCancelled   = "offer.cancelled"
	EventOfferReopened    = "offer.reopened"
	EventBookingCreated   = "booking.created"
	EventBookingCompleted = "booking.completed"
)

// OfferReceived fires when a new price request enters the system.
type OfferReceived struct {
	BaseEvent
	OfferID      uuid.UUID
	OfferNumber  string
	CustomerName string
	Email        string
}

func (OfferReceived) EventName() string { return EventOfferReceived }

// OfferAnswered fires when staff sends a priced proposal. AccessToken is the
// freshly issued customer token; TokenExpiresAt drives follow-up reminders.
type OfferAnswered struct {
	BaseEvent
	OfferID        uuid.UUID
	OfferNumber    string
	CustomerName   string
	Email          string
	GrandTotal     float64
	AccessToken    string
	TokenExpiresAt time.Time
}

func (OfferAnswered) EventName() string { return EventOfferAnswered }

// OfferApproved fires when the customer accepts the priced offer.
type OfferApproved struct {
	BaseEvent
	OfferID      uuid.UUID
	OfferNumber  string
	CustomerName string
	Email        string
	GrandTotal   float64
}

func (OfferApproved) EventName() string { return EventOfferApproved }

// OfferDeclined fires when the customer rejects the priced offer.
type OfferDeclined struct {
	BaseEvent
	OfferID     uuid.UUID
	OfferNumber string
	Reason      string
}

func (OfferDeclined) EventName() string { return EventOfferDeclined }

// OfferCancelled fires when staff voids an offer.
type OfferCancelled struct {
	BaseEvent
	OfferID      uuid.UUID
	OfferNumber  string
	CustomerName string
	Email        string
}

func (OfferCancelled) EventName() string { return EventOfferCancelled }

// OfferReopened fires when staff re-answers a declined offer.
type OfferReopened struct {
	BaseEvent
	OfferID     uuid.UUID
	OfferNumber string
}

func (OfferReopened) EventName() string { return EventOfferReopened }

// BookingCreated fires when an approved offer is converted to a booking.
type BookingCreated struct {
	BaseEvent
	BookingID   uuid.UUID
	OfferID     uuid.UUID
	OfferNumber string
}

func (BookingCreated) EventName() string { return EventBookingCreated }

// BookingCompleted fires when a booking is marked completed; the financial
// rollup cache is invalidated on this event.
type BookingCompleted struct {
	BaseEvent
	BookingID uuid.UUID
}

func (BookingCompleted) EventName() string { return EventBookingCompleted }
