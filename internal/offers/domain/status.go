// Package domain provides core business rules for the offers bounded context:
// the offer status state machine and its customer-facing display binding.
package domain

import (
	"fmt"
	"strings"
)

// Status is the closed set of offer lifecycle states.
type Status string

const (
	StatusReceived         Status = "received"
	StatusAnswered         Status = "answered"
	StatusApproved         Status = "approved"
	StatusDeclined         Status = "declined"
	StatusCancelled        Status = "cancelled"
	StatusBookingConfirmed Status = "booking_confirmed"
)

// Actor identifies who is allowed to drive a transition.
type Actor string

const (
	ActorStaff    Actor = "staff"
	ActorCustomer Actor = "customer"
)

// statusSynonyms is the one canonical mapping from external string variants
// (including Swedish synonyms found in legacy records) to the enum.
// Classification happens here once, at the boundary, never ad hoc downstream.
var statusSynonyms = map[string]Status{
	"received":          StatusReceived,
	"new":               StatusReceived,
	"mottagen":          StatusReceived,
	"inkommen":          StatusReceived,
	"answered":          StatusAnswered,
	"besvarad":          StatusAnswered,
	"offererad":         StatusAnswered,
	"approved":          StatusApproved,
	"accepted":          StatusApproved,
	"godkänd":           StatusApproved,
	"accepterad":        StatusApproved,
	"declined":          StatusDeclined,
	"rejected":          StatusDeclined,
	"avböjd":            StatusDeclined,
	"nekad":             StatusDeclined,
	"cancelled":         StatusCancelled,
	"canceled":          StatusCancelled,
	"annullerad":        StatusCancelled,
	"avbokad":           StatusCancelled,
	"booking_confirmed": StatusBookingConfirmed,
	"bokad":             StatusBookingConfirmed,
	"bekräftad":         StatusBookingConfirmed,
}

// ParseStatus maps an external status string to the canonical enum.
// Matching is case-insensitive and tolerant of surrounding whitespace.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// IsForecast reports whether a raw status string counts toward forecast
// revenue. Both customer approval and the subsequent booking conversion
// do; everything else does not.
func IsForecast(raw string) bool {
	s, ok := ParseStatus(raw)
	return ok && (s == StatusApproved || s == StatusBookingConfirmed)
}

// IsTerminal reports whether no further transitions exist from the status.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusBookingConfirmed
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusAnswered, StatusApproved, StatusDeclined,
		StatusCancelled, StatusBookingConfirmed:
		return true
	}
	return false
}

type transitionKey struct {
	from, to Status
}

// transitionTable lists every legal transition and the actor allowed to
// drive it. Anything absent from this table is rejected.
var transitionTable = map[transitionKey]Actor{
	{StatusReceived, StatusAnswered}:          ActorStaff,
	{StatusReceived, StatusCancelled}:         ActorStaff,
	{StatusAnswered, StatusApproved}:          ActorCustomer,
	{StatusAnswered, StatusDeclined}:          ActorCustomer,
	{StatusAnswered, StatusCancelled}:         ActorStaff,
	{StatusApproved, StatusBookingConfirmed}:  ActorStaff,
	{StatusApproved, StatusCancelled}:         ActorStaff,
	{StatusDeclined, StatusAnswered}:          ActorStaff, // explicit reopen
	{StatusDeclined, StatusCancelled}:         ActorStaff,
}

// InvalidTransitionError is returned when a requested transition does not
// appear in the transition table, or the wrong actor attempts it.
type InvalidTransitionError struct {
	From  Status
	To    Status
	Actor Actor
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q by %s", e.From, e.To, e.Actor)
}

// Transition validates a requested status change. It returns an
// *InvalidTransitionError naming the current and requested state when the
// change is not allowed; transitions are never silently ignored.
func Transition(from, to Status, actor Actor) error {
	allowed, ok := transitionTable[transitionKey{from, to}]
	if !ok || allowed != actor {
		return &InvalidTransitionError{From: from, To: to, Actor: actor}
	}
	return nil
}

// CanTransition reports whether the transition exists for the given actor.
func CanTransition(from, to Status, actor Actor) bool {
	return Transition(from, to, actor) == nil
}

// DisplayMode is the customer-facing rendering mode bound to a status.
// Each status maps to exactly one mode; this is a read-side concern only.
type DisplayMode string

const (
	DisplayRequestConfirmation  DisplayMode = "request_confirmation"
	DisplayPricedOffer          DisplayMode = "priced_offer"
	DisplayApprovalConfirmation DisplayMode = "approval_confirmation"
	DisplayDeclineConfirmation  DisplayMode = "decline_confirmation"
	DisplayCancellationNotice   DisplayMode = "cancellation_notice"
	DisplayBookingConfirmation  DisplayMode = "booking_confirmation"
)

var displayBinding = map[Status]DisplayMode{
	StatusReceived:         DisplayRequestConfirmation,
	StatusAnswered:         DisplayPricedOffer,
	StatusApproved:         DisplayApprovalConfirmation,
	StatusDeclined:         DisplayDeclineConfirmation,
	StatusCancelled:        DisplayCancellationNotice,
	StatusBookingConfirmed: DisplayBookingConfirmation,
}

// Display returns the rendering mode for the status.
func (s Status) Display() DisplayMode {
	return displayBinding[s]
}
