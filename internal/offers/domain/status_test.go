package domain

import (
	"errors"
	"testing"
)

func TestTransition_LegalPaths(t *testing.T) {
	cases := []struct {
		from, to Status
		actor    Actor
	}{
		{StatusReceived, StatusAnswered, ActorStaff},
		{StatusReceived, StatusCancelled, ActorStaff},
		{StatusAnswered, StatusApproved, ActorCustomer},
		{StatusAnswered, StatusDeclined, ActorCustomer},
		{StatusAnswered, StatusCancelled, ActorStaff},
		{StatusApproved, StatusBookingConfirmed, ActorStaff},
		{StatusApproved, StatusCancelled, ActorStaff},
		{StatusDeclined, StatusAnswered, ActorStaff},
		{StatusDeclined, StatusCancelled, ActorStaff},
	}

	for _, tc := range cases {
		if err := Transition(tc.from, tc.to, tc.actor); err != nil {
			t.Fatalf("expected %s -> %s by %s to be legal, got %v", tc.from, tc.to, tc.actor, err)
		}
	}
}

func TestTransition_EverythingElseRejected(t *testing.T) {
	all := []Status{StatusReceived, StatusAnswered, StatusApproved, StatusDeclined, StatusCancelled, StatusBookingConfirmed}

	legal := map[string]bool{}
	for k := range transitionTable {
		legal[string(k.from)+">"+string(k.to)] = true
	}

	for _, from := range all {
		for _, to := range all {
			if legal[string(from)+">"+string(to)] {
				continue
			}
			for _, actor := range []Actor{ActorStaff, ActorCustomer} {
				err := Transition(from, to, actor)
				if err == nil {
					t.Fatalf("expected %s -> %s by %s to be rejected", from, to, actor)
				}
				var invalid *InvalidTransitionError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected InvalidTransitionError, got %T", err)
				}
				if invalid.From != from || invalid.To != to {
					t.Fatalf("error should name current and requested state, got %v", invalid)
				}
			}
		}
	}
}

func TestTransition_WrongActorRejected(t *testing.T) {
	if err := Transition(StatusAnswered, StatusApproved, ActorStaff); err == nil {
		t.Fatal("approval is customer-only, staff attempt must be rejected")
	}
	if err := Transition(StatusApproved, StatusBookingConfirmed, ActorCustomer); err == nil {
		t.Fatal("booking conversion is staff-only, customer attempt must be rejected")
	}
}

func TestTransition_BookingConfirmedIsOneWay(t *testing.T) {
	for _, to := range []Status{StatusReceived, StatusAnswered, StatusApproved, StatusDeclined, StatusCancelled} {
		for _, actor := range []Actor{ActorStaff, ActorCustomer} {
			if err := Transition(StatusBookingConfirmed, to, actor); err == nil {
				t.Fatalf("no transition out of booking_confirmed may exist, %s allowed", to)
			}
		}
	}
}

func TestParseStatus_SynonymsAndCase(t *testing.T) {
	cases := map[string]Status{
		"received":   StatusReceived,
		"Mottagen":   StatusReceived,
		"  ANSWERED ": StatusAnswered,
		"Godkänd":    StatusApproved,
		"accepted":   StatusApproved,
		"avböjd":     StatusDeclined,
		"Annullerad": StatusCancelled,
		"bokad":      StatusBookingConfirmed,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		if !ok || got != want {
			t.Fatalf("ParseStatus(%q) = %q/%v, want %q", raw, got, ok, want)
		}
	}

	if _, ok := ParseStatus("garbage"); ok {
		t.Fatal("unknown status string must not parse")
	}
}

func TestDisplayBinding_CoversEveryStatus(t *testing.T) {
	for _, s := range []Status{StatusReceived, StatusAnswered, StatusApproved, StatusDeclined, StatusCancelled, StatusBookingConfirmed} {
		if s.Display() == "" {
			t.Fatalf("status %s has no display mode", s)
		}
	}
	if StatusAnswered.Display() != DisplayPricedOffer {
		t.Fatalf("answered must render the priced offer, got %s", StatusAnswered.Display())
	}
	if StatusCancelled.Display() != DisplayCancellationNotice {
		t.Fatalf("cancelled must render the cancellation notice, got %s", StatusCancelled.Display())
	}
}
