package service

import (
	"testing"
	"time"

	"charterdesk_backend/internal/bookings/repository"

	"github.com/google/uuid"
)

func TestToResponseSnapshotsBooking(t *testing.T) {
	driver := "Lars"
	gross := 12500.0
	travel := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	b := &repository.Booking{
		ID:           uuid.New(),
		OfferID:      uuid.New(),
		OfferNumber:  "HB26-7",
		Status:       "planned",
		CustomerName: "Anna Svensson",
		Email:        "anna@example.com",
		Phone:        "+46701234567",
		Origin:       "Helsingborg",
		Destination:  "Stockholm",
		TravelDate:   &travel,
		Passengers:   42,
		Driver:       &driver,
		GrossTotal:   &gross,
	}

	resp := toResponse(b)

	if resp.ID != b.ID.String() || resp.OfferID != b.OfferID.String() {
		t.Error("identifiers should round-trip as strings")
	}
	if resp.OfferNumber != "HB26-7" || resp.Status != "planned" {
		t.Errorf("got %s/%s, want HB26-7/planned", resp.OfferNumber, resp.Status)
	}
	if resp.Passengers != 42 {
		t.Errorf("passengers = %d, want 42", resp.Passengers)
	}
	if resp.Driver == nil || *resp.Driver != driver {
		t.Error("driver should carry over")
	}
	if resp.GrossTotal == nil || *resp.GrossTotal != gross {
		t.Error("gross total should carry over")
	}
	if resp.TravelDate == nil || !resp.TravelDate.Equal(travel) {
		t.Error("travel date should carry over")
	}
	if resp.CompletedAt != nil {
		t.Error("planned booking should have no completion time")
	}
}
