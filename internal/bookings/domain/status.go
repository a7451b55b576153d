// Package domain holds the booking status model.
package domain

import "strings"

// Status is the canonical booking status.
type Status string

const (
	// StatusPlanned is a confirmed booking that has not been driven yet.
	StatusPlanned Status = "planned"
	// StatusCompleted is a booking whose trip has been carried out.
	StatusCompleted Status = "completed"
	// StatusCancelled is a voided booking.
	StatusCancelled Status = "cancelled"
)

// statusSynonyms maps external status spellings, including the Swedish
// variants older exports used, onto the canonical enum. Matching happens
// once at the boundary; everything downstream works on Status values.
var statusSynonyms = map[string]Status{
	"planned":   StatusPlanned,
	"planerad":  StatusPlanned,
	"bokad":     StatusPlanned,
	"confirmed": StatusPlanned,

	"completed": StatusCompleted,
	"done":      StatusCompleted,
	"finished":  StatusCompleted,
	"genomförd": StatusCompleted,
	"utförd":    StatusCompleted,
	"klar":      StatusCompleted,
	"färdig":    StatusCompleted,

	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
	"inställd":  StatusCancelled,
	"avbokad":   StatusCancelled,
	"annullerad": StatusCancelled,
}

// ParseStatus resolves an external status string to the canonical enum.
// The second return is false for unknown spellings.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// IsDone reports whether a raw status string counts as realized revenue.
func IsDone(raw string) bool {
	s, ok := ParseStatus(raw)
	return ok && s == StatusCompleted
}

// Valid reports whether s is one of the canonical values.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
