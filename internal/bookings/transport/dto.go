// Package transport defines request and response DTOs for the bookings module.
package transport

import "time"

// ConvertRequest carries the operational fields staff may set when
// converting an approved offer into a booking.
type ConvertRequest struct {
	Driver        *string `json:"driver" validate:"omitempty,max=120"`
	Vehicle       *string `json:"vehicle" validate:"omitempty,max=120"`
	OnSiteTime    *string `json:"onSiteTime" validate:"omitempty,max=20"`
	InternalNotes *string `json:"internalNotes" validate:"omitempty,max=2000"`
}

// UpdateRequest patches a booking's operational fields.
type UpdateRequest struct {
	Driver        *string `json:"driver" validate:"omitempty,max=120"`
	Vehicle       *string `json:"vehicle" validate:"omitempty,max=120"`
	OnSiteTime    *string `json:"onSiteTime" validate:"omitempty,max=20"`
	InternalNotes *string `json:"internalNotes" validate:"omitempty,max=2000"`
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID            string     `json:"id"`
	OfferID       string     `json:"offerId"`
	OfferNumber   string     `json:"offerNumber"`
	Status        string     `json:"status"`
	CustomerName  string     `json:"customerName"`
	Company       *string    `json:"company,omitempty"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	TravelDate    *time.Time `json:"travelDate,omitempty"`
	TravelTime    *string    `json:"travelTime,omitempty"`
	Passengers    int        `json:"passengers"`
	Driver        *string    `json:"driver,omitempty"`
	Vehicle       *string    `json:"vehicle,omitempty"`
	OnSiteTime    *string    `json:"onSiteTime,omitempty"`
	InternalNotes *string    `json:"internalNotes,omitempty"`
	NetExVAT      *float64   `json:"netExVat,omitempty"`
	VAT           *float64   `json:"vat,omitempty"`
	GrossTotal    *float64   `json:"grossTotal,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ListResponse is a paginated list of bookings.
type ListResponse struct {
	Items      []BookingResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
