package service

import (
	"charterdesk_backend/internal/offers/domain"
	"charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/internal/offers/transport"
)

func pricingFromBreakdown(b *transport.QuoteBreakdown, commission *float64) repository.Pricing {
	p := repository.Pricing{
		OutSubtotalExVAT:  b.Legs[0].SubtotalExVAT,
		OutVAT:            b.Legs[0].VAT,
		OutTotal:          b.Legs[0].Total,
		OutVATRate:        b.Legs[0].VATRate,
		ServiceFee:        b.ServiceFee.SubtotalExVAT,
		ServiceFeeVAT:     b.ServiceFee.VAT,
		ServiceFeeTotal:   b.ServiceFee.Total,
		ServiceFeeVATRate: b.ServiceFee.VATRate,
		GrandExVAT:        b.GrandExVAT,
		GrandVAT:          b.GrandVAT,
		GrandTotal:        b.GrandTotal,
		CommissionPercent: commission,
	}
	if len(b.Legs) > 1 {
		p.RetSubtotalExVAT = &b.Legs[1].SubtotalExVAT
		p.RetVAT = &b.Legs[1].VAT
		p.RetTotal = &b.Legs[1].Total
		p.RetVATRate = &b.Legs[1].VATRate
	}
	return p
}

// breakdownFromOffer rebuilds the stored breakdown, or nil when the offer
// has not been priced yet.
func breakdownFromOffer(o *repository.Offer) *transport.QuoteBreakdown {
	if !o.HasBreakdown() {
		return nil
	}

	legs := []transport.LegBreakdown{{
		SubtotalExVAT: deref(o.OutSubtotalExVAT),
		VAT:           deref(o.OutVAT),
		Total:         deref(o.OutTotal),
		VATRate:       deref(o.OutVATRate),
	}}
	if o.RetSubtotalExVAT != nil {
		legs = append(legs, transport.LegBreakdown{
			SubtotalExVAT: deref(o.RetSubtotalExVAT),
			VAT:           deref(o.RetVAT),
			Total:         deref(o.RetTotal),
			VATRate:       deref(o.RetVATRate),
		})
	}

	return &transport.QuoteBreakdown{
		Legs: legs,
		ServiceFee: transport.LegBreakdown{
			SubtotalExVAT: deref(o.ServiceFee),
			VAT:           deref(o.ServiceFeeVAT),
			Total:         deref(o.ServiceFeeTotal),
			VATRate:       deref(o.ServiceFeeVATRate),
		},
		GrandExVAT: deref(o.GrandExVAT),
		GrandVAT:   deref(o.GrandVAT),
		GrandTotal: deref(o.GrandTotal),
	}
}

func legResponses(o *repository.Offer) (transport.LegResponse, *transport.LegResponse) {
	outbound := transport.LegResponse{
		Origin:      o.OutboundOrigin,
		Destination: o.OutboundDestination,
		Date:        o.OutboundDate,
		Time:        o.OutboundTime,
		Passengers:  o.OutboundPassengers,
		Notes:       o.OutboundNotes,
	}

	if !o.HasReturn() {
		return outbound, nil
	}

	ret := &transport.LegResponse{
		Origin:      deref(o.ReturnOrigin),
		Destination: deref(o.ReturnDestination),
		Date:        o.ReturnDate,
		Time:        o.ReturnTime,
		Notes:       o.ReturnNotes,
	}
	if o.ReturnPassengers != nil {
		ret.Passengers = *o.ReturnPassengers
	}
	return outbound, ret
}

func offerToResponse(o *repository.Offer) *transport.OfferResponse {
	outbound, ret := legResponses(o)
	return &transport.OfferResponse{
		ID:                o.ID,
		OfferNumber:       o.OfferNumber,
		Status:            o.Status,
		CustomerName:      o.CustomerName,
		Company:           o.Company,
		Email:             o.Email,
		Phone:             o.Phone,
		Address:           o.Address,
		ExternalRef:       o.ExternalRef,
		InternalRef:       o.InternalRef,
		IsDomestic:        o.OutboundDomestic,
		Outbound:          outbound,
		Return:            ret,
		Breakdown:         breakdownFromOffer(o),
		CommissionPercent: o.CommissionPercent,
		Approved:          o.Approved,
		ApprovedAt:        o.ApprovedAt,
		ChangeRequestNote: o.ChangeRequestNote,
		ChangeRequestAt:   o.ChangeRequestAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// pricedStates are the statuses whose customer-facing view includes the
// breakdown. Denial states never leak priced information.
var pricedStates = map[domain.Status]bool{
	domain.StatusAnswered:         true,
	domain.StatusApproved:         true,
	domain.StatusBookingConfirmed: true,
}

func offerToPublic(o *repository.Offer, status domain.Status) *transport.PublicOfferResponse {
	outbound, ret := legResponses(o)
	resp := &transport.PublicOfferResponse{
		OfferNumber:  o.OfferNumber,
		DisplayMode:  string(status.Display()),
		Status:       string(status),
		CustomerName: o.CustomerName,
		Outbound:     outbound,
		Return:       ret,
		Approved:     o.Approved,
		ApprovedAt:   o.ApprovedAt,
	}
	if pricedStates[status] {
		resp.Breakdown = breakdownFromOffer(o)
	}
	return resp
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
