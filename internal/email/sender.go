// Package email renders and delivers customer-facing mail.
package email

import "context"

// Attachment is a file attached to an outgoing mail.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers the mails the offer lifecycle produces.
type Sender interface {
	// SendRequestReceived confirms a new charter request to the customer.
	SendRequestReceived(ctx context.Context, toEmail, customerName, offerNumber string) error
	// SendProposal delivers the priced offer with its deep link. The QR
	// code and PDF attachments may be nil when rendering failed upstream.
	SendProposal(ctx context.Context, toEmail, customerName, offerNumber, offerURL string, totalSEK float64, attachments ...Attachment) error
	// SendApprovalConfirmation thanks the customer after approval.
	SendApprovalConfirmation(ctx context.Context, toEmail, customerName, offerNumber string, totalSEK float64) error
	// SendCancellationNotice informs the customer the offer was voided.
	SendCancellationNotice(ctx context.Context, toEmail, customerName, offerNumber string) error
	// SendBookingConfirmation confirms the trip is booked. documentURL
	// links the archived offer document; empty when no archive exists.
	SendBookingConfirmation(ctx context.Context, toEmail, customerName, offerNumber, documentURL string) error
	// SendProposalReminder nudges the customer before the link expires.
	SendProposalReminder(ctx context.Context, toEmail, customerName, offerNumber, offerURL string) error
}
