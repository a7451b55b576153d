// Package notification turns offer lifecycle events into outbound mail.
package notification

import (
	"context"

	"charterdesk_backend/internal/documents"
	"charterdesk_backend/internal/email"
	"charterdesk_backend/internal/events"
	"charterdesk_backend/internal/offers/repository"
	offersvc "charterdesk_backend/internal/offers/service"
	"charterdesk_backend/platform/config"
	platformevents "charterdesk_backend/platform/events"
	"charterdesk_backend/platform/logger"
)

// Module subscribes to domain events and dispatches customer mail.
// Mail failures are logged, never propagated back into the transition
// that triggered them.
type Module struct {
	sender  email.Sender
	offers  *repository.Repository
	storage *documents.Storage
	cfg     config.NotificationConfig
	log     *logger.Logger
}

// NewModule creates the notification module. The sender and storage may
// be nil when SMTP or MinIO is not configured, events are then logged
// and dropped.
func NewModule(sender email.Sender, offers *repository.Repository, storage *documents.Storage, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, offers: offers, storage: storage, cfg: cfg, log: log}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the lifecycle events that produce mail.
func (m *Module) RegisterHandlers(bus *platformevents.InMemoryBus) {
	bus.Subscribe(events.OfferReceived{}.EventName(), m)
	bus.Subscribe(events.OfferAnswered{}.EventName(), m)
	bus.Subscribe(events.OfferApproved{}.EventName(), m)
	bus.Subscribe(events.OfferCancelled{}.EventName(), m)
	bus.Subscribe(events.BookingCreated{}.EventName(), m)
}

// Handle routes events to the appropriate mail.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	if m.sender == nil {
		m.log.Debug("mail sender not configured, dropping event", "event", event.EventName())
		return nil
	}

	switch e := event.(type) {
	case events.OfferReceived:
		if err := m.sender.SendRequestReceived(ctx, e.Email, e.CustomerName, e.OfferNumber); err != nil {
			m.log.Error("request received mail failed", "offer", e.OfferNumber, "error", err)
		}
	case events.OfferAnswered:
		m.sendProposal(ctx, e)
	case events.OfferApproved:
		if err := m.sender.SendApprovalConfirmation(ctx, e.Email, e.CustomerName, e.OfferNumber, e.GrandTotal); err != nil {
			m.log.Error("approval mail failed", "offer", e.OfferNumber, "error", err)
		}
	case events.OfferCancelled:
		if e.Email == "" {
			return nil
		}
		if err := m.sender.SendCancellationNotice(ctx, e.Email, e.CustomerName, e.OfferNumber); err != nil {
			m.log.Error("cancellation mail failed", "offer", e.OfferNumber, "error", err)
		}
	case events.BookingCreated:
		m.sendBookingConfirmation(ctx, e)
	}
	return nil
}

// sendProposal mails the priced offer with its deep link, a QR code for
// the link and the rendered PDF.
func (m *Module) sendProposal(ctx context.Context, e events.OfferAnswered) {
	link := offersvc.BuildOfferLink(m.cfg.GetAppBaseURL(), e.OfferNumber, e.AccessToken)

	var attachments []email.Attachment
	if png, err := documents.RenderOfferQR(link); err != nil {
		m.log.Warn("offer qr render failed", "offer", e.OfferNumber, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{FileName: "offert-qr.png", Content: png})
	}

	if offer, err := m.offers.GetByID(ctx, e.OfferID); err != nil {
		m.log.Warn("offer load for pdf failed", "offer", e.OfferNumber, "error", err)
	} else if pdf, err := documents.RenderOfferPDF(offer); err != nil {
		m.log.Warn("offer pdf render failed", "offer", e.OfferNumber, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{FileName: "offert-" + e.OfferNumber + ".pdf", Content: pdf})
		if m.storage != nil {
			if _, err := m.storage.ArchiveOfferPDF(ctx, e.OfferNumber, pdf); err != nil {
				m.log.Warn("offer pdf archive failed", "offer", e.OfferNumber, "error", err)
			}
		}
	}

	if err := m.sender.SendProposal(ctx, e.Email, e.CustomerName, e.OfferNumber, link, e.GrandTotal, attachments...); err != nil {
		m.log.Error("proposal mail failed", "offer", e.OfferNumber, "error", err)
	}
}

func (m *Module) sendBookingConfirmation(ctx context.Context, e events.BookingCreated) {
	offer, err := m.offers.GetByID(ctx, e.OfferID)
	if err != nil {
		m.log.Warn("offer load for booking mail failed", "offer", e.OfferNumber, "error", err)
		return
	}

	documentURL := ""
	if m.storage != nil {
		url, err := m.storage.DownloadURL(ctx, documents.OfferPDFKey(e.OfferNumber))
		if err != nil {
			m.log.Warn("offer document presign failed", "offer", e.OfferNumber, "error", err)
		} else {
			documentURL = url
		}
	}

	if err := m.sender.SendBookingConfirmation(ctx, offer.Email, offer.CustomerName, e.OfferNumber, documentURL); err != nil {
		m.log.Error("booking mail failed", "offer", e.OfferNumber, "error", err)
	}
}
