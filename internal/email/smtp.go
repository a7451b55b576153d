package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP
// connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendRequestReceived(ctx context.Context, toEmail, customerName, offerNumber string) error {
	content, err := renderEmailTemplate("request_received.html", requestReceivedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Förfrågan mottagen",
			Heading: "Förfrågan mottagen",
		},
		CustomerName: customerName,
		OfferNumber:  offerNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectRequestReceivedFmt, offerNumber), content)
}

func (s *SMTPSender) SendProposal(ctx context.Context, toEmail, customerName, offerNumber, offerURL string, totalSEK float64, attachments ...Attachment) error {
	content, err := renderEmailTemplate("proposal.html", proposalEmailData{
		baseEmailData: baseEmailData{
			Title:    "Din offert är klar",
			Heading:  "Din offert är klar",
			CTALabel: "Visa offert",
			CTAURL:   offerURL,
		},
		CustomerName:   customerName,
		OfferNumber:    offerNumber,
		TotalFormatted: formatCurrencySEK(totalSEK),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectProposalFmt, offerNumber, s.fromName), content, attachments...)
}

func (s *SMTPSender) SendApprovalConfirmation(ctx context.Context, toEmail, customerName, offerNumber string, totalSEK float64) error {
	content, err := renderEmailTemplate("approval.html", approvalEmailData{
		baseEmailData: baseEmailData{
			Title:   "Tack för ditt godkännande",
			Heading: "Tack för ditt godkännande",
		},
		CustomerName:   customerName,
		OfferNumber:    offerNumber,
		TotalFormatted: formatCurrencySEK(totalSEK),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectApprovalFmt, offerNumber), content)
}

func (s *SMTPSender) SendCancellationNotice(ctx context.Context, toEmail, customerName, offerNumber string) error {
	content, err := renderEmailTemplate("cancellation.html", cancellationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Offert annullerad",
			Heading: "Offert annullerad",
		},
		CustomerName: customerName,
		OfferNumber:  offerNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectCancellationFmt, offerNumber), content)
}

func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, toEmail, customerName, offerNumber, documentURL string) error {
	base := baseEmailData{
		Title:   "Bokningsbekräftelse",
		Heading: "Bokningsbekräftelse",
	}
	if documentURL != "" {
		base.CTALabel = "Visa offertdokument"
		base.CTAURL = documentURL
	}
	content, err := renderEmailTemplate("booking.html", bookingEmailData{
		baseEmailData: base,
		CustomerName:  customerName,
		OfferNumber:   offerNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectBookingFmt, offerNumber), content)
}

func (s *SMTPSender) SendProposalReminder(ctx context.Context, toEmail, customerName, offerNumber, offerURL string) error {
	content, err := renderEmailTemplate("reminder.html", reminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "Din offert väntar",
			Heading:  "Din offert väntar",
			CTALabel: "Visa offert",
			CTAURL:   offerURL,
		},
		CustomerName: customerName,
		OfferNumber:  offerNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectProposalReminderFmt, offerNumber), content)
}

// Compile-time check that SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)
