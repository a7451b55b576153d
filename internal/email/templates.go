package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type requestReceivedEmailData struct {
	baseEmailData
	CustomerName string
	OfferNumber  string
}

type proposalEmailData struct {
	baseEmailData
	CustomerName   string
	OfferNumber    string
	TotalFormatted string
}

type approvalEmailData struct {
	baseEmailData
	CustomerName   string
	OfferNumber    string
	TotalFormatted string
}

type cancellationEmailData struct {
	baseEmailData
	CustomerName string
	OfferNumber  string
}

type bookingEmailData struct {
	baseEmailData
	CustomerName string
	OfferNumber  string
}

type reminderEmailData struct {
	baseEmailData
	CustomerName string
	OfferNumber  string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencySEK(amount float64) string {
	return fmt.Sprintf("%.2f kr", amount)
}
