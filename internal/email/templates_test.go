package email

import (
	"strings"
	"testing"
)

func TestRenderProposalTemplate(t *testing.T) {
	content, err := renderEmailTemplate("proposal.html", proposalEmailData{
		baseEmailData: baseEmailData{
			Title:    "Din offert är klar",
			Heading:  "Din offert är klar",
			CTALabel: "Visa offert",
			CTAURL:   "https://example.com/offer/HB25-0001?t=abc",
		},
		CustomerName:   "Anna Svensson",
		OfferNumber:    "HB25-0001",
		TotalFormatted: "12500.00 kr",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Anna Svensson", "HB25-0001", "12500.00 kr", "https://example.com/offer/HB25-0001?t=abc"} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered mail missing %q", want)
		}
	}
}

func TestRenderAllTemplates(t *testing.T) {
	base := baseEmailData{Title: "t", Heading: "h"}
	cases := []struct {
		name string
		data any
	}{
		{"request_received.html", requestReceivedEmailData{baseEmailData: base, CustomerName: "A", OfferNumber: "HB25-0002"}},
		{"approval.html", approvalEmailData{baseEmailData: base, CustomerName: "A", OfferNumber: "HB25-0002", TotalFormatted: "1 kr"}},
		{"cancellation.html", cancellationEmailData{baseEmailData: base, CustomerName: "A", OfferNumber: "HB25-0002"}},
		{"booking.html", bookingEmailData{baseEmailData: base, CustomerName: "A", OfferNumber: "HB25-0002"}},
		{"reminder.html", reminderEmailData{baseEmailData: base, CustomerName: "A", OfferNumber: "HB25-0002"}},
	}
	for _, tc := range cases {
		content, err := renderEmailTemplate(tc.name, tc.data)
		if err != nil {
			t.Fatalf("render %s: %v", tc.name, err)
		}
		if !strings.Contains(content, "HB25-0002") {
			t.Fatalf("%s: offer number missing from rendered mail", tc.name)
		}
	}
}
