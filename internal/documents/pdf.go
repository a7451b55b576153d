// Package documents renders offer documents and archives them in object
// storage.
package documents

import (
	"bytes"
	"fmt"
	"time"

	"charterdesk_backend/internal/offers/repository"

	"github.com/phpdave11/gofpdf"
)

const dateLayout = "2006-01-02"

// RenderOfferPDF produces the printable offer document attached to the
// proposal mail. Pricing rows are only rendered when a breakdown exists.
func RenderOfferPDF(offer *repository.Offer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Offert "+offer.OfferNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "OFFERT "+offer.OfferNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	writeLine(pdf, "Kund", offer.CustomerName)
	if offer.Company != nil {
		writeLine(pdf, "Företag", *offer.Company)
	}
	writeLine(pdf, "E-post", offer.Email)
	writeLine(pdf, "Telefon", offer.Phone)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Utresa")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	writeLine(pdf, "Från", offer.OutboundOrigin)
	writeLine(pdf, "Till", offer.OutboundDestination)
	writeLine(pdf, "Datum", formatDate(offer.OutboundDate))
	writeLine(pdf, "Passagerare", fmt.Sprintf("%d", offer.OutboundPassengers))

	if offer.HasReturn() {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Återresa")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		writeLine(pdf, "Från", deref(offer.ReturnOrigin))
		writeLine(pdf, "Till", deref(offer.ReturnDestination))
		writeLine(pdf, "Datum", formatDate(offer.ReturnDate))
	}

	if offer.HasBreakdown() {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Pris")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		writeAmount(pdf, "Utresa exkl. moms", offer.OutSubtotalExVAT)
		if offer.HasReturn() {
			writeAmount(pdf, "Återresa exkl. moms", offer.RetSubtotalExVAT)
		}
		if offer.ServiceFee != nil && *offer.ServiceFee > 0 {
			writeAmount(pdf, "Serviceavgift exkl. moms", offer.ServiceFee)
		}
		writeAmount(pdf, "Summa exkl. moms", offer.GrandExVAT)
		writeAmount(pdf, "Moms", offer.GrandVAT)
		pdf.SetFont("Helvetica", "B", 11)
		writeAmount(pdf, "Totalt inkl. moms", offer.GrandTotal)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Offerten är giltig i 14 dagar från utskriftsdatum.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render offer pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func writeAmount(pdf *gofpdf.Fpdf, label string, amount *float64) {
	if amount == nil {
		return
	}
	pdf.CellFormat(70, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%.2f kr", *amount), "", 1, "R", false, 0, "")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
