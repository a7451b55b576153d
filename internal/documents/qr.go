package documents

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// RenderOfferQR encodes the customer's offer link as a PNG, attached to
// the proposal mail so the link also works from a printed offer.
func RenderOfferQR(offerURL string) ([]byte, error) {
	png, err := qrcode.Encode(offerURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render offer qr: %w", err)
	}
	return png, nil
}
