package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubPublicService struct {
	created *transport.OfferResponse
	err     error
}

func (s *stubPublicService) Create(ctx context.Context, req transport.CreateOfferRequest) (*transport.OfferResponse, error) {
	return s.created, s.err
}

func (s *stubPublicService) GetPublic(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error) {
	return nil, s.err
}

func (s *stubPublicService) Approve(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error) {
	return nil, s.err
}

func (s *stubPublicService) Decline(ctx context.Context, idOrNumber, rawToken string, req transport.DeclineRequest) (*transport.PublicOfferResponse, error) {
	return nil, s.err
}

func (s *stubPublicService) RequestChange(ctx context.Context, idOrNumber, rawToken string, req transport.ChangeRequestNote) error {
	return s.err
}

func newPublicRouter(svc PublicService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewPublicHandler(svc, validator.New())
	h.RegisterRoutes(engine.Group("/public/offers"))
	return engine
}

func TestIntakeReturnsOfferNumber(t *testing.T) {
	svc := &stubPublicService{created: &transport.OfferResponse{
		ID:          uuid.New(),
		OfferNumber: "HB26-14",
		Status:      "received",
	}}
	router := newPublicRouter(svc)

	body := `{
		"customerName": "Anna Svensson",
		"email": "anna@example.com",
		"phone": "+46701234567",
		"outbound": {
			"origin": "Helsingborg",
			"destination": "Malmö",
			"date": "2026-10-01",
			"passengers": 30
		}
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/offers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["number"] != "HB26-14" {
		t.Errorf("number = %q, want %q", resp["number"], "HB26-14")
	}
}

func TestIntakeRejectsInvalidPayload(t *testing.T) {
	router := newPublicRouter(&stubPublicService{})

	// Missing outbound leg and email.
	body := `{"customerName": "Anna Svensson", "phone": "+46701234567"}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/public/offers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
