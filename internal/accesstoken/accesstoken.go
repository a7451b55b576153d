// Package accesstoken issues and verifies the signed, expiring tokens that
// gate customer-facing views of an offer. Tokens are stateless capabilities:
// they bind an offer identity to a viewer role with a bounded lifetime and
// require no login session or server-side storage.
package accesstoken

import (
	"fmt"
	"strings"
	"time"

	"charterdesk_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the viewer role a token grants.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

const tokenType = "offer"

// debugToken is the fixed token accepted when debug mode is explicitly
// enabled in non-production configuration. It is never valid in production;
// config.Load rejects that combination at startup.
const debugToken = "debug-offer-token"

// Claims are the verified contents of an access token.
type Claims struct {
	OfferID     uuid.UUID
	OfferNumber string
	Role        Role
	ExpiresAt   time.Time
	Debug       bool
}

// MatchesOffer reports whether the token is bound to the given offer.
// Either the offer id or the offer number claim may match. Debug claims
// match any offer.
func (c *Claims) MatchesOffer(offerID uuid.UUID, offerNumber string) bool {
	if c == nil {
		return false
	}
	if c.Debug {
		return true
	}
	return c.OfferID == offerID || strings.EqualFold(c.OfferNumber, offerNumber)
}

// Service signs and verifies offer access tokens.
type Service struct {
	cfg config.OfferTokenConfig
}

// New creates the access token service.
func New(cfg config.OfferTokenConfig) *Service {
	return &Service{cfg: cfg}
}

// Issue produces a signed token binding the offer identity to a viewer role,
// valid for the configured default lifetime.
func (s *Service) Issue(offerID uuid.UUID, offerNumber string, role Role) (string, error) {
	return s.IssueWithTTL(offerID, offerNumber, role, s.cfg.GetOfferTokenTTL())
}

// IssueWithTTL produces a signed token with an explicit lifetime.
func (s *Service) IssueWithTTL(offerID uuid.UUID, offerNumber string, role Role, ttl time.Duration) (string, error) {
	if s.debugMode() {
		return debugToken, nil
	}

	secret := s.cfg.GetOfferTokenSecret()
	if secret == "" {
		// Fail closed: without a signing key no customer link can be minted.
		return "", fmt.Errorf("offer token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  offerID.String(),
		"num":  offerNumber,
		"role": string(role),
		"type": tokenType,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify checks the token's signature, type and expiry. It returns nil on
// expiry, signature mismatch or malformed input; callers treat nil as
// "unauthenticated", not as an error to propagate.
func (s *Service) Verify(raw string) *Claims {
	if raw == "" {
		return nil
	}

	if s.debugMode() {
		if raw == debugToken {
			return &Claims{Role: RoleAdmin, Debug: true, ExpiresAt: time.Now().Add(time.Hour)}
		}
		return nil
	}

	secret := s.cfg.GetOfferTokenSecret()
	if secret == "" {
		return nil
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	if typ, _ := mapClaims["type"].(string); typ != tokenType {
		return nil
	}

	sub, _ := mapClaims["sub"].(string)
	offerID, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}

	role, _ := mapClaims["role"].(string)
	if role != string(RoleCustomer) && role != string(RoleAdmin) {
		return nil
	}

	number, _ := mapClaims["num"].(string)

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	return &Claims{
		OfferID:     offerID,
		OfferNumber: number,
		Role:        Role(role),
		ExpiresAt:   exp.Time,
	}
}

func (s *Service) debugMode() bool {
	return s.cfg.IsOfferTokenDebugEnabled() &&
		!strings.EqualFold(s.cfg.GetEnv(), "production") &&
		s.cfg.GetOfferTokenSecret() == ""
}
