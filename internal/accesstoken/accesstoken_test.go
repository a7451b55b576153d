package accesstoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubConfig struct {
	secret string
	ttl    time.Duration
	debug  bool
	env    string
}

func (s stubConfig) GetOfferTokenSecret() string     { return s.secret }
func (s stubConfig) GetOfferTokenTTL() time.Duration { return s.ttl }
func (s stubConfig) IsOfferTokenDebugEnabled() bool  { return s.debug }
func (s stubConfig) IsPublicFallbackEnabled() bool   { return false }
func (s stubConfig) GetEnv() string                  { return s.env }

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := New(stubConfig{secret: "test-secret", ttl: 14 * 24 * time.Hour, env: "development"})
	offerID := uuid.New()

	raw, err := svc.Issue(offerID, "HB25-0042", RoleCustomer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims := svc.Verify(raw)
	if claims == nil {
		t.Fatal("expected claims before expiry, got nil")
	}
	if claims.OfferID != offerID {
		t.Fatalf("expected offer id %s, got %s", offerID, claims.OfferID)
	}
	if claims.OfferNumber != "HB25-0042" {
		t.Fatalf("expected offer number HB25-0042, got %s", claims.OfferNumber)
	}
	if claims.Role != RoleCustomer {
		t.Fatalf("expected role customer, got %s", claims.Role)
	}
	if !claims.MatchesOffer(offerID, "HB25-0042") {
		t.Fatal("claims must match their own offer")
	}
	if !claims.MatchesOffer(uuid.New(), "hb25-0042") {
		t.Fatal("offer number match is case-insensitive")
	}
	if claims.MatchesOffer(uuid.New(), "HB25-9999") {
		t.Fatal("claims must not match an unrelated offer")
	}
}

func TestVerify_ExpiredReturnsNil(t *testing.T) {
	svc := New(stubConfig{secret: "test-secret", env: "development"})
	raw, err := svc.IssueWithTTL(uuid.New(), "HB25-0001", RoleCustomer, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if claims := svc.Verify(raw); claims != nil {
		t.Fatal("expected nil for expired token")
	}
}

func TestVerify_WrongKeyReturnsNil(t *testing.T) {
	issuer := New(stubConfig{secret: "key-a", ttl: time.Hour, env: "development"})
	verifier := New(stubConfig{secret: "key-b", ttl: time.Hour, env: "development"})

	raw, err := issuer.Issue(uuid.New(), "HB25-0002", RoleCustomer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if claims := verifier.Verify(raw); claims != nil {
		t.Fatal("expected nil for token signed with a different key")
	}
}

func TestVerify_MalformedReturnsNil(t *testing.T) {
	svc := New(stubConfig{secret: "test-secret", ttl: time.Hour, env: "development"})
	for _, raw := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..x"} {
		if claims := svc.Verify(raw); claims != nil {
			t.Fatalf("expected nil for malformed token %q", raw)
		}
	}
}

func TestIssue_FailsClosedWithoutSecret(t *testing.T) {
	svc := New(stubConfig{secret: "", env: "production"})
	if _, err := svc.Issue(uuid.New(), "HB25-0003", RoleCustomer); err == nil {
		t.Fatal("expected issue to fail without a signing secret")
	}
}

func TestDebugToken_OnlyWhenExplicitlyEnabled(t *testing.T) {
	enabled := New(stubConfig{debug: true, env: "development"})
	raw, err := enabled.Issue(uuid.New(), "HB25-0004", RoleCustomer)
	if err != nil {
		t.Fatalf("debug issue failed: %v", err)
	}
	claims := enabled.Verify(raw)
	if claims == nil || !claims.Debug {
		t.Fatal("debug token must verify with debug claims")
	}
	if !claims.MatchesOffer(uuid.New(), "anything") {
		t.Fatal("debug claims match any offer")
	}

	disabled := New(stubConfig{debug: false, env: "development"})
	if claims := disabled.Verify(raw); claims != nil {
		t.Fatal("debug token must not verify when debug mode is off")
	}
}
