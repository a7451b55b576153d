package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapKeepsKindAndCause(t *testing.T) {
	cases := []struct {
		name       string
		kind       Kind
		wantStatus int
	}{
		{"unavailable", KindUnavailable, http.StatusServiceUnavailable},
		{"internal", KindInternal, http.StatusInternalServerError},
		{"conflict", KindConflict, http.StatusConflict},
	}

	cause := errors.New("connection refused")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Wrap(tc.kind, "store failed", cause)
			if err.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", err.Kind, tc.kind)
			}
			if !errors.Is(err, cause) {
				t.Error("wrapped error should match the cause with errors.Is")
			}
			if got := err.HTTPStatus(); got != tc.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tc.wantStatus)
			}
			if err.Error() != "store failed" {
				t.Errorf("Error() = %q, want %q", err.Error(), "store failed")
			}
		})
	}
}

func TestGetKindOnPlainError(t *testing.T) {
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind = %v, want KindUnknown", got)
	}
}
