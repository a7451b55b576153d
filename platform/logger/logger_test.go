package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}
}

func TestOfferTransitionFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.OfferTransition("HB26-3", "received", "answered", "staff")

	out := buf.String()
	for _, want := range []string{"offer_transition", `"offer_number":"HB26-3"`, `"from":"received"`, `"to":"answered"`, `"actor":"staff"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestTokenRejectedOmitsToken(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.TokenRejected("invalid or expired", "HB26-3")

	out := buf.String()
	if !strings.Contains(out, "token_rejected") || !strings.Contains(out, `"reason":"invalid or expired"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf).WithRequestID("req-42")

	log.Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("request id missing from output: %s", buf.String())
	}
}
