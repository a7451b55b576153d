package domain

import "testing"

func TestParseStatusSynonyms(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"planned", StatusPlanned},
		{"Planerad", StatusPlanned},
		{"bokad", StatusPlanned},
		{"completed", StatusCompleted},
		{"DONE", StatusCompleted},
		{"finished", StatusCompleted},
		{"Genomförd", StatusCompleted},
		{"klar", StatusCompleted},
		{"  utförd ", StatusCompleted},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"Inställd", StatusCancelled},
		{"avbokad", StatusCancelled},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.raw)
		if !ok {
			t.Fatalf("ParseStatus(%q): unexpected miss", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseStatusUnknown(t *testing.T) {
	for _, raw := range []string{"", "unknown", "pending", "approved"} {
		if _, ok := ParseStatus(raw); ok {
			t.Fatalf("ParseStatus(%q): expected miss", raw)
		}
	}
}

func TestIsDone(t *testing.T) {
	if !IsDone("genomförd") {
		t.Fatal("genomförd should count as done")
	}
	if IsDone("planerad") {
		t.Fatal("planerad should not count as done")
	}
	if IsDone("garbage") {
		t.Fatal("unknown status should not count as done")
	}
}
