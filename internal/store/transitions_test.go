package store

import "testing"

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"call", "waiting", true},
		{"call", "serving", false},
		{"call", "done", false},
		{"complete", "serving", true},
		{"complete", "waiting", true},
		{"complete", "done", false},
		{"complete", "skipped", false},
		{"skip", "waiting", true},
		{"skip", "serving", true},
		{"skip", "done", false},
		{"skip", "skipped", false},
		{"unknown", "waiting", false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}
