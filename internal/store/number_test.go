package store

import "testing"

func TestFormatQueueNumber(t *testing.T) {
	cases := []struct {
		name string
		seq  int
		want string
	}{
		{"Passport", 1, "PAS001"},
		{"Passport", 4, "PAS004"},
		{"passport", 12, "PAS012"},
		{"Visa Renewal", 7, "VIS007"},
		{"ID", 3, "ID003"},
		{"x", 1, "X001"},
		{"Passport", 1000, "PAS1000"},
	}

	for _, tt := range cases {
		if got := FormatQueueNumber(tt.name, tt.seq); got != tt.want {
			t.Fatalf("FormatQueueNumber(%q, %d)=%q, want %q", tt.name, tt.seq, got, tt.want)
		}
	}
}
