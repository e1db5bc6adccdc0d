package store

import (
	"fmt"
	"strings"
)

const queueNumberPad = 3

// FormatQueueNumber derives the human-readable ticket number from the
// service name and the day-scoped sequence: the first three characters of
// the name upper-cased, then the sequence zero-padded to three digits
// ("Passport", 5 -> "PAS005"). Names shorter than three characters keep
// their short prefix unpadded.
func FormatQueueNumber(serviceName string, seq int) string {
	prefix := []rune(serviceName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s%0*d", strings.ToUpper(string(prefix)), queueNumberPad, seq)
}
