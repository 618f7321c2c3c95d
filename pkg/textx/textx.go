// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
)

// SanitizeText removes control characters except tab/newline/CR and
// trims surrounding space. Candidate answers arrive pasted from
// anywhere; scoring and transcripts should never see control bytes.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// WordCount reports the number of whitespace-separated words, the unit
// the depth and clarity scores are computed over.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
