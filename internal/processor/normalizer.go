// normalizer.go - Canonical post-processing for recognized captcha text

package processor

import "strings"

// Normalize converts a raw model guess into canonical captcha form:
// uppercase, restricted to A-Z and 0-9. Everything else (spaces, punctuation,
// markdown leftovers, unicode decoration) is stripped. Empty input stays empty.
func Normalize(raw string) string {
	upper := strings.ToUpper(raw)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, upper)
}
