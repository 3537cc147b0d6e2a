package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HashContact returns a short SHA-256 fingerprint of a phone number so log
// lines can be correlated without recording the number itself. Formatting
// characters are ignored, so "0300-123 4567" and "03001234567" match.
func HashContact(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(digits))
	return hex.EncodeToString(sum[:])[:12]
}
