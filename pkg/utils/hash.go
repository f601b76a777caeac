package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// PhoneFingerprint returns a short, stable identifier for a phone number so
// logs can correlate submissions without carrying the number itself.
func PhoneFingerprint(phone string) string {
	if phone == "" {
		return ""
	}
	return HashString(Normalize(phone))[:12]
}
