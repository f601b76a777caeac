package utils

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	// IsraelCountryCode replaces the national trunk prefix during normalization.
	IsraelCountryCode = "972"
	defaultRegion     = "IL"
	whatsAppPrefix    = "whatsapp:"
)

// IsraeliPhonePattern is the accepted shape of a submitted phone number.
var IsraeliPhonePattern = regexp.MustCompile(`^(\+972|0)[0-9]{8,9}$`)

// Normalize converts a user-entered phone number into international form.
// Non-digits are stripped, a leading trunk 0 becomes the 972 country code and
// the result always carries exactly one leading +.
func Normalize(phone string) string {
	var b strings.Builder
	b.Grow(len(phone) + 3)
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "0") {
		digits = IsraelCountryCode + digits[1:]
	}
	return "+" + digits
}

// IsValidInternational reports whether an address (optionally carrying the
// whatsapp: channel prefix) is a dialable number according to libphonenumber.
func IsValidInternational(address string) bool {
	number := strings.TrimPrefix(strings.TrimSpace(address), whatsAppPrefix)
	if number == "" {
		return false
	}

	parsed, err := phonenumbers.Parse(Normalize(number), defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
