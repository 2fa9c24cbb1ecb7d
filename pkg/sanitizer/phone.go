package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
var DefaultRegion = "US"

// NormalizePhone formats phone as E.164, or returns "" when it cannot be
// parsed as a phone number.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// ValidPhone reports whether phone parses to a number that is valid for its region.
func ValidPhone(phone string) bool {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(phone), DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
