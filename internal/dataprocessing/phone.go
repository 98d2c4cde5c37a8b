package dataprocessing

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone canonicalizes a raw phone value into the XXX-XXX-XXXX form
// the registry form accepts. It strips formatting, drops a leading country
// code 1, and rejects anything that is not a 10-digit national number.
// Returns "" for values that cannot be normalized.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(raw, "")

	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}

	if len(digits) != 10 {
		return ""
	}

	return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
}

// ValidateCanadianPhone reports whether a normalized number is a plausible
// Canadian number. NANP area codes and exchange codes start with 2-9; numbers
// that pass that check are cross-checked against the CA numbering plan.
func ValidateCanadianPhone(phone string) bool {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return false
	}

	if digits[0] == '0' || digits[0] == '1' {
		return false
	}

	parsed, err := phonenumbers.Parse(digits, "CA")
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(parsed)
}
