package dncl

import "strings"

// Status is the outcome of checking one number against the registry.
type Status string

const (
	StatusOnList    Status = "On list"
	StatusNotOnList Status = "Not on list"
	StatusUnknown   Status = "Unknown"
)

// Result is the outcome of a single phone verification.
type Result struct {
	Phone      string
	Status     Status
	RawMessage string
	Err        string
}

// notRegisteredPatterns match the registry's "not registered" wording in
// English and French. Checked before registeredPatterns since the negative
// phrasing contains the positive one.
var notRegisteredPatterns = []string{
	"is not registered on the national dncl",
	"is not registered on the national do not call list",
	"n'est pas inscrit sur la lnnte",
	"n'est pas inscrite sur la liste nationale",
	"your number is not registered",
	"not currently registered",
}

var registeredPatterns = []string{
	"is registered on the national dncl",
	"is registered on the national do not call list",
	"est inscrit sur la lnnte",
	"est inscrite sur la liste nationale",
	"your number is registered",
	"currently registered",
}

// resultIndicators signal that the page has moved past the CAPTCHA step and
// is showing a verdict of some kind.
var resultIndicators = []string{
	"is registered",
	"is not registered",
	"n'est pas inscrit",
	"est inscrit",
	"registration status",
	"your phone number",
}

// ClassifyBody maps the text of the result page to a registration status.
// Unmatched pages come back Unknown so the caller can record the raw text.
func ClassifyBody(body string) Status {
	lower := strings.ToLower(body)

	for _, p := range notRegisteredPatterns {
		if strings.Contains(lower, p) {
			return StatusNotOnList
		}
	}

	for _, p := range registeredPatterns {
		if strings.Contains(lower, p) {
			return StatusOnList
		}
	}

	return StatusUnknown
}

// HasResultIndicator reports whether the page text looks like a result page
// rather than the form or CAPTCHA step.
func HasResultIndicator(body string) bool {
	lower := strings.ToLower(body)
	for _, indicator := range resultIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
