// Package nlu provides entity extraction, intent classification, and the
// clarification policy for customer utterances.
package nlu

import (
	"regexp"
	"strings"

	"github.com/wwexlabs/freightagent/internal/models"
)

// PRO number candidates: explicit "PRO 1234567" style references, bare 7-10
// digit runs, and carrier-prefixed forms like "ABCD1234567".
var (
	proExplicitRe = regexp.MustCompile(`(?i)(?:PRO|tracking|track)[\s#:]*([0-9]{7,10})`)
	proBareRe     = regexp.MustCompile(`\b[0-9]{7,10}\b`)
	proPrefixedRe = regexp.MustCompile(`\b[A-Z]{2,4}[0-9]{7,10}\b`)

	phoneRe = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)

	zipRe      = regexp.MustCompile(`\b[0-9]{5}(?:-[0-9]{4})?\b`)
	cityRe     = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*), ?([A-Z]{2})\b`)
	weightRe   = regexp.MustCompile(`(?i)\b([0-9]+(?:\.[0-9]+)?)\s*(lbs?|pounds?|kg|kilograms?|tons?)\b`)
	dateWordRe = regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`)
	dateNumRe  = regexp.MustCompile(`\b[0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4}\b`)

	nonAlnumRe = regexp.MustCompile(`[^0-9A-Za-z]`)
)

// urgencyKeywords mark an utterance as time-sensitive or distressed.
var urgencyKeywords = []string{
	"urgent", "emergency", "asap", "immediately", "critical", "rush",
	"delayed", "late", "missing", "lost", "where is", "still waiting",
}

// knownCarriers are matched case-insensitively as substrings. Short aliases
// map to the canonical freight brand.
var knownCarriers = []struct {
	match     string
	canonical string
}{
	{"fedex", "FedEx Freight"},
	{"yrc", "YRC Freight"},
	{"xpo", "XPO Logistics"},
	{"old dominion", "Old Dominion"},
	{"odfl", "Old Dominion"},
	{"ups", "UPS Freight"},
	{"estes", "Estes Express"},
	{"abf", "ABF Freight"},
	{"saia", "Saia"},
	{"r+l", "R+L Carriers"},
}

// ExtractPatterns runs the deterministic extraction pass over one utterance.
// It never fails; an utterance with nothing recognizable yields an empty set.
func ExtractPatterns(utterance string) models.EntitySet {
	var set models.EntitySet

	// Phone spans are collected first so a digit run that is itself a phone
	// number does not get promoted to a PRO candidate. Suppression is by
	// exact span: a candidate is dropped only when it matches a detected
	// phone number outright, never because its digits happen to fall
	// inside one.
	phoneDigits := make(map[string]bool)
	for _, m := range phoneRe.FindAllString(utterance, -1) {
		d := digitsOnly(m)
		phoneDigits[d] = true
		if len(d) == 11 && d[0] == '1' {
			// Also record the span without the country code.
			phoneDigits[d[1:]] = true
		}
	}

	addPro := func(candidate string, explicit bool) {
		normalized := nonAlnumRe.ReplaceAllString(candidate, "")
		if len(normalized) < 7 || len(normalized) > 12 {
			return
		}
		// "Track PRO 9876543210" is a tracking request even though ten
		// bare digits also look like a phone number.
		if !explicit && phoneDigits[normalized] {
			return
		}
		set.Merge(models.EntitySet{ProNumbers: []string{normalized}})
	}

	for _, m := range proExplicitRe.FindAllStringSubmatch(utterance, -1) {
		addPro(m[1], true)
	}
	for _, m := range proPrefixedRe.FindAllString(utterance, -1) {
		addPro(m, false)
	}
	for _, m := range proBareRe.FindAllString(utterance, -1) {
		addPro(m, false)
	}

	for _, m := range cityRe.FindAllStringSubmatch(utterance, -1) {
		set.Merge(models.EntitySet{Locations: []string{m[1] + ", " + m[2]}})
	}
	for _, m := range zipRe.FindAllString(utterance, -1) {
		// A ZIP is only a location if it didn't already qualify as a PRO
		// candidate; 5-digit runs are too short for that, so no conflict.
		set.Merge(models.EntitySet{Locations: []string{m}})
	}

	lower := strings.ToLower(utterance)
	for _, carrier := range knownCarriers {
		if strings.Contains(lower, carrier.match) {
			set.Merge(models.EntitySet{Carriers: []string{carrier.canonical}})
		}
	}

	for _, m := range weightRe.FindAllString(utterance, -1) {
		set.Merge(models.EntitySet{Weights: []string{strings.TrimSpace(m)}})
	}

	for _, m := range dateWordRe.FindAllString(utterance, -1) {
		set.Merge(models.EntitySet{Dates: []string{strings.ToLower(m)}})
	}
	for _, m := range dateNumRe.FindAllString(utterance, -1) {
		set.Merge(models.EntitySet{Dates: []string{m}})
	}

	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			set.Merge(models.EntitySet{UrgencyIndicators: []string{kw}})
		}
	}

	return set
}

// ValidatePro reports whether a candidate is a plausible PRO number:
// 7-12 alphanumeric characters after stripping separators.
func ValidatePro(candidate string) bool {
	normalized := nonAlnumRe.ReplaceAllString(candidate, "")
	return len(normalized) >= 7 && len(normalized) <= 12
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
