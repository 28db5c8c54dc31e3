package vitals

import (
	"regexp"
	"strings"
)

var (
	inSeparatorPattern = regexp.MustCompile(`(?i)\s+in\s+`)
	bareYearPattern    = regexp.MustCompile(`^\d{4}$`)
	fieldPrefixPattern = regexp.MustCompile(`(?i)^(Born|Died|Buried|Baptized|Married):?\s*`)

	// Date-like spans: "May 1, 1774", "1/16/1737", "1774", "1774-1780", "1774/5"
	dateSpanPattern = regexp.MustCompile(`(?i)\b(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{3,4}|\d{1,2}/\d{1,2}/\d{3,4}(?:/\d{1,2})?|\d{3,4}(?:\s*[-/]\s*\d{1,4})?)\b`)

	// Qualifier words absorbed into the date span when they immediately
	// precede it
	modifierPattern = regexp.MustCompile(`(?i)\b(?:c\.?|ca\.?|circa|about|abt\.?|before|bef\.?|by|after|aft\.?|bet\.?|between|living\s+in|fl\.?)\s*$`)

	trailingPrepPattern = regexp.MustCompile(`(?i)\s+(in|at|on)$`)
	leadingPrepPattern  = regexp.MustCompile(`(?i)^(in|at|on)\b\s*`)

	anyDigitPattern = regexp.MustCompile(`\d`)
)

// sentinelKeywords mark field text that carries no location information
var sentinelKeywords = []string{"unknown", "?", "disappeared", "uncertain", "infant"}

// splitRule is one heuristic in the date/location splitting chain. It either
// claims the text (ok true) or passes to the next rule.
type splitRule func(text string) (date string, location string, ok bool)

// splitChain evaluates the rules in priority order
var splitChain = []splitRule{
	splitOnInSeparator,
	splitOnDateSpan,
	splitSentinel,
	splitAssumeDate,
}

// SplitDateLocation splits a "born"/"died" field value into its date and
// location components. Either component may come back empty when the text
// carries no signal for it.
func SplitDateLocation(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "unknown") {
		return "", ""
	}

	for _, rule := range splitChain {
		if date, location, ok := rule(text); ok {
			return date, location
		}
	}

	// No date signal at all: the whole text is a bare location
	return "", text
}

// splitOnInSeparator handles the strongest signal: "<date> in <place>".
// A trailing segment that is itself a bare year indicates the whole phrase is
// a date, not a place.
func splitOnInSeparator(text string) (string, string, bool) {
	loc := inSeparatorPattern.FindStringIndex(text)
	if loc == nil {
		return "", "", false
	}

	dateCandidate := strings.TrimSpace(text[:loc[0]])
	locCandidate := strings.TrimSpace(text[loc[1]:])

	if bareYearPattern.MatchString(locCandidate) {
		return text, "", true
	}

	dateCandidate = fieldPrefixPattern.ReplaceAllString(dateCandidate, "")
	return dateCandidate, locCandidate, true
}

// splitOnDateSpan isolates date-like spans, expands the first span left over
// adjacent qualifier words, and treats everything around the spans as the
// location
func splitOnDateSpan(text string) (string, string, bool) {
	spans := dateSpanPattern.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return "", "", false
	}

	start := spans[0][0]
	end := spans[len(spans)-1][1]

	if m := modifierPattern.FindStringIndex(text[:start]); m != nil {
		start = m[0]
	}

	datePart := strings.TrimSpace(text[start:end])
	datePart = trailingPrepPattern.ReplaceAllString(datePart, "")

	prefix := strings.TrimSpace(text[:start])
	suffix := strings.TrimSpace(text[end:])
	suffix = leadingPrepPattern.ReplaceAllString(suffix, "")
	prefix = fieldPrefixPattern.ReplaceAllString(prefix, "")

	var locParts []string
	if p := strings.Trim(prefix, ",; "); p != "" {
		locParts = append(locParts, p)
	}
	if s := strings.Trim(suffix, ",; "); s != "" {
		locParts = append(locParts, s)
	}

	return datePart, strings.Join(locParts, ", "), true
}

// splitSentinel claims text containing only uncertainty markers
func splitSentinel(text string) (string, string, bool) {
	lower := strings.ToLower(text)
	for _, k := range sentinelKeywords {
		if strings.Contains(lower, k) {
			return text, "", true
		}
	}
	return "", "", false
}

// splitAssumeDate claims any remaining text with digits as a date with
// unknown location
func splitAssumeDate(text string) (string, string, bool) {
	if anyDigitPattern.MatchString(text) {
		return text, "", true
	}
	return "", "", false
}
