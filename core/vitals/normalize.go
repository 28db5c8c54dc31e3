package vitals

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	digitRunPattern = regexp.MustCompile(`\d+`)
	centuryPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\s+century\b`)

	beforeModifierPattern = regexp.MustCompile(`(?i)\b(?:before|bef\.?|by)\s*$`)
	afterModifierPattern  = regexp.MustCompile(`(?i)\b(?:after|aft\.?)\s*$`)
)

// yearBounds restrict plausible 4-digit years; values outside are treated as
// identifiers or typos, not dates
const (
	minPlausibleYear = 1000
	maxPlausibleYear = 2100
)

// generalDateLayouts is the last-resort parse attempted when no 4-digit year,
// century or decade pattern matched
var generalDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
}

// NormalizeYear reduces loosely formatted date text to an approximate integer
// year. It returns nil when every strategy fails; the raw text stays the
// source of truth and an absent year means "chronologically unordered".
func NormalizeYear(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" || text == "?" || strings.EqualFold(text, "unknown") {
		return nil
	}

	// First plausible 4-digit year, with modifier rules applied from the
	// text immediately preceding it. Runs of 5+ digits are identifiers,
	// not years.
	for _, loc := range digitRunPattern.FindAllStringIndex(text, -1) {
		run := text[loc[0]:loc[1]]
		if len(run) != 4 {
			continue
		}
		year, err := strconv.Atoi(run)
		if err != nil || year < minPlausibleYear || year >= maxPlausibleYear {
			continue
		}

		preceding := text[:loc[0]]
		switch {
		case beforeModifierPattern.MatchString(preceding):
			year--
		case afterModifierPattern.MatchString(preceding):
			year++
		}
		// "circa", "about", "living in" and "between" leave the first
		// year unchanged
		return &year
	}

	if m := centuryPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			year := (n - 1) * 100
			return &year
		}
	}

	for _, layout := range generalDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			year := t.Year()
			if year >= minPlausibleYear && year < maxPlausibleYear {
				return &year
			}
		}
	}

	return nil
}
