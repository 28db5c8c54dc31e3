package vitals

import (
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var trailingParenPattern = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)

// ExtractLocationNote peels a trailing parenthetical off a location value
// into a separate note. When stripping would leave an empty location the
// original text is preserved unsplit.
func ExtractLocationNote(location string) (string, string) {
	m := trailingParenPattern.FindStringSubmatchIndex(location)
	if m == nil {
		return location, ""
	}

	clean := strings.TrimSpace(location[:m[0]])
	if clean == "" {
		return location, ""
	}
	note := location[m[2]:m[3]]
	return clean, note
}

// ParseHierarchy decomposes a cleaned location string into its geographic
// hierarchy using the curated gazetteer sets
func (g *Gazetteer) ParseHierarchy(location string) model.Hierarchy {
	location = strings.TrimSpace(location)
	if location == "" {
		return model.Hierarchy{}
	}

	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 1 {
		token := parts[0]
		switch {
		case g.IsCountry(token):
			return model.Hierarchy{Country: token}
		case g.IsState(token):
			return model.Hierarchy{State: token}
		default:
			return model.Hierarchy{City: token}
		}
	}

	h := model.Hierarchy{City: parts[0]}

	last := parts[len(parts)-1]
	switch {
	case g.IsState(last):
		h.State = last
	case g.IsCountry(last):
		h.Country = last
	default:
		// Unrecognized trailing token still closes the hierarchy
		h.Country = last
	}

	// Any middle token is treated as a county equivalent
	if len(parts) > 2 {
		h.County = parts[1]
	}

	return h
}
