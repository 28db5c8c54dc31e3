package children

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var (
	trailingParenPattern = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)
	anyDigitPattern      = regexp.MustCompile(`\d`)
	othersPattern        = regexp.MustCompile(`(?i)\b(?:others|etc)\b`)
)

// ParseChildren expands an inline "Children:" field value into synthetic
// per-child profiles pending reconciliation. Segment order decides the
// deterministic ordinal id suffix.
func ParseChildren(parent *model.Profile, field string) []*model.Profile {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var out []*model.Profile
	ordinal := 0
	for _, segment := range strings.Split(field, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name, born := splitDateToken(segment)
		if name == "" || othersPattern.MatchString(name) {
			continue
		}

		ordinal++
		child := &model.Profile{
			Kind:              model.ProfileKindSyntheticChild,
			ID:                fmt.Sprintf("%s.c%d", parent.ID, ordinal),
			Name:              name,
			Lineage:           parent.Lineage,
			Generation:        parent.Generation,
			SyntheticParentID: parent.ID,
			BornRaw:           born,
		}
		child.Story.Notes = fmt.Sprintf("Listed as a child of %s {%s}: %q.", parent.Name, parent.ID, segment)
		child.Relations.AddParent(parent.ID)
		out = append(out, child)
	}
	return out
}

// splitDateToken strips a trailing parenthetical containing at least one
// digit off a child segment, treating it as a date token. A date range is
// split on its dash and the start kept.
func splitDateToken(segment string) (string, string) {
	m := trailingParenPattern.FindStringSubmatch(segment)
	if m == nil || !anyDigitPattern.MatchString(m[1]) {
		return strings.TrimSpace(segment), ""
	}

	name := strings.TrimSpace(trailingParenPattern.ReplaceAllString(segment, ""))
	date := strings.TrimSpace(m[1])
	if idx := strings.IndexAny(date, "-–"); idx > 0 {
		date = strings.TrimSpace(date[:idx])
	}
	return name, date
}
