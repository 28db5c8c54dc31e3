package children

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	bracketedPattern     = regexp.MustCompile(`\[[^\]]*\]`)
	ordinalSuffixPattern = regexp.MustCompile(`(?i),\s*\d+(?:st|nd|rd|th)\s+(?:son|daughter|child)\s*$`)
	spaceRunPattern      = regexp.MustCompile(`\s{2,}`)
)

// Reconciler merges synthetic child profiles into pre-existing canonical
// profiles when their names match, discarding the redundant synthetic entry
type Reconciler struct {
	cfg model.ParseConfig
	log *slog.Logger
}

// NewReconciler creates a child entry reconciler
func NewReconciler(cfg model.ParseConfig, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{cfg: cfg, log: logger}
}

// Reconcile walks every synthetic child profile in the registry. A name
// match discards the synthetic profile and wires the parent/child edge onto
// the matched canonical profile instead; profiles with no match stay
// first-class with their parent link preserved.
func (r *Reconciler) Reconcile(reg *model.Registry) {
	var synthetic []*model.Profile
	var canonical []*model.Profile
	for _, p := range reg.All() {
		if p.Synthetic() {
			synthetic = append(synthetic, p)
		} else {
			canonical = append(canonical, p)
		}
	}

	for _, child := range synthetic {
		parent, hasParent := reg.Get(child.SyntheticParentID)

		match := r.findMatch(child, canonical)
		if match == nil {
			if hasParent {
				parent.Relations.AddChild(child.ID)
			}
			continue
		}

		r.log.Debug("Reconciled synthetic child into canonical profile",
			slog.String("synthetic_id", child.ID),
			slog.String("canonical_id", match.ID))

		if hasParent {
			parent.Relations.AddChild(match.ID)
			match.Relations.AddParent(parent.ID)
		}
		reg.Remove(child.ID)
	}
}

func (r *Reconciler) findMatch(child *model.Profile, canonical []*model.Profile) *model.Profile {
	childName := NormalizeName(child.Name)
	if childName == "" {
		return nil
	}

	for _, candidate := range canonical {
		candidateName := NormalizeName(candidate.Name)
		if candidateName == "" {
			continue
		}
		if candidateName == childName {
			return candidate
		}
		if len(childName) > r.cfg.MinContainmentLength &&
			(strings.Contains(candidateName, childName) || strings.Contains(childName, candidateName)) {
			return candidate
		}
	}
	return nil
}

// NormalizeName strips parenthetical and bracketed content and ordinal
// suffix phrases (", 2nd daughter") and lowercases for comparison
func NormalizeName(name string) string {
	name = parentheticalPattern.ReplaceAllString(name, "")
	name = bracketedPattern.ReplaceAllString(name, "")
	name = ordinalSuffixPattern.ReplaceAllString(name, "")
	name = spaceRunPattern.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}
