package mention

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

// Capitalized multi-word spans are the only mention candidates considered;
// full-text scanning against every known name is deliberately avoided.
var capitalizedSpanPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+(?:[A-Z]\.|[A-Z][a-z]+))+`)

var clauseSeparatorPattern = regexp.MustCompile(`[.;!?]`)

// relationKeyword pairs a clause keyword with the relation type it implies.
// The table is ordered: the first matching keyword wins.
type relationKeyword struct {
	keyword string
	relType model.RelationType
}

var relationKeywords = []relationKeyword{
	{"step-father", model.RelationStepParent},
	{"step-mother", model.RelationStepParent},
	{"stepfather", model.RelationStepParent},
	{"stepmother", model.RelationStepParent},
	{"step-son", model.RelationStepChild},
	{"step-daughter", model.RelationStepChild},
	{"godparent", model.RelationGodparent},
	{"godfather", model.RelationGodparent},
	{"godmother", model.RelationGodparent},
	{"godson", model.RelationGodchild},
	{"goddaughter", model.RelationGodchild},
	{"wife of", model.RelationSpouse},
	{"husband of", model.RelationSpouse},
	{"married", model.RelationSpouse},
	{"widow of", model.RelationSpouse},
	{"son of", model.RelationParent},
	{"daughter of", model.RelationParent},
	{"father of", model.RelationChild},
	{"mother of", model.RelationChild},
	{"brother", model.RelationSibling},
	{"sister", model.RelationSibling},
	{"cousin", model.RelationCousin},
	{"business partner", model.RelationBusinessPartner},
	{"partner", model.RelationBusinessPartner},
	{"in-law", model.RelationInLaw},
	{"classmate", model.RelationClassmate},
	{"neighbor", model.RelationNeighbor},
	{"friend", model.RelationFriend},
}

// Resolver scans profile notes for name mentions, disambiguates them against
// the name index and records typed, symmetric links
type Resolver struct {
	cfg model.ParseConfig
	log *slog.Logger
}

// NewResolver creates a mention resolver
func NewResolver(cfg model.ParseConfig, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, log: logger}
}

// Resolve runs the per-profile mention scan over the whole registry and then
// the reciprocal second pass. It returns the mention texts that stayed
// ambiguous; no link is ever created for those.
func (r *Resolver) Resolve(reg *model.Registry, idx *Index) []string {
	var unresolved []string
	for _, p := range reg.All() {
		unresolved = append(unresolved, r.resolveProfile(reg, idx, p)...)
	}
	r.addReciprocalLinks(reg)
	return unresolved
}

func (r *Resolver) resolveProfile(reg *model.Registry, idx *Index, p *model.Profile) []string {
	notes := p.Story.Notes
	if strings.TrimSpace(notes) == "" {
		return nil
	}

	var unresolved []string
	for _, clause := range clauseSeparatorPattern.Split(notes, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		for _, span := range capitalizedSpanPattern.FindAllString(clause, -1) {
			if !idx.Has(span) {
				continue
			}

			target, ok := r.disambiguate(reg, idx, p, span)
			if !ok {
				r.log.Warn("Ambiguous mention, skipping",
					slog.String("profile_id", p.ID),
					slog.String("mention", span))
				unresolved = append(unresolved, p.ID+": "+span)
				continue
			}
			if target == nil || p.HasLinkTo(target.ID) {
				continue
			}

			relType := r.classifyRelation(clause, p, target)
			p.RelatedLinks = append(p.RelatedLinks, model.RelatedLink{
				ID:         model.LinkID(p.ID, target.ID, relType),
				TargetID:   target.ID,
				Type:       relType,
				SourceText: clause,
			})
			p.Story.Associates = appendUnique(p.Story.Associates, target.Name)
		}
	}
	return unresolved
}

// disambiguate picks the link target for a mention span. A single candidate
// is accepted unconditionally, even across large birth-year gaps, since it
// may legitimately refer to a distant ancestor. With several candidates the
// stricter proximity filter applies, then canonical profiles win ties; if
// ambiguity remains the mention is reported, never guessed.
// The bool result is false only for unresolved ambiguity.
func (r *Resolver) disambiguate(reg *model.Registry, idx *Index, p *model.Profile, span string) (*model.Profile, bool) {
	var candidates []*model.Profile
	for _, id := range idx.Lookup(span) {
		if id == p.ID {
			continue
		}
		if candidate, ok := reg.Get(id); ok {
			candidates = append(candidates, candidate)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, true
	case 1:
		return candidates[0], true
	}

	if p.VitalStats.BornYear != nil {
		var near []*model.Profile
		for _, c := range candidates {
			if c.VitalStats.BornYear == nil {
				continue
			}
			if yearGap(*p.VitalStats.BornYear, *c.VitalStats.BornYear) <= r.cfg.DisambiguationProximity {
				near = append(near, c)
			}
		}
		if len(near) > 0 {
			candidates = near
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	var canonical []*model.Profile
	for _, c := range candidates {
		if !c.Synthetic() {
			canonical = append(canonical, c)
		}
	}
	if len(canonical) == 1 {
		return canonical[0], true
	}

	return nil, false
}

// classifyRelation scans the clause for the ordered keyword table. Types
// implying contemporaneity are downgraded to Mentioned when the birth-year
// gap exceeds the loose proximity threshold.
func (r *Resolver) classifyRelation(clause string, p, target *model.Profile) model.RelationType {
	lower := strings.ToLower(clause)

	relType := model.RelationMentioned
	for _, entry := range relationKeywords {
		if strings.Contains(lower, entry.keyword) {
			relType = entry.relType
			break
		}
	}

	if relType.Contemporary() &&
		p.VitalStats.BornYear != nil && target.VitalStats.BornYear != nil &&
		yearGap(*p.VitalStats.BornYear, *target.VitalStats.BornYear) > r.cfg.TypingProximity {
		return model.RelationMentioned
	}

	return relType
}

// addReciprocalLinks is the second pass: every discovered link whose target
// has no link back to the source gets a synthesized reciprocal entry with
// the inverted relation type
func (r *Resolver) addReciprocalLinks(reg *model.Registry) {
	for _, p := range reg.All() {
		for _, link := range p.RelatedLinks {
			target, ok := reg.Get(link.TargetID)
			if !ok || target.HasLinkTo(p.ID) {
				continue
			}
			target.RelatedLinks = append(target.RelatedLinks, model.RelatedLink{
				ID:         model.LinkID(target.ID, p.ID, link.Type.Invert()),
				TargetID:   p.ID,
				Type:       link.Type.Invert(),
				SourceText: link.SourceText,
			})
		}
	}
}

func yearGap(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
