package tags

import (
	"fmt"

	"github.com/siherrmann/kinship/model"
)

// maxPlausibleLifespan flags lifespans beyond documented human longevity
const maxPlausibleLifespan = 110

// Audit scores every profile for missing or contradictory vital data,
// producing a review list ordered like the registry. A zero score means the
// profile raised no findings and is omitted.
func Audit(reg *model.Registry) []model.AuditIssue {
	var report []model.AuditIssue
	for _, p := range reg.All() {
		score, issues := auditProfile(p)
		if score == 0 {
			continue
		}
		report = append(report, model.AuditIssue{
			ProfileID: p.ID,
			Name:      p.Name,
			Score:     score,
			Issues:    issues,
		})
	}
	return report
}

func auditProfile(p *model.Profile) (int, []string) {
	score := 0
	var issues []string

	v := p.VitalStats
	if v.BornDate == "" {
		score += 2
		issues = append(issues, "Missing birth date")
	}
	if v.BornLocation == "" {
		score++
		issues = append(issues, "Missing birth location")
	}
	if v.DiedDate == "" {
		score += 2
		issues = append(issues, "Missing death date")
	}
	if v.DiedLocation == "" {
		score++
		issues = append(issues, "Missing death location")
	}

	if v.BornYear != nil && v.DiedYear != nil {
		lifespan := *v.DiedYear - *v.BornYear
		switch {
		case lifespan < 0:
			score += 10
			issues = append(issues, fmt.Sprintf("Died before born (%d - %d)", *v.BornYear, *v.DiedYear))
		case lifespan > maxPlausibleLifespan:
			score += 5
			issues = append(issues, fmt.Sprintf("Implausible lifespan (%d years)", lifespan))
		}
	}

	return score, issues
}
