package tags

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/siherrmann/kinship/core/vitals"
	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// TransatlanticTag is inferred purely from birth/death regions, never from
// notes text
const TransatlanticTag = "Transatlantic"

// TagRule is one thematic tag with the keyword patterns that indicate it
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet holds the ordered tag rules, the exclusion phrases and the
// name-title ranks
type RuleSet struct {
	Tags       []TagRule         `yaml:"tags"`
	Exclusions []string          `yaml:"exclusions"`
	Ranks      map[string]string `yaml:"ranks"`
}

// DefaultRuleSet returns the embedded curated rule set
func DefaultRuleSet() *RuleSet {
	var rs RuleSet
	if err := yaml.Unmarshal(defaultRulesYAML, &rs); err != nil {
		panic(err)
	}
	return &rs
}

// LoadRuleSet loads tag rules from a YAML file
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read tag rules", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, helper.NewError("parse tag rules", err)
	}
	return &rs, nil
}

// Classifier scans profile notes and names for thematic tags
type Classifier struct {
	rules     *RuleSet
	gazetteer *vitals.Gazetteer
	cfg       model.ParseConfig
	// rank titles in sorted order, so tag order is stable across runs
	rankTitles []string
}

// NewClassifier creates a tag classifier. Nil rules or gazetteer fall back
// to the embedded curated defaults.
func NewClassifier(rules *RuleSet, gazetteer *vitals.Gazetteer, cfg model.ParseConfig) *Classifier {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if gazetteer == nil {
		gazetteer = vitals.DefaultGazetteer()
	}
	rankTitles := make([]string, 0, len(rules.Ranks))
	for title := range rules.Ranks {
		rankTitles = append(rankTitles, title)
	}
	sort.Strings(rankTitles)
	return &Classifier{rules: rules, gazetteer: gazetteer, cfg: cfg, rankTitles: rankTitles}
}

// Classify applies every tag rule to the profile in place
func (c *Classifier) Classify(p *model.Profile) {
	notes := strings.ToLower(p.Story.Notes)

	for _, rule := range c.rules.Tags {
		for _, keyword := range rule.Keywords {
			if c.matchesWithoutExclusion(notes, strings.ToLower(keyword)) {
				p.Story.AddTag(rule.Tag)
				break
			}
		}
	}

	for _, title := range c.rankTitles {
		if hasTitleWord(p.Name, title) {
			p.Story.AddTag(c.rules.Ranks[title])
		}
	}

	c.classifyGeography(p)
}

// matchesWithoutExclusion accepts a keyword match only when the bounded
// window of preceding text carries no possessive/relational phrase; such
// phrases indicate the keyword describes a different person mentioned
// nearby, not the profile owner.
func (c *Classifier) matchesWithoutExclusion(notes, keyword string) bool {
	idx := 0
	for {
		i := strings.Index(notes[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i

		windowStart := start - c.cfg.ExclusionWindow
		if windowStart < 0 {
			windowStart = 0
		}
		window := notes[windowStart:start]

		excluded := false
		for _, phrase := range c.rules.Exclusions {
			if strings.Contains(window, phrase) {
				excluded = true
				break
			}
		}
		if !excluded {
			return true
		}
		idx = start + len(keyword)
	}
}

// classifyGeography adds the transatlantic tag when birth and death fall in
// different curated regions across the ocean
func (c *Classifier) classifyGeography(p *model.Profile) {
	bornRegion := c.gazetteer.Region(p.VitalStats.BornLocation)
	diedRegion := c.gazetteer.Region(p.VitalStats.DiedLocation)

	if bornRegion == "" || diedRegion == "" || bornRegion == diedRegion {
		return
	}
	p.Story.AddTag(TransatlanticTag)
}

func hasTitleWord(name, title string) bool {
	for _, word := range strings.Fields(name) {
		if strings.EqualFold(word, title) {
			return true
		}
	}
	return false
}
