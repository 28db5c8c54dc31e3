package vitals

import (
	"github.com/siherrmann/kinship/model"
)

// Parser turns the raw born/died field text captured by the scanner into the
// normalized vital stats of a profile
type Parser struct {
	gazetteer *Gazetteer
}

// NewParser creates a vital field parser. A nil gazetteer falls back to the
// embedded curated one.
func NewParser(gazetteer *Gazetteer) *Parser {
	if gazetteer == nil {
		gazetteer = DefaultGazetteer()
	}
	return &Parser{gazetteer: gazetteer}
}

// Gazetteer exposes the curated sets the parser classifies against
func (p *Parser) Gazetteer() *Gazetteer {
	return p.gazetteer
}

// Apply parses the profile's raw born/died text in place and records the
// resulting life events on the story timeline
func (p *Parser) Apply(profile *model.Profile) {
	v := &profile.VitalStats

	v.BornDate, v.BornLocation, v.BornYear, v.BornLocationNote, v.BornHierarchy = p.parseField(profile.BornRaw)
	v.DiedDate, v.DiedLocation, v.DiedYear, v.DiedLocationNote, v.DiedHierarchy = p.parseField(profile.DiedRaw)

	if v.BornYear != nil {
		profile.Story.LifeEvents = append(profile.Story.LifeEvents, model.LifeEvent{
			Year:     *v.BornYear,
			Label:    "Born",
			Location: v.BornLocation,
			Type:     "vital",
		})
	}
	if v.DiedYear != nil {
		profile.Story.LifeEvents = append(profile.Story.LifeEvents, model.LifeEvent{
			Year:     *v.DiedYear,
			Label:    "Died",
			Location: v.DiedLocation,
			Type:     "vital",
		})
	}
}

func (p *Parser) parseField(raw string) (string, string, *int, string, model.Hierarchy) {
	date, location := SplitDateLocation(raw)
	year := NormalizeYear(date)
	location, note := ExtractLocationNote(location)
	hierarchy := p.gazetteer.ParseHierarchy(location)
	return date, location, year, note, hierarchy
}
