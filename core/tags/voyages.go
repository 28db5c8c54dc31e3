package tags

import (
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var (
	shipTagPattern = regexp.MustCompile(`(?i)\[Ship:\s*([^\]]+)\]`)
	naturalVoyagePattern = regexp.MustCompile(`(?:arrived|sailed|came) on the ([A-Z][a-z]+(?: [A-Z][a-z]+)*)`)
	spaceRunPattern      = regexp.MustCompile(`\s{2,}`)
)

// ExtractVoyages pulls sea crossings out of the profile's notes, stripping
// explicit ship tags from the text. Two forms are recognized: the explicit
// "[Ship: Name | Type: .. | Year: .. | Departure: .. | Arrival: ..]" tag and
// the natural-language "arrived/sailed/came on the <Name>" phrase. Voyages
// are deduplicated by ship name.
func ExtractVoyages(p *model.Profile) {
	notes := p.Story.Notes
	if notes == "" {
		return
	}

	var voyages []model.Voyage

	cleaned := shipTagPattern.ReplaceAllStringFunc(notes, func(tag string) string {
		content := shipTagPattern.FindStringSubmatch(tag)[1]
		voyages = append(voyages, parseShipTag(content))
		return ""
	})

	for _, m := range naturalVoyagePattern.FindAllStringSubmatch(cleaned, -1) {
		name := m[1]
		if hasVoyage(voyages, name) {
			continue
		}
		voyages = append(voyages, model.Voyage{ShipName: name, Class: "Passenger"})
	}

	if len(voyages) == 0 {
		return
	}

	p.Story.Voyages = voyages
	p.Story.Notes = strings.TrimSpace(spaceRunPattern.ReplaceAllString(cleaned, " "))
}

func parseShipTag(content string) model.Voyage {
	parts := strings.Split(content, "|")
	voyage := model.Voyage{
		ShipName: strings.TrimSpace(parts[0]),
		Class:    "Passenger",
	}

	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "type":
			voyage.Type = value
		case "year":
			voyage.Year = value
		case "departure":
			voyage.Departure = value
		case "arrival":
			voyage.Arrival = value
		case "class":
			voyage.Class = value
		}
	}
	return voyage
}

func hasVoyage(voyages []model.Voyage, shipName string) bool {
	for _, v := range voyages {
		if v.ShipName == shipName {
			return true
		}
	}
	return false
}
