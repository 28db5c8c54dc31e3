package vitals

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/siherrmann/kinship/helper"
)

//go:embed gazetteer.yaml
var defaultGazetteerYAML []byte

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// Gazetteer holds the curated geographic knowledge used by the location
// hierarchy parser, the region tagger and the tiered geocoder
type Gazetteer struct {
	Countries []string `yaml:"countries"`
	// States maps US state abbreviations to full names; both forms classify
	States map[string]string `yaml:"states"`
	// Regions maps a region label (e.g. "North America") to the location
	// substrings that indicate it
	Regions map[string][]string `yaml:"regions"`
	// Historical places no modern geocoder resolves, with era coordinates
	Historical map[string]Coordinates `yaml:"historical"`
	// Centroids of large regions, used as a coarse geocoding fallback
	Centroids map[string]Coordinates `yaml:"centroids"`

	countrySet  map[string]bool
	stateSet    map[string]bool
	regionOrder []string
}

// DefaultGazetteer returns the embedded curated gazetteer
func DefaultGazetteer() *Gazetteer {
	g, err := parseGazetteer(defaultGazetteerYAML)
	if err != nil {
		// The embedded file ships with the binary; a parse failure is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return g
}

// LoadGazetteer loads a curated gazetteer from a YAML file
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read gazetteer", err)
	}
	g, err := parseGazetteer(data)
	if err != nil {
		return nil, helper.NewError("parse gazetteer", err)
	}
	return g, nil
}

func parseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, err
	}

	g.countrySet = make(map[string]bool, len(g.Countries))
	for _, c := range g.Countries {
		g.countrySet[strings.ToLower(c)] = true
	}
	g.stateSet = make(map[string]bool, len(g.States)*2)
	for abbrev, name := range g.States {
		g.stateSet[strings.ToLower(abbrev)] = true
		g.stateSet[strings.ToLower(name)] = true
	}
	g.regionOrder = make([]string, 0, len(g.Regions))
	for region := range g.Regions {
		g.regionOrder = append(g.regionOrder, region)
	}
	sort.Strings(g.regionOrder)

	return &g, nil
}

// IsCountry reports whether the token is a known bare country name
func (g *Gazetteer) IsCountry(token string) bool {
	return g.countrySet[strings.ToLower(strings.TrimSpace(token))]
}

// IsState reports whether the token is a known US state name or abbreviation
func (g *Gazetteer) IsState(token string) bool {
	return g.stateSet[strings.ToLower(strings.TrimSpace(token))]
}

// Region classifies a location string against the curated region sets,
// returning the region label or empty when nothing matches. When markers of
// several regions match, the match closest to the end of the string wins,
// since trailing tokens name the broader jurisdiction ("New London,
// Connecticut" resolves by "Connecticut", not "London"). Remaining ties go
// to the first region name in sorted order.
func (g *Gazetteer) Region(location string) string {
	lower := strings.ToLower(location)
	best := ""
	bestPos := -1
	for _, region := range g.regionOrder {
		pos := -1
		for _, marker := range g.Regions[region] {
			if p := lastTokenIndex(lower, strings.ToLower(marker)); p > pos {
				pos = p
			}
		}
		if pos > bestPos {
			best = region
			bestPos = pos
		}
	}
	return best
}

// lastTokenIndex returns the start of the rightmost word-boundary match of
// needle in haystack, or -1. Matching on word boundaries keeps short state
// abbreviations from firing inside unrelated words.
func lastTokenIndex(haystack, needle string) int {
	found := -1
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return found
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			found = start
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
