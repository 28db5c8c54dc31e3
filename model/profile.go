package model

import (
	"time"
)

// ProfileKind distinguishes how a profile entered the dataset
type ProfileKind string

const (
	// ProfileKindCanonical marks a profile created from an explicit
	// identifier token in the source text
	ProfileKindCanonical ProfileKind = "canonical"
	// ProfileKindSyntheticChild marks a profile manufactured from a parsed
	// "Children:" field entry, pending reconciliation
	ProfileKindSyntheticChild ProfileKind = "synthetic_child"
)

// GenerationUncategorized is the generation label used for profiles that
// appear before the first section header
const GenerationUncategorized = "Uncategorized"

// Hierarchy is the geographic decomposition of a location string
type Hierarchy struct {
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	County  string `json:"county,omitempty" yaml:"county,omitempty"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
}

// VitalStats holds the parsed birth and death record of a profile.
// The raw date text is always preserved; the integer year is nil when every
// normalization strategy failed, which downstream consumers must treat as
// "chronologically unordered" rather than as an error.
type VitalStats struct {
	BornDate         string    `json:"born_date"`
	BornLocation     string    `json:"born_location"`
	BornYear         *int      `json:"born_year_int,omitempty"`
	BornLocationNote string    `json:"born_location_note,omitempty"`
	BornHierarchy    Hierarchy `json:"born_hierarchy,omitempty"`
	DiedDate         string    `json:"died_date"`
	DiedLocation     string    `json:"died_location"`
	DiedYear         *int      `json:"died_year_int,omitempty"`
	DiedLocationNote string    `json:"died_location_note,omitempty"`
	DiedHierarchy    Hierarchy `json:"died_hierarchy,omitempty"`
}

// LifeEvent is a dated event attached to a profile's story
type LifeEvent struct {
	Year     int    `json:"year"`
	Label    string `json:"label"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Voyage is a sea crossing extracted from a profile's notes
type Voyage struct {
	ShipName  string `json:"ship_name"`
	Type      string `json:"type,omitempty"`
	Year      string `json:"year,omitempty"`
	Departure string `json:"departure,omitempty"`
	Arrival   string `json:"arrival,omitempty"`
	Class     string `json:"class,omitempty"`
}

// NamingEcho records an inferred name correlation with a structural ancestor
type NamingEcho struct {
	AncestorID string `json:"ancestor_id"`
	SharedName string `json:"shared_name"`
}

// Story holds the free-text notes and everything derived from them
type Story struct {
	Notes      string      `json:"notes"`
	LifeEvents []LifeEvent `json:"life_events,omitempty"`
	Voyages    []Voyage    `json:"voyages,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Associates []string    `json:"associates,omitempty"`
	NamingEcho *NamingEcho `json:"naming_echo,omitempty"`
}

// Relations holds the structural family edges of a profile.
// Each slice has set semantics: deduplicated, order-irrelevant.
type Relations struct {
	Parents  []string `json:"parents,omitempty"`
	Children []string `json:"children,omitempty"`
	Spouses  []string `json:"spouses,omitempty"`
}

// ProfileMetadata is provenance only and is never read by downstream stages
type ProfileMetadata struct {
	SourceID       string `json:"source_id,omitempty"`
	ParagraphIndex int    `json:"doc_paragraph_index,omitempty"`
}

// Profile is the central entity of the dataset. The ID is the hierarchical,
// dot-segmented identifier string from the source document and is globally
// unique within a dataset.
type Profile struct {
	Kind       ProfileKind     `json:"kind"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Lineage    string          `json:"lineage,omitempty"`
	Generation string          `json:"generation"`
	VitalStats VitalStats      `json:"vital_stats"`
	Story      Story           `json:"story"`
	Relations  Relations       `json:"relations"`
	// RelatedLinks holds the mention links discovered in notes text.
	// Symmetric by construction: the reciprocal pass guarantees every link
	// has a reverse entry on the target profile.
	RelatedLinks []RelatedLink   `json:"related_links,omitempty"`
	Metadata     ProfileMetadata `json:"metadata"`
	// SyntheticParentID back-references the parent a synthetic child profile
	// was expanded from. Empty for canonical profiles.
	SyntheticParentID string    `json:"synthetic_parent_id,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`

	// Database row identifiers, only set on persisted profiles
	RowID      int64 `json:"-"`
	DocumentID int64 `json:"-"`

	// Raw field text captured by the scanner, consumed by the vital field
	// parser and the child list parser. Not part of the serialized shape.
	BornRaw     string `json:"-"`
	DiedRaw     string `json:"-"`
	ChildrenRaw string `json:"-"`
}

// NewProfile creates a canonical profile with the uncategorized generation
func NewProfile(id, name string) *Profile {
	return &Profile{
		Kind:       ProfileKindCanonical,
		ID:         id,
		Name:       name,
		Generation: GenerationUncategorized,
	}
}

// Synthetic reports whether the profile was manufactured from a children field
func (p *Profile) Synthetic() bool {
	return p.Kind == ProfileKindSyntheticChild
}

// AddParent adds a parent id, keeping set semantics
func (r *Relations) AddParent(id string) {
	r.Parents = appendUnique(r.Parents, id)
}

// AddChild adds a child id, keeping set semantics
func (r *Relations) AddChild(id string) {
	r.Children = appendUnique(r.Children, id)
}

// AddSpouse adds a spouse id, keeping set semantics
func (r *Relations) AddSpouse(id string) {
	r.Spouses = appendUnique(r.Spouses, id)
}

// AddTag adds a tag to the story, keeping set semantics
func (s *Story) AddTag(tag string) {
	s.Tags = appendUnique(s.Tags, tag)
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// HasLinkTo reports whether the profile already holds a related link to targetID
func (p *Profile) HasLinkTo(targetID string) bool {
	for _, link := range p.RelatedLinks {
		if link.TargetID == targetID {
			return true
		}
	}
	return false
}
