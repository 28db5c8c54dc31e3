package model

// ParseConfig represents configuration for a parsing run
type ParseConfig struct {
	// Mention resolution thresholds (birth-year distance in years)
	// TypingProximity is the loose bar used when classifying a relation type;
	// DisambiguationProximity is the stricter bar applied when several
	// candidates share a name.
	TypingProximity         int `json:"typing_proximity"`
	DisambiguationProximity int `json:"disambiguation_proximity"`

	// Reconciliation parameters
	// MinContainmentLength is the minimum normalized-name length before
	// substring containment counts as a match.
	MinContainmentLength int `json:"min_containment_length"`

	// Bounded window of preceding text inspected for exclusion phrases
	// before a tag keyword match is accepted.
	ExclusionWindow int `json:"exclusion_window"`
}

// DefaultParseConfig returns a sensible default configuration
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		TypingProximity:         80,
		DisambiguationProximity: 60,
		MinContainmentLength:    6,
		ExclusionWindow:         40,
	}
}
