package model

// AuditIssue is a single data-quality finding on one profile
type AuditIssue struct {
	ProfileID string   `json:"profile_id"`
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	Issues    []string `json:"issues"`
}

// ParseResult is the output of a full pipeline run over one document
type ParseResult struct {
	Document *Document  `json:"document,omitempty"`
	Profiles []*Profile `json:"profiles"`
	// Registry indexes Profiles by id; the two views share the same
	// underlying profile values.
	Registry *Registry `json:"-"`
	// Diagnostics collected during the run: duplicate ids, unresolved
	// mentions. Informational only, never fatal.
	DuplicateIDs       []string     `json:"duplicate_ids,omitempty"`
	UnresolvedMentions []string     `json:"unresolved_mentions,omitempty"`
	Audit              []AuditIssue `json:"audit,omitempty"`
}
