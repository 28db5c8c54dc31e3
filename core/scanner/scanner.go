package scanner

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
)

var (
	idTokenPattern = regexp.MustCompile(`\{(\d+(?:\.\d+)*)\}`)
	sectionPattern = regexp.MustCompile(`(?i)^GENERATION\s+(?:[IVXLCDM]+|\d+)\b.*`)

	bornPattern     = regexp.MustCompile(`(?i)Born:\s*(.*)`)
	diedPattern     = regexp.MustCompile(`(?i)Died:\s*(.*)`)
	notesPattern    = regexp.MustCompile(`(?i)NOTES:\s*(.*)`)
	childrenPattern = regexp.MustCompile(`(?i)Children:\s*(.*)`)

	sourceTagPattern = regexp.MustCompile(`(?i)\[source:\s*(.*?)\]`)

	// Lines that mention identifier tokens without starting a new profile
	crossRefPattern = regexp.MustCompile(`(?i)\bsee\s*(?:also\s*)?\{`)
	relPointerPattern = regexp.MustCompile(`(?i)^(?:son|daughter|child|wife|husband|widow|father|mother|brother|sister)\s+of\b`)

	// Separators that continue an alias chain between identifier tokens
	aliasSeparatorPattern = regexp.MustCompile(`(?i)^(?:&|/|and)$`)
)

// lineKind classifies a non-blank content paragraph
type lineKind int

const (
	lineFreeText lineKind = iota
	lineSectionHeader
	lineProfileStart
	lineBornField
	lineDiedField
	lineNotesField
	lineChildrenField
)

// Scanner iterates paragraphs in document order and drives the profile
// builder state machine. The pass is strictly linear: paragraph order decides
// which profile a field line belongs to.
type Scanner struct {
	log *slog.Logger
}

// NewScanner creates a document scanner logging through the given logger
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{log: logger}
}

// Output holds the closed profile set of one scan together with the
// diagnostics collected along the way
type Output struct {
	Profiles     []*model.Profile
	DuplicateIDs []string
}

// Scan consumes the document's paragraphs front to back and returns the
// closed profile set in document order
func (s *Scanner) Scan(doc *model.Document) (*Output, error) {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil, helper.NewError("scan document", fmt.Errorf("document is empty"))
	}

	builder := newBuilder(s.log, doc)

	for index, text := range doc.Paragraphs() {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		switch classify(text) {
		case lineSectionHeader:
			builder.startSection(text)
		case lineProfileStart:
			builder.startProfiles(text, index+1)
		case lineBornField:
			builder.applyField(text, func(p *model.Profile, value string) { p.BornRaw = value }, bornPattern)
		case lineDiedField:
			builder.applyField(text, func(p *model.Profile, value string) { p.DiedRaw = value }, diedPattern)
		case lineChildrenField:
			builder.applyField(text, func(p *model.Profile, value string) { p.ChildrenRaw = value }, childrenPattern)
		case lineNotesField:
			builder.startNotes(text)
		default:
			builder.appendFreeText(text)
		}
	}

	builder.closeOpen()

	return &Output{
		Profiles:     builder.closed,
		DuplicateIDs: builder.duplicates,
	}, nil
}

// classify decides what a content line is. A line containing identifier
// tokens only starts a profile when it is not itself a recognized field line,
// so field lines that mention another person's identifier are not misread as
// new profile starts.
func classify(text string) lineKind {
	if sectionPattern.MatchString(text) {
		return lineSectionHeader
	}
	switch {
	case bornPattern.MatchString(text):
		return lineBornField
	case diedPattern.MatchString(text):
		return lineDiedField
	case notesPattern.MatchString(text):
		return lineNotesField
	case childrenPattern.MatchString(text):
		return lineChildrenField
	}
	if idTokenPattern.MatchString(text) &&
		!crossRefPattern.MatchString(text) &&
		!relPointerPattern.MatchString(text) {
		return lineProfileStart
	}
	return lineFreeText
}
