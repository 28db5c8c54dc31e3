package scanner

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

// builder is the profile accumulation state machine. It is either idle (no
// open profiles) or in-profile (one or more profiles opened by the most
// recent start line; more than one when the line carried an alias chain).
type builder struct {
	log *slog.Logger
	doc *model.Document

	generation string
	open       []*model.Profile
	closed     []*model.Profile
	seen       map[string]bool
	duplicates []string
}

func newBuilder(logger *slog.Logger, doc *model.Document) *builder {
	return &builder{
		log:        logger,
		doc:        doc,
		generation: model.GenerationUncategorized,
		seen:       make(map[string]bool),
	}
}

// startSection sets the current generation label and forces closure of any
// in-progress profile
func (b *builder) startSection(text string) {
	b.closeOpen()
	b.generation = text
	b.log.Debug("Entered section", slog.String("generation", text))
}

// startProfiles closes any open profiles and opens one profile per
// identifier token on the start line, honoring the alias chain rule
func (b *builder) startProfiles(text string, paragraphIndex int) {
	b.closeOpen()

	ids := aliasChain(text)
	if len(ids) == 0 {
		return
	}

	sourceID := ""
	if m := sourceTagPattern.FindStringSubmatch(text); m != nil {
		sourceID = strings.TrimSpace(m[1])
	}

	name := displayName(text)

	for _, id := range ids {
		if b.seen[id] {
			b.log.Warn("Duplicate profile id, skipping",
				slog.String("id", id),
				slog.Int("paragraph", paragraphIndex))
			b.duplicates = append(b.duplicates, id)
			continue
		}
		b.seen[id] = true

		p := model.NewProfile(id, name)
		p.Generation = b.generation
		p.Lineage = b.doc.Title
		p.Metadata = model.ProfileMetadata{
			SourceID:       sourceID,
			ParagraphIndex: paragraphIndex,
		}
		b.open = append(b.open, p)
	}
}

// applyField applies a born/died/children field value to every profile
// opened on the most recent start line, so aliases receive identical data
func (b *builder) applyField(text string, set func(*model.Profile, string), pattern *regexp.Regexp) {
	if len(b.open) == 0 {
		return
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	value := strings.TrimSpace(m[1])
	for _, p := range b.open {
		set(p, value)
	}
}

// startNotes sets the notes text from a NOTES: line
func (b *builder) startNotes(text string) {
	if len(b.open) == 0 {
		return
	}
	m := notesPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	value := strings.TrimSpace(m[1])
	for _, p := range b.open {
		p.Story.Notes = value
	}
}

// appendFreeText handles a content line that matched no field pattern.
// Such lines are ignored; scanning continues.
func (b *builder) appendFreeText(text string) {
	_ = text
}

// closeOpen appends all open profiles to the closed set
func (b *builder) closeOpen() {
	b.closed = append(b.closed, b.open...)
	b.open = nil
}

// aliasChain extracts the identifier tokens of a profile-start line. The
// first token always opens a profile; each further token joins only when the
// text between it and the previous token is a conjunction separator
// (ampersand, slash, "and"). Any other separator breaks the chain.
func aliasChain(text string) []string {
	matches := idTokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	ids := []string{text[matches[0][2]:matches[0][3]]}
	for i := 1; i < len(matches); i++ {
		between := text[matches[i-1][1]:matches[i][0]]
		if !aliasSeparatorPattern.MatchString(strings.TrimSpace(between)) {
			break
		}
		ids = append(ids, text[matches[i][2]:matches[i][3]])
	}
	return ids
}

// displayName extracts the display name of a start line: the text preceding
// the first identifier token, with source citation tags stripped
func displayName(text string) string {
	raw := text
	if idx := strings.Index(text, "{"); idx >= 0 {
		raw = text[:idx]
	}
	clean := sourceTagPattern.ReplaceAllString(raw, "")
	return strings.TrimSpace(clean)
}
