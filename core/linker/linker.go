package linker

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var syntheticSuffixPattern = regexp.MustCompile(`\.c\d+$`)

// Linker derives parent/child and spouse edges from the structural shape of
// profile identifiers
type Linker struct {
	policy PairingPolicy
	log    *slog.Logger
}

// NewLinker creates a relationship linker. A nil policy falls back to the
// Ahnentafel numbering convention of the source dataset.
func NewLinker(policy PairingPolicy, logger *slog.Logger) *Linker {
	if policy == nil {
		policy = AhnentafelPolicy{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Linker{policy: policy, log: logger}
}

// Link adds mutual parent/child edges for every dotted id whose truncated id
// exists in the registry, and spouse edges per the pairing policy. Synthetic
// child ids are skipped; their parent edge is wired at expansion time.
func (l *Linker) Link(reg *model.Registry) {
	for _, id := range reg.IDs() {
		p, ok := reg.Get(id)
		if !ok || p.Synthetic() || syntheticSuffixPattern.MatchString(id) {
			continue
		}

		if idx := strings.LastIndex(id, "."); idx >= 0 {
			parentID := id[:idx]
			if parent, exists := reg.Get(parentID); exists {
				parent.Relations.AddChild(id)
				p.Relations.AddParent(parentID)
			}
		}

		if spouseID, ok := l.policy.SpouseOf(id); ok {
			if spouse, exists := reg.Get(spouseID); exists {
				p.Relations.AddSpouse(spouseID)
				spouse.Relations.AddSpouse(id)
			}
		}
	}
}
