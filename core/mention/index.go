package mention

import (
	"regexp"
	"strings"

	"github.com/siherrmann/kinship/model"
)

var nameSuffixPattern = regexp.MustCompile(`(?i),?\s+(?:Jr\.?|Sr\.?|II|III|IV|V)\s*$`)

// Index is a multi-variant lookup from display names and name fragments to
// the profile ids that produced them. A variant mapping to more than one id
// is ambiguous for direct instantiation, but every id stays discoverable for
// downstream disambiguation.
type Index struct {
	variants map[string][]string
}

// BuildIndex builds the name index over the whole registry
func BuildIndex(reg *model.Registry) *Index {
	idx := &Index{variants: make(map[string][]string)}
	for _, p := range reg.All() {
		for _, variant := range NameVariants(p.Name) {
			idx.add(variant, p.ID)
		}
	}
	return idx
}

func (idx *Index) add(variant, id string) {
	key := normalizeKey(variant)
	if key == "" {
		return
	}
	for _, existing := range idx.variants[key] {
		if existing == id {
			return
		}
	}
	idx.variants[key] = append(idx.variants[key], id)
}

// Lookup returns the profile ids a name variant maps to
func (idx *Index) Lookup(variant string) []string {
	return idx.variants[normalizeKey(variant)]
}

// Has reports whether the variant is a known index key
func (idx *Index) Has(variant string) bool {
	_, ok := idx.variants[normalizeKey(variant)]
	return ok
}

// Len returns the number of distinct variants in the index
func (idx *Index) Len() int {
	return len(idx.variants)
}

// NameVariants derives the lookup variants of a display name: the name
// itself, the suffix-stripped base, first+last, and
// first+middle-initial+last
func NameVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	variants := []string{name}

	base := strings.TrimSpace(nameSuffixPattern.ReplaceAllString(name, ""))
	if base != "" && base != name {
		variants = append(variants, base)
	}

	parts := strings.Fields(base)
	if len(parts) >= 3 {
		first, last := parts[0], parts[len(parts)-1]
		variants = append(variants, first+" "+last)

		middle := parts[1]
		if initial := []rune(middle); len(initial) > 0 {
			variants = append(variants, first+" "+string(initial[0])+". "+last)
		}
	}

	return variants
}

func normalizeKey(variant string) string {
	return strings.ToLower(strings.Join(strings.Fields(variant), " "))
}
