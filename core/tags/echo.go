package tags

import (
	"strings"

	"github.com/siherrmann/kinship/model"
)

// DetectNamingEchoes records, for every profile whose first name recurs two
// or more generations up its structural id chain, the nearest such ancestor.
// Naming after a grandparent was a common practice in the source material;
// the echo is informational, never a relation.
func DetectNamingEchoes(reg *model.Registry) {
	for _, p := range reg.All() {
		first := firstName(p.Name)
		if first == "" {
			continue
		}

		ancestorID := truncate(p.ID)
		depth := 1
		for ancestorID != "" {
			if depth >= 2 {
				ancestor, ok := reg.Get(ancestorID)
				if ok && strings.EqualFold(firstName(ancestor.Name), first) {
					p.Story.NamingEcho = &model.NamingEcho{
						AncestorID: ancestor.ID,
						SharedName: first,
					}
					break
				}
			}
			ancestorID = truncate(ancestorID)
			depth++
		}
	}
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func truncate(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx < 0 {
		return ""
	}
	return id[:idx]
}
