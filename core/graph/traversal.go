// Package graph walks the structural family edges of a parsed registry.
// Traversal works on the in-memory registry, not the database: the profile
// set of one document is small enough to hold and the edges are already
// materialized on each profile.
package graph

import (
	"github.com/siherrmann/kinship/model"
)

// EdgeKind selects which structural relation slices a traversal follows
type EdgeKind string

const (
	EdgeParent EdgeKind = "parent"
	EdgeChild  EdgeKind = "child"
	EdgeSpouse EdgeKind = "spouse"
)

// AllEdgeKinds follows every structural relation
var AllEdgeKinds = []EdgeKind{EdgeParent, EdgeChild, EdgeSpouse}

// TraversalResult contains a profile and its distance from the source
type TraversalResult struct {
	Profile  *model.Profile
	Distance int
	// Path from the source to this profile, inclusive on both ends
	Path []string
}

// BFS performs breadth-first search from a source profile, following the
// given edge kinds up to maxHops. The source itself is the first result with
// distance zero. Unknown ids referenced by an edge are skipped.
func BFS(reg *model.Registry, sourceID string, maxHops int, kinds []EdgeKind) []*TraversalResult {
	source, ok := reg.Get(sourceID)
	if !ok {
		return nil
	}

	visited := map[string]bool{sourceID: true}
	queue := []TraversalResult{{
		Profile:  source,
		Distance: 0,
		Path:     []string{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		for _, targetID := range edgeTargets(current.Profile, kinds) {
			if visited[targetID] {
				continue
			}
			target, ok := reg.Get(targetID)
			if !ok {
				continue
			}
			visited[targetID] = true

			newPath := make([]string, len(current.Path))
			copy(newPath, current.Path)
			newPath = append(newPath, targetID)

			queue = append(queue, TraversalResult{
				Profile:  target,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results
}

// Ancestors returns every profile reachable by walking parent edges from id,
// nearest first. The source itself is not included.
func Ancestors(reg *model.Registry, id string, maxHops int) []*TraversalResult {
	return skipSource(BFS(reg, id, maxHops, []EdgeKind{EdgeParent}))
}

// Descendants returns every profile reachable by walking child edges from id,
// nearest first. The source itself is not included.
func Descendants(reg *model.Registry, id string, maxHops int) []*TraversalResult {
	return skipSource(BFS(reg, id, maxHops, []EdgeKind{EdgeChild}))
}

// Relatives retrieves the immediate neighbors (1-hop) of a profile across
// every structural edge kind
func Relatives(reg *model.Registry, id string) []*model.Profile {
	results := skipSource(BFS(reg, id, 1, AllEdgeKinds))

	relatives := make([]*model.Profile, 0, len(results))
	for _, r := range results {
		relatives = append(relatives, r.Profile)
	}
	return relatives
}

func skipSource(results []*TraversalResult) []*TraversalResult {
	if len(results) == 0 {
		return nil
	}
	return results[1:]
}

// edgeTargets collects the relation ids of a profile in a stable order:
// parents, then children, then spouses, each in stored order
func edgeTargets(p *model.Profile, kinds []EdgeKind) []string {
	var out []string
	for _, kind := range kinds {
		switch kind {
		case EdgeParent:
			out = append(out, p.Relations.Parents...)
		case EdgeChild:
			out = append(out, p.Relations.Children...)
		case EdgeSpouse:
			out = append(out, p.Relations.Spouses...)
		}
	}
	return out
}
