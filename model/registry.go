package model

import (
	"fmt"
	"sort"
)

// Registry is the id -> profile index shared by the linking and resolution
// stages. It is built once from the closed profile set and treated as
// read-mostly afterwards: stages mutate individual profiles in place but
// never add ids except through Add, which enforces uniqueness.
type Registry struct {
	profiles map[string]*Profile
	order    []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// Add registers a profile. The second occurrence of an id is rejected, never
// merged.
func (r *Registry) Add(p *Profile) error {
	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("duplicate profile id %q", p.ID)
	}
	r.profiles[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

// Get returns the profile for an id
func (r *Registry) Get(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// Remove deletes a profile. Used only by the child entry reconciler when a
// synthetic profile is merged away.
func (r *Registry) Remove(id string) {
	if _, ok := r.profiles[id]; !ok {
		return
	}
	delete(r.profiles, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered profiles
func (r *Registry) Len() int {
	return len(r.profiles)
}

// All returns every profile in document order
func (r *Registry) All() []*Profile {
	out := make([]*Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}

// IDs returns every registered id, sorted for deterministic iteration
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
