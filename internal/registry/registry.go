package registry

import (
	"fmt"

	"pressroom/internal/profile"
)

// ValidationError rejects a registry build. A single invalid profile fails
// the whole build; the previously published registry stays in service.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile %q: %s", e.Name, e.Reason)
}

// Registry is an immutable set of profiles keyed by name. Insertion order
// is preserved; the dispatcher uses it as the deterministic tie-break.
type Registry struct {
	byName  map[string]*profile.Profile
	ordered []*profile.Profile
}

// Build validates the profile set and constructs a Registry. Duplicate
// names and empty trigger descriptions are rejected.
func Build(profiles []*profile.Profile) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*profile.Profile, len(profiles)),
		ordered: make([]*profile.Profile, 0, len(profiles)),
	}
	for _, p := range profiles {
		if p.Name == "" {
			return nil, &ValidationError{Name: p.Name, Reason: "name is empty"}
		}
		if p.TriggerDescription == "" {
			return nil, &ValidationError{Name: p.Name, Reason: "trigger description is empty"}
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, &ValidationError{Name: p.Name, Reason: "duplicate name"}
		}
		r.byName[p.Name] = p
		r.ordered = append(r.ordered, p)
	}
	return r, nil
}

func (r *Registry) Get(name string) (*profile.Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// List returns all profiles in insertion order. The returned slice is a
// copy; the registry itself is never mutated after Build.
func (r *Registry) List() []*profile.Profile {
	out := make([]*profile.Profile, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Len() int {
	return len(r.ordered)
}

// Index returns the insertion position of a profile, or -1 if absent.
func (r *Registry) Index(name string) int {
	for i, p := range r.ordered {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Summaries returns the introspection view of every profile, in order.
func (r *Registry) Summaries() []profile.Summary {
	out := make([]profile.Summary, len(r.ordered))
	for i, p := range r.ordered {
		out[i] = p.Summary()
	}
	return out
}
