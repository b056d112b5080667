package profile

import "context"

// Source yields the full set of profile definitions for one registry build.
// Implementations must return the complete set on every call; the registry
// replaces its contents wholesale, never incrementally.
type Source interface {
	Load(ctx context.Context) ([]*Profile, error)
}

// StaticSource serves a fixed set of profiles. Used in tests and for
// programmatic registration.
type StaticSource []*Profile

func (s StaticSource) Load(ctx context.Context) ([]*Profile, error) {
	out := make([]*Profile, len(s))
	copy(out, s)
	return out, nil
}
