package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"pressroom/internal/profile"
)

// Store publishes the current Registry to concurrent readers. Reload builds
// the replacement fully off to the side and swaps it in one atomic store,
// so the read path takes no lock and never observes a partial update.
type Store struct {
	current atomic.Pointer[Registry]

	// Serializes writers only. Readers go through the atomic pointer.
	reloadMu sync.Mutex
}

// NewStore returns a Store serving an empty registry.
func NewStore() *Store {
	s := &Store{}
	empty, _ := Build(nil)
	s.current.Store(empty)
	return s
}

// Snapshot returns the currently published registry. The result is
// immutable and safe to use for the full lifetime of a dispatch call even
// if a reload lands meanwhile.
func (s *Store) Snapshot() *Registry {
	return s.current.Load()
}

// Reload replaces the published registry with the full set served by src.
// On any load or validation failure nothing changes and the previous
// registry keeps serving.
func (s *Store) Reload(ctx context.Context, src profile.Source) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	profiles, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}
	next, err := Build(profiles)
	if err != nil {
		return err
	}

	prev := s.current.Swap(next)
	slog.Info("registry reloaded", "profiles", next.Len(), "previous", prev.Len())
	return nil
}
