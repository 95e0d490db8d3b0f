package catalog

import (
	"context"
	"sync/atomic"
)

// Source produces a fresh catalog snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Catalog, error)
}

// Store publishes the current snapshot to concurrent readers. Readers take
// one snapshot per request via Current; a refresh swaps in a whole new
// Catalog and never mutates the old one.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a Store serving initial.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the snapshot in effect. It is nil only if the Store was
// created with a nil catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace installs next and returns the previous snapshot. A nil next is
// ignored.
func (s *Store) Replace(next *Catalog) *Catalog {
	if next == nil {
		return s.current.Load()
	}
	return s.current.Swap(next)
}

// Load reads a snapshot from src and installs it.
func (s *Store) Load(ctx context.Context, src Source) (*Catalog, error) {
	c, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Replace(c)
	return c, nil
}
