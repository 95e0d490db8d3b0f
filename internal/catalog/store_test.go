package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{ err error }

func (f failingSource) Name() string { return "failing" }
func (f failingSource) Load(context.Context) (*Catalog, error) {
	return nil, f.err
}

func TestStoreReplace(t *testing.T) {
	first := seedCatalog(t)
	s := NewStore(first)
	assert.Same(t, first, s.Current())

	second := seedCatalog(t)
	prev := s.Replace(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, s.Current())

	s.Replace(nil)
	assert.Same(t, second, s.Current())
}

func TestStoreLoadKeepsSnapshotOnFailure(t *testing.T) {
	first := seedCatalog(t)
	s := NewStore(first)

	_, err := s.Load(context.Background(), failingSource{err: errors.New("db down")})
	require.Error(t, err)
	assert.Same(t, first, s.Current())

	c, err := s.Load(context.Background(), SeedSource{})
	require.NoError(t, err)
	assert.Same(t, c, s.Current())
}

func TestSeedSourceHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SeedSource{}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore(seedCatalog(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := s.Current()
				if _, ok := c.GetTenant("TEN-001"); !ok {
					t.Error("snapshot lost TEN-001")
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		s.Replace(seedCatalog(t))
	}
	wg.Wait()
}
