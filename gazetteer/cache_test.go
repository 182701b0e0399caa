package gazetteer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	entries map[string]Entry
	err     error
	calls   int
}

func (s *stubFetcher) Fetch(_ context.Context, id string) (Entry, error) {
	s.calls++
	if s.err != nil {
		return Entry{}, s.err
	}
	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, errors.New("no such id")
	}
	return entry, nil
}

func TestCachePutGet(t *testing.T) {
	cache, err := Open(filepath.Join(t.TempDir(), "geocache.json"), nil, nil)
	require.NoError(t, err)

	warszawa := Entry{Name: "Warsaw", Country: "Poland", NamePL: "Warszawa", WikidataID: "Q270"}
	cache.Put("756135", warszawa)

	got, err := cache.Get(context.Background(), "756135")
	require.NoError(t, err)
	assert.Equal(t, warszawa, got)

	_, err = cache.Get(context.Background(), "0")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCacheFlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "geocache.json")

	cache, err := Open(path, nil, nil)
	require.NoError(t, err)
	cache.Put("3094802", Entry{Name: "Kraków", Country: "Poland", NamePL: "Kraków"})
	require.NoError(t, cache.Flush())

	reloaded, err := Open(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())

	got, err := reloaded.Get(context.Background(), "3094802")
	require.NoError(t, err)
	assert.Equal(t, "Kraków", got.NamePL)
}

func TestCacheFlushSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocache.json")
	cache, err := Open(path, nil, nil)
	require.NoError(t, err)

	require.NoError(t, cache.Flush())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCacheFetchOnMiss(t *testing.T) {
	fetcher := &stubFetcher{entries: map[string]Entry{
		"2925533": {Name: "Frankfurt am Main", Country: "Germany", NamePL: "Frankfurt nad Menem"},
	}}
	cache, err := Open(filepath.Join(t.TempDir(), "geocache.json"), fetcher, nil)
	require.NoError(t, err)

	got, err := cache.Get(context.Background(), "2925533")
	require.NoError(t, err)
	assert.Equal(t, "Frankfurt nad Menem", got.NamePL)

	// Second get is served from memory.
	_, err = cache.Get(context.Background(), "2925533")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCacheFetchFailureDegradesToMiss(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("service unavailable")}
	path := filepath.Join(t.TempDir(), "geocache.json")
	cache, err := Open(path, fetcher, nil)
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "756135")
	assert.ErrorIs(t, err, ErrMiss)

	// Repeated misses of the same id collapse to one call per run.
	_, err = cache.Get(context.Background(), "756135")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 1, fetcher.calls)

	// A failed fetch never becomes a persisted negative entry.
	require.NoError(t, cache.Flush())
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestCacheRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := Open(path, nil, nil)
	require.Error(t, err)
}
