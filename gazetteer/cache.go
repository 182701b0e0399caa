// Package gazetteer provides the persisted cache of supplementary place
// facts keyed by geonames id, with optional live fetching behind it.
package gazetteer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrMiss is returned when an id has no cached entry and no fetch is
// possible (fetching disabled, or the fetch already failed this run).
var ErrMiss = errors.New("gazetteer cache miss")

// Entry is the supplementary fact bundle for one place.
type Entry struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	NamePL     string `json:"name_pl"`
	WikidataID string `json:"wikidata_id,omitempty"`
}

// Fetcher retrieves place details from the external gazetteer service.
type Fetcher interface {
	Fetch(ctx context.Context, geonamesID string) (Entry, error)
}

// Cache is the read-through store. It is loaded in full at startup and
// rewritten in full by Flush. Not safe for concurrent use; the pipeline
// is single-threaded.
type Cache struct {
	path    string
	fetcher Fetcher
	logger  *slog.Logger

	entries map[string]Entry
	failed  map[string]bool
	dirty   bool
}

// Open loads the cache file. A missing file yields an empty cache.
// fetcher may be nil, which disables live fetching entirely.
func Open(path string, fetcher Fetcher, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		path:    path,
		fetcher: fetcher,
		logger:  logger,
		entries: make(map[string]Entry),
		failed:  make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read gazetteer cache %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse gazetteer cache %s: %w", path, err)
	}

	logger.Debug("Loaded gazetteer cache", slog.String("path", path), slog.Int("entries", len(c.entries)))
	return c, nil
}

// Get returns the entry for a geonames id. On a miss with fetching
// enabled it performs exactly one external call per id per run; a failed
// call is logged and degrades to a miss without a negative cache entry
// on disk.
func (c *Cache) Get(ctx context.Context, geonamesID string) (Entry, error) {
	if entry, ok := c.entries[geonamesID]; ok {
		return entry, nil
	}
	if c.fetcher == nil || c.failed[geonamesID] {
		return Entry{}, fmt.Errorf("geonames id %s: %w", geonamesID, ErrMiss)
	}

	entry, err := c.fetcher.Fetch(ctx, geonamesID)
	if err != nil {
		c.failed[geonamesID] = true
		c.logger.Warn("Gazetteer fetch failed",
			slog.String("geonames_id", geonamesID),
			slog.String("error", err.Error()))
		return Entry{}, fmt.Errorf("geonames id %s: %w", geonamesID, ErrMiss)
	}

	c.Put(geonamesID, entry)
	return entry, nil
}

// Put stores an entry in memory. It reaches disk on the next Flush.
func (c *Cache) Put(geonamesID string, entry Entry) {
	c.entries[geonamesID] = entry
	c.dirty = true
}

// Flush persists the cache when anything was added this run.
func (c *Cache) Flush() error {
	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal gazetteer cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write gazetteer cache %s: %w", c.path, err)
	}

	c.dirty = false
	c.logger.Info("Persisted gazetteer cache", slog.String("path", c.path), slog.Int("entries", len(c.entries)))
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
