// Package resolve substitutes canonical graph identifiers for the
// code-like fields of canonical records, consulting the reference tables
// and the gazetteer cache, and accumulates everything unresolved.
package resolve

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/litkg/litkg/detect"
	"github.com/litkg/litkg/gazetteer"
	"github.com/litkg/litkg/normalize"
	"github.com/litkg/litkg/reference"
)

// Tables is the vocabulary lookup surface the resolver needs.
type Tables interface {
	LookupType(code string) (reference.TypeEntry, error)
	LookupLanguage(code string) (reference.LanguageEntry, error)
	LookupPlace(verbatim string) ([]reference.Place, error)
}

// PlaceCache supplies supplementary place facts.
type PlaceCache interface {
	Get(ctx context.Context, geonamesID string) (gazetteer.Entry, error)
}

// ResolvedPlace is one place relation target with optional enrichment.
type ResolvedPlace struct {
	Name       string
	GeonamesID string
	Info       gazetteer.Entry
	HasInfo    bool
}

// Resolved is a canonical record with its code fields substituted by
// vocabulary entries. Unresolved fields keep their zero value; the
// record is still usable.
type Resolved struct {
	normalize.CanonicalRecord

	Type         reference.TypeEntry
	TypeResolved bool

	Language         reference.LanguageEntry
	LanguageResolved bool
	LanguageDetected bool

	Places []ResolvedPlace
}

// UnresolvedPlace is one distinct (place string, publisher) pair missing
// from the place vocabulary, with its occurrence count.
type UnresolvedPlace struct {
	Place     string
	Publisher string
	Count     int
}

// Resolver resolves records against the vocabularies. Not safe for
// concurrent use.
type Resolver struct {
	tables     Tables
	cache      PlaceCache
	detector   detect.Detector
	candidates []string
	logger     *slog.Logger

	unresolved map[[2]string]*UnresolvedPlace
	order      [][2]string
}

// Options configures optional resolver capabilities.
type Options struct {
	// Detector enables language auto-detection as a fallback; nil
	// disables it.
	Detector detect.Detector
	// Candidates is the detector's allowed language set.
	Candidates []string
	Logger     *slog.Logger
}

// NewResolver creates a resolver over loaded tables and an open cache.
func NewResolver(tables Tables, cache PlaceCache, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		tables:     tables,
		cache:      cache,
		detector:   opts.Detector,
		candidates: opts.Candidates,
		logger:     logger,
		unresolved: make(map[[2]string]*UnresolvedPlace),
	}
}

// Resolve resolves one record's type, language and place fields. Nothing
// here fails the record: unresolved references are reported and left
// empty.
func (r *Resolver) Resolve(ctx context.Context, rec normalize.CanonicalRecord) Resolved {
	resolved := Resolved{CanonicalRecord: rec}

	if rec.TypeCode != "" {
		entry, err := r.tables.LookupType(rec.TypeCode)
		if err == nil {
			resolved.Type = entry
			resolved.TypeResolved = true
		} else {
			r.logger.Debug("Unresolved type code",
				slog.String("yid", rec.YID), slog.String("code", rec.TypeCode))
		}
	}

	r.resolveLanguage(&resolved)
	r.resolvePlaces(ctx, &resolved)
	return resolved
}

func (r *Resolver) resolveLanguage(resolved *Resolved) {
	rec := resolved.CanonicalRecord
	if rec.Language != "" {
		entry, err := r.tables.LookupLanguage(rec.Language)
		if err == nil {
			resolved.Language = entry
			resolved.LanguageResolved = true
			return
		}
		r.logger.Debug("Unresolved language code",
			slog.String("yid", rec.YID), slog.String("code", rec.Language))
	}

	if r.detector == nil || rec.Title == "" {
		return
	}
	code, ok := r.detector.Detect(rec.Title, r.candidates)
	if !ok {
		return
	}
	entry, err := r.tables.LookupLanguage(code)
	if err != nil {
		return
	}
	resolved.Language = entry
	resolved.LanguageResolved = true
	resolved.LanguageDetected = true
}

func (r *Resolver) resolvePlaces(ctx context.Context, resolved *Resolved) {
	verbatim := strings.TrimSpace(resolved.Place)
	if verbatim == "" {
		return
	}

	places, err := r.tables.LookupPlace(verbatim)
	if err != nil {
		r.recordUnresolvedPlace(verbatim, resolved.PubName)
		return
	}

	resolved.Places = make([]ResolvedPlace, 0, len(places))
	for _, p := range places {
		rp := ResolvedPlace{
			Name:       p.Name,
			GeonamesID: p.GeonamesID,
		}
		if info, err := r.cache.Get(ctx, p.GeonamesID); err == nil {
			rp.Info = info
			rp.HasInfo = true
		} else if !errors.Is(err, gazetteer.ErrMiss) {
			r.logger.Warn("Gazetteer lookup error",
				slog.String("geonames_id", p.GeonamesID), slog.String("error", err.Error()))
		}
		resolved.Places = append(resolved.Places, rp)
	}
}

func (r *Resolver) recordUnresolvedPlace(place, publisher string) {
	key := [2]string{place, publisher}
	if entry, ok := r.unresolved[key]; ok {
		entry.Count++
		return
	}
	r.unresolved[key] = &UnresolvedPlace{Place: place, Publisher: publisher, Count: 1}
	r.order = append(r.order, key)
}

// UnresolvedPlaces returns the accumulated unresolved places in
// first-seen order, one entry per distinct (place, publisher) pair.
func (r *Resolver) UnresolvedPlaces() []UnresolvedPlace {
	out := make([]UnresolvedPlace, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.unresolved[key])
	}
	return out
}
