// Package reference loads and indexes the curated auxiliary vocabularies:
// controlled types, languages with spelling-correction overrides, and
// places mapping verbatim source strings to gazetteer ids.
package reference

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/litkg/litkg/config"
	"github.com/litkg/litkg/source"
)

// ErrUnresolved is returned when a code has no entry in its vocabulary.
// Callers decide how to report it; it never aborts a run.
var ErrUnresolved = errors.New("unresolved reference")

// NoLanguage is the pseudo language code for records without a language.
const NoLanguage = "NOLANG"

// TypeEntry is one controlled-type row.
type TypeEntry struct {
	Code    string
	Label   string
	GraphID string
}

// LanguageEntry is one language row from the canonical table.
type LanguageEntry struct {
	Code       string
	Label      string
	GraphID    string
	URI        string
	WikidataID string
}

// Place is one (name, gazetteer id) pair from a place entry.
type Place struct {
	Name       string
	GeonamesID string
}

// Tables indexes the three vocabularies for lookup.
type Tables struct {
	types     map[string]TypeEntry
	languages map[string]LanguageEntry
	overrides map[string]string
	places    map[string][]Place

	// placePublisher keeps the curation-context publisher per verbatim
	// place string. Only the unresolved report reads it.
	placePublisher map[string]string

	langCodes []string
}

// Load reads the three vocabulary workbooks. Any load failure is fatal:
// the resolver cannot function without its vocabularies.
func Load(cfg config.ReferenceConfig, logger *slog.Logger) (*Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tables{
		types:          make(map[string]TypeEntry),
		languages:      make(map[string]LanguageEntry),
		overrides:      make(map[string]string),
		places:         make(map[string][]Place),
		placePublisher: make(map[string]string),
	}

	if err := t.loadTypes(cfg.Types); err != nil {
		return nil, fmt.Errorf("load type table: %w", err)
	}
	if err := t.loadLanguages(cfg.Languages); err != nil {
		return nil, fmt.Errorf("load language table: %w", err)
	}
	if err := t.loadPlaces(cfg.Places, logger); err != nil {
		return nil, fmt.Errorf("load place table: %w", err)
	}

	logger.Info("Loaded reference tables",
		slog.Int("types", len(t.types)),
		slog.Int("languages", len(t.languages)),
		slog.Int("places", len(t.places)))
	return t, nil
}

// LookupType resolves a controlled-type code.
func (t *Tables) LookupType(code string) (TypeEntry, error) {
	entry, ok := t.types[strings.TrimSpace(code)]
	if !ok {
		return TypeEntry{}, fmt.Errorf("type %q: %w", code, ErrUnresolved)
	}
	return entry, nil
}

// LookupLanguage resolves a language code or spelling variant. The
// override table is consulted first, so a variant present there always
// resolves to its target even when the raw code is itself canonical.
func (t *Tables) LookupLanguage(code string) (LanguageEntry, error) {
	canon := strings.ToUpper(strings.TrimSpace(code))
	if target, ok := t.overrides[canon]; ok {
		canon = target
	}
	entry, ok := t.languages[canon]
	if !ok {
		return LanguageEntry{}, fmt.Errorf("language %q: %w", code, ErrUnresolved)
	}
	return entry, nil
}

// LookupPlace resolves a verbatim source place string, possibly naming
// several places, to its positionally-paired (name, geonames id) list.
func (t *Tables) LookupPlace(verbatim string) ([]Place, error) {
	entry, ok := t.places[strings.TrimSpace(verbatim)]
	if !ok {
		return nil, fmt.Errorf("place %q: %w", verbatim, ErrUnresolved)
	}
	return entry, nil
}

// PublisherContext returns the curation-context publisher recorded for
// a verbatim place string, if any.
func (t *Tables) PublisherContext(verbatim string) string {
	return t.placePublisher[strings.TrimSpace(verbatim)]
}

// LanguageCodes returns the canonical language codes in table order.
func (t *Tables) LanguageCodes() []string {
	return t.langCodes
}

// Types returns all controlled-type entries sorted by code.
func (t *Tables) Types() []TypeEntry {
	out := make([]TypeEntry, 0, len(t.types))
	for _, entry := range t.types {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Languages returns all canonical language entries in table order.
func (t *Tables) Languages() []LanguageEntry {
	out := make([]LanguageEntry, 0, len(t.langCodes))
	for _, code := range t.langCodes {
		out = append(out, t.languages[code])
	}
	return out
}

// GeonamesIDs returns every distinct gazetteer id the place table maps
// to, in first-seen order. The lookup cache is primed from this list.
func (t *Tables) GeonamesIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, entry := range t.places {
		for _, p := range entry {
			if !seen[p.GeonamesID] {
				seen[p.GeonamesID] = true
				ids = append(ids, p.GeonamesID)
			}
		}
	}
	return ids
}

func (t *Tables) loadTypes(path string) error {
	wb, err := source.Load(path)
	if err != nil {
		return err
	}

	names := wb.SheetNames()
	if len(names) == 0 {
		return fmt.Errorf("workbook %s has no sheets", path)
	}
	sheet, _ := wb.Sheet(names[0])

	codeCol, ok := sheet.HeaderIndex("type")
	if !ok {
		return fmt.Errorf("workbook %s: missing column %q", path, "type")
	}
	labelCol, ok := sheet.HeaderIndex("label")
	if !ok {
		return fmt.Errorf("workbook %s: missing column %q", path, "label")
	}

	for _, row := range sheet.Rows[1:] {
		code := row.Cell(codeCol)
		if code == "" {
			continue
		}
		t.types[code] = TypeEntry{
			Code:    code,
			Label:   row.Cell(labelCol),
			GraphID: "E55_" + code,
		}
	}
	return nil
}

func (t *Tables) loadLanguages(path string) error {
	wb, err := source.Load(path)
	if err != nil {
		return err
	}

	langs, ok := wb.Sheet("langs")
	if !ok {
		return fmt.Errorf("workbook %s: missing sheet %q", path, "langs")
	}
	codeCol, ok := langs.HeaderIndex("iso639-1")
	if !ok {
		return fmt.Errorf("workbook %s: missing column %q", path, "iso639-1")
	}
	nameCol, _ := langs.HeaderIndex("name")
	uriCol, _ := langs.HeaderIndex("uri")
	wdCol, _ := langs.HeaderIndex("idwd")

	for _, row := range langs.Rows[1:] {
		code := strings.ToUpper(strings.TrimSpace(row.Cell(codeCol)))
		if code == "" {
			continue
		}
		t.languages[code] = LanguageEntry{
			Code:       code,
			Label:      row.Cell(nameCol),
			GraphID:    "E56_" + code,
			URI:        row.Cell(uriCol),
			WikidataID: row.Cell(wdCol),
		}
		t.langCodes = append(t.langCodes, code)
	}

	// Records without a language keep a well-defined resolution target.
	t.languages[NoLanguage] = LanguageEntry{Code: NoLanguage}
	t.langCodes = append(t.langCodes, NoLanguage)

	if errSheet, ok := wb.Sheet("errors"); ok {
		isCol, okIs := errSheet.HeaderIndex("is")
		shouldCol, okShould := errSheet.HeaderIndex("shouldbe")
		if !okIs || !okShould {
			return fmt.Errorf("workbook %s: sheet %q needs columns is and shouldbe", path, "errors")
		}
		for _, row := range errSheet.Rows[1:] {
			variant := strings.ToUpper(strings.TrimSpace(row.Cell(isCol)))
			target := strings.ToUpper(strings.TrimSpace(row.Cell(shouldCol)))
			if variant == "" {
				continue
			}
			if _, known := t.languages[target]; !known {
				return fmt.Errorf("override target %q for variant %q not in language table", target, variant)
			}
			t.overrides[variant] = target
		}
	}
	return nil
}

func (t *Tables) loadPlaces(path string, logger *slog.Logger) error {
	wb, err := source.Load(path)
	if err != nil {
		return err
	}

	sheet, ok := wb.Sheet("yaz-place-list")
	if !ok {
		return fmt.Errorf("workbook %s: missing sheet %q", path, "yaz-place-list")
	}
	cityCol, ok := sheet.HeaderIndex("city")
	if !ok {
		return fmt.Errorf("workbook %s: missing column %q", path, "city")
	}
	idCol, ok := sheet.HeaderIndex("geonameid")
	if !ok {
		return fmt.Errorf("workbook %s: missing column %q", path, "geonameid")
	}
	pubCol, hasPub := sheet.HeaderIndex("publisher")

	for _, row := range sheet.Rows[1:] {
		verbatim := row.Cell(cityCol)
		if verbatim == "" {
			continue
		}
		if hasPub {
			t.placePublisher[verbatim] = row.Cell(pubCol)
		}

		ids := strings.Fields(row.Cell(idCol))
		if len(ids) == 0 {
			continue
		}
		names := splitPlaceNames(verbatim, len(ids))
		if len(names) != len(ids) {
			logger.Warn("Place entry name/id count mismatch, treating as unmapped",
				slog.String("city", verbatim),
				slog.Int("names", len(names)),
				slog.Int("ids", len(ids)))
			continue
		}

		entry := make([]Place, len(ids))
		for i := range ids {
			entry[i] = Place{Name: names[i], GeonamesID: ids[i]}
		}
		t.places[verbatim] = entry
	}
	return nil
}

// splitPlaceNames splits a verbatim multi-place string on the comma
// convention. When the string carries a single id the whole string is
// one name regardless of embedded commas.
func splitPlaceNames(verbatim string, count int) []string {
	if count == 1 {
		return []string{verbatim}
	}
	parts := strings.Split(verbatim, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
