// Package config provides configuration loading and management for litkg.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete litkg configuration.
type Config struct {
	// Workbook is the path to the main bibliographic xlsx database.
	Workbook string `yaml:"workbook"`

	Reference ReferenceConfig `yaml:"reference"`
	Gazetteer GazetteerConfig `yaml:"gazetteer"`
	Detect    DetectConfig    `yaml:"detect"`
	Enrich    EnrichConfig    `yaml:"enrich"`
	Output    OutputConfig    `yaml:"output"`
	NATS      NATSConfig      `yaml:"nats"`

	// Sheets overrides or extends the default per-sheet schemas.
	// Entries are matched by name; an entry with a known name replaces
	// the default schema for that sheet.
	Sheets []SheetSchema `yaml:"sheets"`
}

// ReferenceConfig locates the curated auxiliary vocabulary workbooks.
type ReferenceConfig struct {
	// Types is the path to the type table workbook (code, label).
	Types string `yaml:"types"`
	// Languages is the path to the language workbook: sheet "langs"
	// (uri, name, iso639-1, iso639-3, idwd) plus sheet "errors"
	// (is, shouldbe) with spelling-variant overrides.
	Languages string `yaml:"languages"`
	// Places is the path to the place workbook: sheet "yaz-place-list"
	// mapping verbatim source place strings to geonames ids.
	Places string `yaml:"places"`
}

// GazetteerConfig configures the geonames lookup cache.
type GazetteerConfig struct {
	// CachePath is the persisted JSON cache of geonames details.
	CachePath string `yaml:"cache_path"`
	// Fetch enables live geonames API calls. A pointer so a later config
	// layer saying "fetch: false" overrides an earlier "fetch: true".
	Fetch *bool `yaml:"fetch,omitempty"`
	// Username is the geonames API username, required when Fetch is on.
	Username string `yaml:"username"`
}

// FetchEnabled reports whether live gazetteer fetching is turned on.
func (g GazetteerConfig) FetchEnabled() bool {
	return g.Fetch != nil && *g.Fetch
}

// DetectConfig configures automatic language detection.
type DetectConfig struct {
	// Enabled turns on detection as a fallback for records whose
	// language code does not resolve. A pointer so a later config layer
	// can switch it off again.
	Enabled *bool `yaml:"enabled,omitempty"`
	// Languages is the ISO 639-1 candidate set for the detector.
	Languages []string `yaml:"languages"`
}

// IsEnabled reports whether detection is turned on.
func (d DetectConfig) IsEnabled() bool {
	return d.Enabled != nil && *d.Enabled
}

// EnrichConfig configures wikidata enrichment from reconciled files.
type EnrichConfig struct {
	// Dir is the directory holding reconciled TSV files.
	Dir string `yaml:"dir"`
	// Pattern is a doublestar pattern selecting files within Dir.
	Pattern string `yaml:"pattern"`
}

// OutputConfig configures the run artifacts.
type OutputConfig struct {
	// GraphPath is where the serialized graph is written.
	GraphPath string `yaml:"graph_path"`
	// Format is the serialization format: turtle or ntriples.
	Format string `yaml:"format"`
	// UnresolvedReport is where the unresolved-places workbook is written.
	UnresolvedReport string `yaml:"unresolved_report"`
}

// NATSConfig configures optional graph-ingest publishing.
type NATSConfig struct {
	// URL is the NATS server URL; empty disables publishing.
	URL string `yaml:"url"`
}

// RowRange is an inclusive range of data row indices within a sheet.
// End == 0 means open-ended.
type RowRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Contains reports whether a row index falls inside the range.
func (r RowRange) Contains(index int) bool {
	if index < r.Start {
		return false
	}
	return r.End == 0 || index <= r.End
}

// CombinedRule declares a combined free-text field to decompose into
// year/issue/page sub-fields. Page-mark notation varies across sheets, so
// the mark list is schema-level configuration.
type CombinedRule struct {
	// Field is the canonical field holding the combined string.
	Field string `yaml:"field"`
	// PageMarks are the page-marker tokens recognized in this sheet,
	// e.g. "s" for "s.12".
	PageMarks []string `yaml:"page_marks"`
}

// SheetSchema is the static per-sheet configuration: how to map columns
// to canonical fields, which rows carry data, and how to mint YIDs.
type SheetSchema struct {
	// Name is the sheet name in the workbook.
	Name string `yaml:"name"`
	// Prefix is the sheet-category YID prefix (e.g. "NFPL").
	Prefix string `yaml:"prefix"`
	// Language is the sheet's language code, used for translation
	// detection on cross-sheet references. Optional.
	Language string `yaml:"language"`
	// Columns maps source column labels to canonical field names.
	// Mutually exclusive with Order.
	Columns map[string]string `yaml:"columns"`
	// Order lists canonical field names positionally, starting at
	// StartCol. "-" skips a column. Used for sheets whose headings vary
	// but whose column meaning and order are fixed.
	Order []string `yaml:"order"`
	// StartCol is the zero-based column where Order begins.
	StartCol int `yaml:"start_col"`
	// Rows is the inclusive data row range to process.
	Rows RowRange `yaml:"rows"`
	// Combined optionally declares the combined-field decomposition.
	Combined *CombinedRule `yaml:"combined"`
}

// Fields returns the canonical field names this schema produces.
func (s SheetSchema) Fields() []string {
	if len(s.Columns) > 0 {
		fields := make([]string, 0, len(s.Columns))
		for _, f := range s.Columns {
			fields = append(fields, f)
		}
		return fields
	}
	fields := make([]string, 0, len(s.Order))
	for _, f := range s.Order {
		if f != "-" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Validate checks one sheet schema.
func (s SheetSchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("sheet schema requires a name")
	}
	if s.Prefix == "" {
		return fmt.Errorf("sheet %s: prefix is required", s.Name)
	}
	if len(s.Columns) == 0 && len(s.Order) == 0 {
		return fmt.Errorf("sheet %s: either columns or order is required", s.Name)
	}
	if len(s.Columns) > 0 && len(s.Order) > 0 {
		return fmt.Errorf("sheet %s: columns and order are mutually exclusive", s.Name)
	}
	if s.StartCol < 0 {
		return fmt.Errorf("sheet %s: start_col must not be negative", s.Name)
	}
	if s.Rows.Start < 0 || (s.Rows.End != 0 && s.Rows.End < s.Rows.Start) {
		return fmt.Errorf("sheet %s: invalid row range %d..%d", s.Name, s.Rows.Start, s.Rows.End)
	}
	if s.Combined != nil {
		if s.Combined.Field == "" {
			return fmt.Errorf("sheet %s: combined rule requires a field", s.Name)
		}
		found := false
		for _, f := range s.Fields() {
			if f == s.Combined.Field {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sheet %s: combined field %q not produced by schema", s.Name, s.Combined.Field)
		}
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Workbook == "" {
		return fmt.Errorf("workbook is required")
	}
	if c.Reference.Types == "" || c.Reference.Languages == "" || c.Reference.Places == "" {
		return fmt.Errorf("reference.types, reference.languages and reference.places are required")
	}
	if c.Gazetteer.FetchEnabled() && c.Gazetteer.Username == "" {
		return fmt.Errorf("gazetteer.username is required when gazetteer.fetch is on")
	}
	if c.Detect.IsEnabled() && len(c.Detect.Languages) < 2 {
		return fmt.Errorf("detect.languages needs at least two candidate languages")
	}
	switch c.Output.Format {
	case "turtle", "ntriples":
	default:
		return fmt.Errorf("output.format must be turtle or ntriples, got %q", c.Output.Format)
	}
	seen := make(map[string]bool, len(c.Sheets))
	for _, s := range c.Sheets {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sheet schema %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// SchemaFor returns the schema for a sheet name.
func (c *Config) SchemaFor(name string) (SheetSchema, bool) {
	for _, s := range c.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetSchema{}, false
}

// LoadFromFile loads configuration from a YAML file. The result carries
// only what the file declares; use Loader to layer it over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Merge overlays non-zero fields from other onto c. Boolean switches
// overlay whenever the layer declared them, in either direction. Sheet
// schemas are merged by name: a schema in other replaces the schema with
// the same name, otherwise it is appended.
func (c *Config) Merge(other *Config) {
	if other.Workbook != "" {
		c.Workbook = other.Workbook
	}
	if other.Reference.Types != "" {
		c.Reference.Types = other.Reference.Types
	}
	if other.Reference.Languages != "" {
		c.Reference.Languages = other.Reference.Languages
	}
	if other.Reference.Places != "" {
		c.Reference.Places = other.Reference.Places
	}
	if other.Gazetteer.CachePath != "" {
		c.Gazetteer.CachePath = other.Gazetteer.CachePath
	}
	if other.Gazetteer.Fetch != nil {
		c.Gazetteer.Fetch = other.Gazetteer.Fetch
	}
	if other.Gazetteer.Username != "" {
		c.Gazetteer.Username = other.Gazetteer.Username
	}
	if other.Detect.Enabled != nil {
		c.Detect.Enabled = other.Detect.Enabled
	}
	if len(other.Detect.Languages) > 0 {
		c.Detect.Languages = other.Detect.Languages
	}
	if other.Enrich.Dir != "" {
		c.Enrich.Dir = other.Enrich.Dir
	}
	if other.Enrich.Pattern != "" {
		c.Enrich.Pattern = other.Enrich.Pattern
	}
	if other.Output.GraphPath != "" {
		c.Output.GraphPath = other.Output.GraphPath
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.UnresolvedReport != "" {
		c.Output.UnresolvedReport = other.Output.UnresolvedReport
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	for _, s := range other.Sheets {
		replaced := false
		for i := range c.Sheets {
			if c.Sheets[i].Name == s.Name {
				c.Sheets[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			c.Sheets = append(c.Sheets, s)
		}
	}
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
