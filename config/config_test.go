package config

import (
	"os"
	"path/filepath"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Workbook = "data/bibliography.xlsx"
	cfg.Reference.Types = "data/types.xlsx"
	cfg.Reference.Languages = "data/langs.xlsx"
	cfg.Reference.Places = "data/cities.xlsx"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Format != "turtle" {
		t.Errorf("expected default format turtle, got %s", cfg.Output.Format)
	}
	if cfg.Gazetteer.FetchEnabled() {
		t.Error("expected gazetteer fetch off by default")
	}
	if len(cfg.Sheets) != 33 {
		t.Errorf("expected 33 default sheet schemas, got %d", len(cfg.Sheets))
	}

	pl, ok := cfg.SchemaFor("PL")
	if !ok {
		t.Fatal("expected a default schema for sheet PL")
	}
	if pl.Prefix != "NFPL" {
		t.Errorf("expected prefix NFPL, got %s", pl.Prefix)
	}
	if pl.StartCol != 2 {
		t.Errorf("expected start_col 2, got %d", pl.StartCol)
	}
	if pl.Rows.End != 6079 {
		t.Errorf("expected PL end row 6079, got %d", pl.Rows.End)
	}
	if pl.Combined == nil || pl.Combined.Field != "pub_info" {
		t.Error("expected combined rule on pub_info")
	}

	ru, _ := cfg.SchemaFor("RU")
	if ru.StartCol != 3 {
		t.Errorf("expected RU start_col 3, got %d", ru.StartCol)
	}

	de, _ := cfg.SchemaFor("DE")
	if de.Rows.End != 0 {
		t.Errorf("expected DE row range open-ended, got end %d", de.Rows.End)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing workbook",
			modify:  func(c *Config) { c.Workbook = "" },
			wantErr: true,
		},
		{
			name:    "missing reference places",
			modify:  func(c *Config) { c.Reference.Places = "" },
			wantErr: true,
		},
		{
			name:    "fetch without username",
			modify:  func(c *Config) { c.Gazetteer.Fetch = boolPtr(true) },
			wantErr: true,
		},
		{
			name: "fetch with username",
			modify: func(c *Config) {
				c.Gazetteer.Fetch = boolPtr(true)
				c.Gazetteer.Username = "demo"
			},
			wantErr: false,
		},
		{
			name: "detect with one candidate",
			modify: func(c *Config) {
				c.Detect.Enabled = boolPtr(true)
				c.Detect.Languages = []string{"pl"}
			},
			wantErr: true,
		},
		{
			name:    "unknown output format",
			modify:  func(c *Config) { c.Output.Format = "rdfxml" },
			wantErr: true,
		},
		{
			name: "duplicate sheet",
			modify: func(c *Config) {
				c.Sheets = append(c.Sheets, c.Sheets[0])
			},
			wantErr: true,
		},
		{
			name: "sheet with columns and order",
			modify: func(c *Config) {
				c.Sheets[0].Columns = map[string]string{"a": "author"}
			},
			wantErr: true,
		},
		{
			name: "combined field not in schema",
			modify: func(c *Config) {
				c.Sheets[0].Combined = &CombinedRule{Field: "nope"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRowRangeContains(t *testing.T) {
	bounded := RowRange{Start: 1, End: 10}
	if bounded.Contains(0) {
		t.Error("expected row 0 outside range 1..10")
	}
	if !bounded.Contains(1) || !bounded.Contains(10) {
		t.Error("expected range bounds inclusive")
	}
	if bounded.Contains(11) {
		t.Error("expected row 11 outside range 1..10")
	}

	open := RowRange{Start: 1}
	if !open.Contains(100000) {
		t.Error("expected open-ended range to contain any row past start")
	}
}

func TestSheetSchemaFields(t *testing.T) {
	s := SheetSchema{
		Name:   "PL",
		Prefix: "NFPL",
		Order:  []string{"yid_main", "-", "title"},
	}
	fields := s.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0] != "yid_main" || fields[1] != "title" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestConfigMerge(t *testing.T) {
	base := testConfig()
	override := &Config{
		Output: OutputConfig{Format: "ntriples"},
		Sheets: []SheetSchema{
			{
				Name:   "PL",
				Prefix: "NFPL",
				Order:  []string{"yid_main", "title"},
				Rows:   RowRange{Start: 1, End: 100},
			},
			{
				Name:   "XX",
				Prefix: "NFXX",
				Order:  []string{"yid_main", "title"},
			},
		},
	}

	base.Merge(override)

	if base.Output.Format != "ntriples" {
		t.Errorf("expected merged format ntriples, got %s", base.Output.Format)
	}
	if base.Workbook != "data/bibliography.xlsx" {
		t.Error("expected workbook untouched by merge")
	}
	if len(base.Sheets) != 34 {
		t.Errorf("expected 34 sheets after merge, got %d", len(base.Sheets))
	}
	pl, _ := base.SchemaFor("PL")
	if pl.Rows.End != 100 {
		t.Errorf("expected PL schema replaced, got end row %d", pl.Rows.End)
	}
	if _, ok := base.SchemaFor("XX"); !ok {
		t.Error("expected new sheet XX appended")
	}
}

func TestConfigMergeBooleanSwitches(t *testing.T) {
	base := testConfig()
	base.Gazetteer.Fetch = boolPtr(true)
	base.Gazetteer.Username = "demo"
	base.Detect.Enabled = boolPtr(true)

	// A layer that stays silent leaves the switches alone.
	base.Merge(&Config{})
	if !base.Gazetteer.FetchEnabled() || !base.Detect.IsEnabled() {
		t.Error("expected silent merge to keep switches on")
	}

	// A layer declaring "false" turns a switch back off.
	base.Merge(&Config{Gazetteer: GazetteerConfig{Fetch: boolPtr(false)}})
	if base.Gazetteer.FetchEnabled() {
		t.Error("expected fetch switched off by later layer")
	}
	if !base.Detect.IsEnabled() {
		t.Error("expected detect untouched")
	}

	base.Merge(&Config{Detect: DetectConfig{Enabled: boolPtr(false)}})
	if base.Detect.IsEnabled() {
		t.Error("expected detect switched off by later layer")
	}
}

func TestLoadFromFileAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "litkg.yaml")

	content := `workbook: data/bib.xlsx
output:
  format: ntriples
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Workbook != "data/bib.xlsx" {
		t.Errorf("expected workbook data/bib.xlsx, got %s", cfg.Workbook)
	}
	if len(cfg.Sheets) != 0 {
		t.Errorf("expected no sheets from file alone, got %d", len(cfg.Sheets))
	}

	out := filepath.Join(dir, "saved", "config.yaml")
	if err := cfg.SaveToFile(out); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	reloaded, err := LoadFromFile(out)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.Output.Format != "ntriples" {
		t.Errorf("expected reloaded format ntriples, got %s", reloaded.Output.Format)
	}
}
