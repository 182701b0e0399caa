package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/litkg/litkg/config"
)

func writeWorkbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()

	workbook := filepath.Join(dir, "bibliografia.xlsx")
	writeWorkbook(t, workbook, map[string][][]any{
		"PL": {
			{"main", "id", "sub", "title", "author", "translators", "publisher", "pub_info", "type", "refs"},
			{"@", "329", "", "Dialogi", "Lem S. (PL)", "", "Kraków: WL", "1957, s.12", "E", ""},
			{"", "", "", "ciąg dalszy", "", "", "", "", "", ""},
			{"@", "330", "", "O Dialogach", "Kowalski J. (PL)", "", "Atlantyda: Wyd", "1960, 3, s.5", "E", "↑329"},
		},
	})

	types := filepath.Join(dir, "types.xlsx")
	writeWorkbook(t, types, map[string][][]any{
		"types": {
			{"type", "label"},
			{"E", "essay"},
		},
	})

	langs := filepath.Join(dir, "langs.xlsx")
	writeWorkbook(t, langs, map[string][][]any{
		"langs": {
			{"uri", "name", "iso639-1", "idwd"},
			{"http://id.loc.gov/vocabulary/iso639-1/pl", "polski", "PL", "Q809"},
		},
		"errors": {
			{"is", "shouldbe"},
			{"PO", "PL"},
		},
	})

	places := filepath.Join(dir, "places.xlsx")
	writeWorkbook(t, places, map[string][][]any{
		"yaz-place-list": {
			{"city", "geonameid", "publisher"},
			{"Kraków", "3094802", "WL"},
		},
	})

	recoDir := filepath.Join(dir, "reconciled")
	require.NoError(t, os.MkdirAll(recoDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(recoDir, "people.tsv"),
		[]byte("uri\tidwd\nhttp://lkg.org.pl/entity/E21_lem-s.pl\tQ581\n"), 0o644))

	return &config.Config{
		Workbook: workbook,
		Reference: config.ReferenceConfig{
			Types:     types,
			Languages: langs,
			Places:    places,
		},
		Gazetteer: config.GazetteerConfig{
			CachePath: filepath.Join(dir, "geocache.json"),
		},
		Enrich: config.EnrichConfig{Dir: recoDir, Pattern: "*.tsv"},
		Output: config.OutputConfig{
			GraphPath:        filepath.Join(dir, "output", "lkg.ttl"),
			Format:           "turtle",
			UnresolvedReport: filepath.Join(dir, "output", "cities_new.xlsx"),
		},
		Sheets: []config.SheetSchema{{
			Name:     "PL",
			Prefix:   "NFPL",
			Language: "PL",
			Columns: map[string]string{
				"main":        "is_main",
				"id":          "yid_main",
				"sub":         "yid_sub",
				"title":       "title",
				"author":      "author",
				"translators": "translators",
				"publisher":   "publisher",
				"pub_info":    "pub_info",
				"type":        "type",
				"refs":        "refs",
			},
			Rows:     config.RowRange{Start: 1},
			Combined: &config.CombinedRule{Field: "pub_info", PageMarks: []string{"s"}},
		}},
	}
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())

	p := New(cfg, nil)
	require.NoError(t, p.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output.GraphPath)
	require.NoError(t, err)
	ttl := string(data)

	// Both records became expressions keyed by their own ids, and the
	// "↑329" reference resolved to the real record, which anchors the
	// shared work. Nothing is keyed by row position.
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/F2_NFPL329>")
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/F2_NFPL330>")
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/F1_NFPL329>")
	assert.NotContains(t, ttl, "entity/F1_NFPL330>")
	assert.NotContains(t, ttl, "entity/F2_NFPL1>")
	assert.NotContains(t, ttl, "entity/F2_NFPL2>")
	assert.Contains(t, ttl, "R76_is_derivative_of")

	// The unmarked filler row between the records produced nothing.
	assert.NotContains(t, ttl, "ciąg dalszy")

	// Resolved vocabulary targets.
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/E55_E>")
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/E56_PL>")
	assert.Contains(t, ttl, "<http://lkg.org.pl/entity/E53_GN3094802>")

	// Periodical appearance of the second record.
	assert.Contains(t, ttl, "entity/F3_J_wyd.1960.3>")

	// Enrichment attached the reconciled identity.
	assert.Contains(t, ttl, "<http://www.wikidata.org/entity/Q581>")

	// The unknown place landed in the curation report.
	f, err := excelize.OpenFile(cfg.Output.UnresolvedReport)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("unresolved")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Atlantyda", rows[1][0])
}

func TestPipelineRunDeterministic(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil)
	require.NoError(t, p.Run(context.Background()))
	first, err := os.ReadFile(cfg.Output.GraphPath)
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))
	second, err := os.ReadFile(cfg.Output.GraphPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestPipelineEnrichGraph(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil)
	require.NoError(t, p.Run(context.Background()))

	require.NoError(t, p.EnrichGraph())

	data, err := os.ReadFile(cfg.Output.GraphPath)
	require.NoError(t, err)
	assert.Contains(t, string(data),
		"<http://lkg.org.pl/entity/E21_lem-s.pl> <http://www.w3.org/2002/07/owl#sameAs> <http://www.wikidata.org/entity/Q581> .")
}

func TestPipelineRunMissingVocabulary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reference.Types = filepath.Join(t.TempDir(), "nope.xlsx")

	err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load reference tables")
}
