package reference

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/litkg/litkg/config"
)

func writeTypesWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "types"))
	require.NoError(t, f.SetCellValue("types", "A1", "type"))
	require.NoError(t, f.SetCellValue("types", "B1", "label"))
	require.NoError(t, f.SetCellValue("types", "A2", "E"))
	require.NoError(t, f.SetCellValue("types", "B2", "essay"))
	require.NoError(t, f.SetCellValue("types", "A3", "W"))
	require.NoError(t, f.SetCellValue("types", "B3", "interview"))
	path := filepath.Join(dir, "types.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeLangsWorkbook(t *testing.T, dir string, overrides [][2]string) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "langs"))
	header := []string{"uri", "name", "iso639-1", "iso639-3", "idwd"}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("langs", cell, h))
	}
	rows := [][]string{
		{"E56_PL", "polski", "pl", "pol", "Q809"},
		{"E56_RU", "русский", "ru", "rus", "Q7737"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("langs", cell, v))
		}
	}

	_, err := f.NewSheet("errors")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("errors", "A1", "is"))
	require.NoError(t, f.SetCellValue("errors", "B1", "shouldbe"))
	for i, ov := range overrides {
		cellA, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		cellB, err := excelize.CoordinatesToCellName(2, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("errors", cellA, ov[0]))
		require.NoError(t, f.SetCellValue("errors", cellB, ov[1]))
	}

	path := filepath.Join(dir, "langs.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writePlacesWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "yaz-place-list"))
	require.NoError(t, f.SetCellValue("yaz-place-list", "A1", "city"))
	require.NoError(t, f.SetCellValue("yaz-place-list", "B1", "geonameid"))
	require.NoError(t, f.SetCellValue("yaz-place-list", "C1", "publisher"))

	rows := [][]string{
		{"Warszawa", "756135", "Czytelnik"},
		{"Warszawa, Kraków", "756135 3094802", "WL"},
		{"Frankfurt am Main", "2925533", "Suhrkamp"},
		{"Mismatched, Pair", "111 222 333", ""},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("yaz-place-list", cell, v))
		}
	}

	path := filepath.Join(dir, "cities.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func loadTestTables(t *testing.T, overrides [][2]string) *Tables {
	t.Helper()
	dir := t.TempDir()
	cfg := config.ReferenceConfig{
		Types:     writeTypesWorkbook(t, dir),
		Languages: writeLangsWorkbook(t, dir, overrides),
		Places:    writePlacesWorkbook(t, dir),
	}
	tables, err := Load(cfg, nil)
	require.NoError(t, err)
	return tables
}

func TestLookupType(t *testing.T) {
	tables := loadTestTables(t, nil)

	entry, err := tables.LookupType("E")
	require.NoError(t, err)
	assert.Equal(t, "essay", entry.Label)
	assert.Equal(t, "E55_E", entry.GraphID)

	_, err = tables.LookupType("nope")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestLookupLanguageOverridePrecedence(t *testing.T) {
	// "RU" is canonical but the override table redirects it; the
	// override must win.
	tables := loadTestTables(t, [][2]string{{"ru", "pl"}, {"PO", "PL"}})

	entry, err := tables.LookupLanguage("RU")
	require.NoError(t, err)
	assert.Equal(t, "PL", entry.Code)

	entry, err = tables.LookupLanguage("po")
	require.NoError(t, err)
	assert.Equal(t, "PL", entry.Code)

	_, err = tables.LookupLanguage("XX")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestLoadRejectsUnknownOverrideTarget(t *testing.T) {
	dir := t.TempDir()
	cfg := config.ReferenceConfig{
		Types:     writeTypesWorkbook(t, dir),
		Languages: writeLangsWorkbook(t, dir, [][2]string{{"PO", "XX"}}),
		Places:    writePlacesWorkbook(t, dir),
	}
	_, err := Load(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "override target")
}

func TestLookupLanguageNoLang(t *testing.T) {
	tables := loadTestTables(t, nil)

	entry, err := tables.LookupLanguage("nolang")
	require.NoError(t, err)
	assert.Equal(t, NoLanguage, entry.Code)
}

func TestLookupPlacePairing(t *testing.T) {
	tables := loadTestTables(t, nil)

	places, err := tables.LookupPlace("Warszawa, Kraków")
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, Place{Name: "Warszawa", GeonamesID: "756135"}, places[0])
	assert.Equal(t, Place{Name: "Kraków", GeonamesID: "3094802"}, places[1])

	// A single-id entry keeps the whole string as one name, commas or not.
	places, err = tables.LookupPlace("Frankfurt am Main")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "2925533", places[0].GeonamesID)

	_, err = tables.LookupPlace("Atlantis")
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.True(t, errors.Is(err, ErrUnresolved))

	// Name/id count mismatch fails closed.
	_, err = tables.LookupPlace("Mismatched, Pair")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestPublisherContext(t *testing.T) {
	tables := loadTestTables(t, nil)
	assert.Equal(t, "Czytelnik", tables.PublisherContext("Warszawa"))
	assert.Equal(t, "", tables.PublisherContext("Atlantis"))
}

func TestGeonamesIDs(t *testing.T) {
	tables := loadTestTables(t, nil)
	ids := tables.GeonamesIDs()
	assert.ElementsMatch(t, []string{"756135", "3094802", "2925533"}, ids)
}
