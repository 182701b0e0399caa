package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "PL"))
	require.NoError(t, f.SetCellValue("PL", "A1", "polski:"))
	require.NoError(t, f.SetCellValue("PL", "B1", "tytuł"))
	require.NoError(t, f.SetCellValue("PL", "A2", "  Dialogi  "))
	require.NoError(t, f.SetCellValue("PL", "B2", "Kraków:\nWL"))

	_, err := f.NewSheet("EN")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("EN", "A1", "english:"))

	path := filepath.Join(t.TempDir(), "bib.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestWorkbook(t)

	wb, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"PL", "EN"}, wb.SheetNames())

	pl, ok := wb.Sheet("PL")
	require.True(t, ok)
	require.Len(t, pl.Rows, 2)

	assert.Equal(t, 0, pl.Rows[0].Index)
	assert.Equal(t, "polski:", pl.Rows[0].Cell(0))
	assert.Equal(t, "Dialogi", pl.Rows[1].Cell(0))
	assert.Equal(t, "Kraków: WL", pl.Rows[1].Cell(1))

	_, ok = wb.Sheet("RU")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.xlsx")
	require.Error(t, err)
}

func TestRowCellOutOfRange(t *testing.T) {
	r := Row{Index: 3, Cells: []string{"a"}}
	assert.Equal(t, "a", r.Cell(0))
	assert.Equal(t, "", r.Cell(1))
	assert.Equal(t, "", r.Cell(-1))
}

func TestSheetHeaderIndex(t *testing.T) {
	s := &Sheet{Rows: []Row{{Cells: []string{"id", "miasto"}}}}

	i, ok := s.HeaderIndex("miasto")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.HeaderIndex("kraj")
	assert.False(t, ok)
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "a b", CleanCell("  a \u00a0 b\n"))
	assert.Equal(t, "", CleanCell("   "))
}
