// Package source provides the raw workbook model: sheets of ordered rows
// as they appear in the xlsx database, before any schema is applied.
package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one raw sheet row. Index is the zero-based position within the
// sheet, including heading rows; schemas gate out non-data rows by range.
type Row struct {
	Index int
	Cells []string
}

// Cell returns the cleaned cell value at a column, or "" when the row is
// shorter than the requested column.
func (r Row) Cell(col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return r.Cells[col]
}

// Sheet is one worksheet of the source workbook.
type Sheet struct {
	Name string
	Rows []Row
}

// HeaderIndex returns the column index whose heading (row 0) matches the
// given label.
func (s *Sheet) HeaderIndex(label string) (int, bool) {
	if len(s.Rows) == 0 {
		return 0, false
	}
	for i, cell := range s.Rows[0].Cells {
		if cell == label {
			return i, true
		}
	}
	return 0, false
}

// Workbook is a fully-loaded xlsx file.
type Workbook struct {
	Path   string
	sheets map[string]*Sheet
	order  []string
}

// Sheet returns the named worksheet.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

// SheetNames returns the worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.order
}

// Load reads a whole xlsx workbook into memory. Cell values are cleaned
// of irregular whitespace on the way in.
func Load(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{
		Path:   path,
		sheets: make(map[string]*Sheet),
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}

		sheet := &Sheet{Name: name, Rows: make([]Row, len(rows))}
		for i, cells := range rows {
			cleaned := make([]string, len(cells))
			for j, cell := range cells {
				cleaned[j] = CleanCell(cell)
			}
			sheet.Rows[i] = Row{Index: i, Cells: cleaned}
		}

		wb.sheets[name] = sheet
		wb.order = append(wb.order, name)
	}

	return wb, nil
}

// CleanCell collapses runs of whitespace (including non-breaking spaces
// and newlines pasted into cells) into single spaces and trims the ends.
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
