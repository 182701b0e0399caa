// Package report writes the curation artifacts a pipeline run produces
// for human follow-up.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/litkg/litkg/resolve"
)

// UnresolvedSheet is the sheet holding the place strings that need a
// vocabulary entry.
const UnresolvedSheet = "unresolved"

// runSheet records which run produced the workbook.
const runSheet = "run"

// WriteUnresolvedPlaces writes a workbook listing every distinct
// unresolved (place, publisher) pair with its occurrence count, in
// first-seen order, ready to be curated into the place vocabulary.
func WriteUnresolvedPlaces(path string, places []resolve.UnresolvedPlace, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", UnresolvedSheet)
	headers := []string{"city", "publisher", "count", "geonameid"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(UnresolvedSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, p := range places {
		row := i + 2
		cells := []any{p.Place, p.Publisher, p.Count, ""}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(UnresolvedSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	runID := uuid.NewString()
	if _, err := f.NewSheet(runSheet); err != nil {
		return fmt.Errorf("create run sheet: %w", err)
	}
	f.SetCellValue(runSheet, "A1", "run_id")
	f.SetCellValue(runSheet, "B1", runID)
	f.SetCellValue(runSheet, "A2", "generated_at")
	f.SetCellValue(runSheet, "B2", time.Now().UTC().Format(time.RFC3339))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	logger.Info("Wrote unresolved place report",
		slog.String("path", path),
		slog.Int("places", len(places)),
		slog.String("run_id", runID))
	return nil
}
