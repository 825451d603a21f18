// =============================================================================
// Registration Backfill - Workbook Writer
// =============================================================================
//
// Writes one table to a single-sheet workbook through an excelize
// StreamWriter. Row 1 is the header; data starts on row 2.
//
// =============================================================================

package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// WriteSheet writes t to a new workbook at path with a single sheet. The
// first row is the header; null cells are left blank.
func WriteSheet(path, sheet string, t *table.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			values[j] = row.Get(c).Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
