// =============================================================================
// Registration Backfill - Workbook Reader
// =============================================================================
//
// This module loads worksheets into typed tables. A layout (see the schema
// package) tells the reader:
//   - which sheet to read (or every sheet)
//   - which row holds the column headers
//   - which columns to expect and how to type them
//
// LOADING RULES:
//   - Cells are read raw (no number formatting applied by the spreadsheet).
//   - Fully empty rows are skipped.
//   - Columns with an empty header are ignored.
//   - A header set that differs from the expected set is reported as a
//     warning, never as a failure.
//   - A cell that cannot be parsed as its declared kind is an error that
//     names the sheet, row and column.
//
// =============================================================================

package workbook

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/registration-backfill/internal/schema"
	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// ErrSheetNotFound is returned when a required worksheet is absent.
var ErrSheetNotFound = errors.New("worksheet not found")

// ErrNoHeader is returned when a worksheet ends before its header row,
// typically a blank sheet.
var ErrNoHeader = errors.New("worksheet has no header row")

// =============================================================================
// COLUMN DIFF
// =============================================================================

// ColumnDiff describes how a loaded header differs from the expected one.
type ColumnDiff struct {
	// Sheet is the worksheet the header was read from.
	Sheet string

	// Missing lists expected columns that are absent.
	Missing []string

	// Unexpected lists columns present in the sheet but not expected.
	Unexpected []string
}

// Empty reports whether the header matched exactly.
func (d ColumnDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Unexpected) == 0
}

// CompareColumns returns the symmetric difference between the expected and
// actual column sets, sorted for stable output.
func CompareColumns(sheet string, expected, actual []string) ColumnDiff {
	diff := ColumnDiff{Sheet: sheet}
	for _, c := range expected {
		if !slices.Contains(actual, c) {
			diff.Missing = append(diff.Missing, c)
		}
	}
	for _, c := range actual {
		if !slices.Contains(expected, c) {
			diff.Unexpected = append(diff.Unexpected, c)
		}
	}
	sort.Strings(diff.Missing)
	sort.Strings(diff.Unexpected)
	return diff
}

// =============================================================================
// READER
// =============================================================================

// Reader wraps an open workbook.
type Reader struct {
	path string
	file *excelize.File
	log  zerolog.Logger
}

// Open opens the workbook at path.
func Open(path string, log zerolog.Logger) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Reader{path: path, file: f, log: log}, nil
}

// Close releases the workbook.
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetNames returns the worksheet names in workbook order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// HasSheet reports whether the workbook contains a sheet named name.
func (r *Reader) HasSheet(name string) bool {
	return slices.Contains(r.SheetNames(), name)
}

// ReadSheet loads one worksheet using the header row and column kinds of
// layout. The returned diff is empty when the header matched exactly.
func (r *Reader) ReadSheet(sheet string, layout schema.Layout) (*table.Table, ColumnDiff, error) {
	if !r.HasSheet(sheet) {
		return nil, ColumnDiff{}, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, r.path)
	}

	rows, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, ColumnDiff{}, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}
	if len(rows) <= layout.HeaderRow {
		return nil, ColumnDiff{}, fmt.Errorf("%w: sheet %q row %d", ErrNoHeader, sheet, layout.HeaderRow+1)
	}

	// Map cell positions to header names, skipping blank headers.
	header := rows[layout.HeaderRow]
	positions := make(map[int]string, len(header))
	var columns []string
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" || slices.Contains(columns, name) {
			continue
		}
		positions[i] = name
		columns = append(columns, name)
	}

	kinds := make(map[string]table.Kind, len(layout.Kinds))
	for col, k := range layout.Kinds {
		kinds[col] = k
	}
	tbl := table.New(sheet, columns, kinds)

	for i := layout.HeaderRow + 1; i < len(rows); i++ {
		raw := rows[i]
		if isRowEmpty(raw) {
			continue
		}
		row := table.NewRow()
		for pos, col := range positions {
			if pos >= len(raw) {
				continue
			}
			v, err := table.Parse(raw[pos], tbl.KindOf(col))
			if err != nil {
				cell, _ := excelize.CoordinatesToCellName(pos+1, i+1)
				return nil, ColumnDiff{}, fmt.Errorf("sheet %q cell %s (%s): %w", sheet, cell, col, err)
			}
			if !v.IsNull() {
				row.Set(col, v)
			}
		}
		tbl.Append(row)
	}

	diff := CompareColumns(sheet, layout.Columns, columns)
	if !diff.Empty() {
		r.log.Warn().
			Str("sheet", sheet).
			Strs("missing", diff.Missing).
			Strs("unexpected", diff.Unexpected).
			Msg("column names differ from the expected layout")
	}
	r.log.Info().Str("sheet", sheet).Int("rows", tbl.Len()).Msg("sheet loaded")

	return tbl, diff, nil
}

// =============================================================================
// DOCUMENT LOADERS
// =============================================================================

// ReadDelivery loads the delivery list. The sheet named by the layout must
// exist.
func ReadDelivery(path string, layout schema.Layout, log zerolog.Logger) (*table.Table, []ColumnDiff, error) {
	r, err := Open(path, log)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	if !r.HasSheet(layout.Sheet) {
		return nil, nil, fmt.Errorf("%w: delivery sheet %q in %s", ErrSheetNotFound, layout.Sheet, path)
	}
	tbl, diff, err := r.ReadSheet(layout.Sheet, layout)
	if err != nil {
		return nil, nil, err
	}
	return tbl, nonEmpty(diff), nil
}

// ReadCatalog loads the cataloging box list. When the layout names no sheet
// every sheet is read and the rows are concatenated in workbook order;
// sheets without a header row (blank sheets) are skipped with a warning.
func ReadCatalog(path string, layout schema.Layout, log zerolog.Logger) (*table.Table, []ColumnDiff, error) {
	r, err := Open(path, log)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	sheets := r.SheetNames()
	if layout.Sheet != "" {
		sheets = []string{layout.Sheet}
	}
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: catalog workbook %s has no sheets", ErrSheetNotFound, path)
	}

	var (
		merged *table.Table
		diffs  []ColumnDiff
	)
	for _, sheet := range sheets {
		tbl, diff, err := r.ReadSheet(sheet, layout)
		if errors.Is(err, ErrNoHeader) && layout.Sheet == "" {
			log.Warn().Str("sheet", sheet).Msg("sheet has no header row, skipped")
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		diffs = append(diffs, nonEmpty(diff)...)
		if merged == nil {
			merged = tbl
			continue
		}
		merged.Concat(tbl)
	}
	if merged == nil {
		return nil, nil, fmt.Errorf("%w: catalog workbook %s has no sheet with a header row", ErrSheetNotFound, path)
	}
	merged.Name = "編目箱單"
	return merged, diffs, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func nonEmpty(d ColumnDiff) []ColumnDiff {
	if d.Empty() {
		return nil
	}
	return []ColumnDiff{d}
}
