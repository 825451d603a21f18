// =============================================================================
// Registration Backfill - Typed Table
// =============================================================================
//
// This package holds the in-memory representation of a worksheet after it
// has been loaded: an ordered list of column names, a declared kind per
// column, and a slice of rows whose cells are nullable typed values.
//
// A table can carry a lookup key per row (see CopyAsIndex). Keys are not
// required to be unique; the cataloging box list legitimately repeats the
// same order-serial once per registered copy.
//
// =============================================================================

package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotText is returned when a string operation is requested on a column
// that was not declared as text.
var ErrNotText = errors.New("column is not text-typed")

// ErrNoColumn is returned when a named column does not exist in the table.
var ErrNoColumn = errors.New("column not found")

// =============================================================================
// ROW
// =============================================================================

// Row is a single record. Cells missing from the map are null.
type Row struct {
	// Key is the lookup key assigned by CopyAsIndex.
	Key string

	// HasKey is false when the source column of the key was null.
	HasKey bool

	// Cells holds the values by column name.
	Cells map[string]Value
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{Cells: make(map[string]Value)}
}

// Get returns the value for a column. A missing column yields a null value.
func (r Row) Get(col string) Value {
	return r.Cells[col]
}

// Set stores a value for a column.
func (r Row) Set(col string, v Value) {
	r.Cells[col] = v
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := Row{Key: r.Key, HasKey: r.HasKey, Cells: make(map[string]Value, len(r.Cells))}
	for k, v := range r.Cells {
		out.Cells[k] = v
	}
	return out
}

// Project returns a copy of the row that only keeps the listed columns.
// Every other column becomes null.
func (r Row) Project(cols []string) Row {
	out := Row{Key: r.Key, HasKey: r.HasKey, Cells: make(map[string]Value, len(cols))}
	for _, c := range cols {
		if v, ok := r.Cells[c]; ok {
			out.Cells[c] = v
		}
	}
	return out
}

// =============================================================================
// TABLE
// =============================================================================

// Table is an ordered, typed set of rows.
type Table struct {
	// Name is the sheet name the table was read from (diagnostics only).
	Name string

	// Columns is the column order used when writing the table.
	Columns []string

	// Kinds maps column name to declared kind. Columns without an entry are
	// treated as text.
	Kinds map[string]Kind

	// Rows holds the records in sheet order.
	Rows []Row
}

// New creates an empty table with the given columns and kinds.
func New(name string, columns []string, kinds map[string]Kind) *Table {
	if kinds == nil {
		kinds = make(map[string]Kind)
	}
	return &Table{
		Name:    name,
		Columns: slices.Clone(columns),
		Kinds:   kinds,
	}
}

// KindOf returns the declared kind of a column.
func (t *Table) KindOf(col string) Kind {
	if k, ok := t.Kinds[col]; ok {
		return k
	}
	return KindString
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds rows to the end of the table.
func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Empty returns a table with the same shape and no rows.
func (t *Table) Empty() *Table {
	kinds := make(map[string]Kind, len(t.Kinds))
	for k, v := range t.Kinds {
		kinds[k] = v
	}
	return New(t.Name, t.Columns, kinds)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := t.Empty()
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Concat appends the rows of other. Columns of other that are unknown to t
// are added at the end, in other's order.
func (t *Table) Concat(other *Table) {
	for _, c := range other.Columns {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
			if k, ok := other.Kinds[c]; ok {
				t.Kinds[c] = k
			}
		}
	}
	for _, r := range other.Rows {
		t.Rows = append(t.Rows, r.Clone())
	}
}

// =============================================================================
// KEY LOOKUP
// =============================================================================

// Select returns copies of every row whose key equals key, in table order.
func (t *Table) Select(key string) []Row {
	var out []Row
	for _, r := range t.Rows {
		if r.HasKey && r.Key == key {
			out = append(out, r.Clone())
		}
	}
	return out
}

// RemoveKey deletes every row whose key equals key and returns how many
// rows were removed.
func (t *Table) RemoveKey(key string) int {
	before := len(t.Rows)
	t.Rows = slices.DeleteFunc(t.Rows, func(r Row) bool {
		return r.HasKey && r.Key == key
	})
	return before - len(t.Rows)
}

// Keys returns the keys of all keyed rows in table order. Duplicates are
// kept.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.HasKey {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// TruncateAfterLastKey drops every row after the last row whose col value
// is non-null. Sheets often carry a totals line or notes below the data.
func (t *Table) TruncateAfterLastKey(col string) error {
	if !t.HasColumn(col) {
		return fmt.Errorf("%w: %q in sheet %q", ErrNoColumn, col, t.Name)
	}
	last := -1
	for i, r := range t.Rows {
		if !r.Get(col).IsNull() {
			last = i
		}
	}
	t.Rows = t.Rows[:last+1]
	return nil
}
