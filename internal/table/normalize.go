// =============================================================================
// Registration Backfill - Normalization and Indexing
// =============================================================================
//
// Order-serial keys are rendered as 4-digit zero-padded text ("0005") in
// both documents so integer and text cells compare equal.
//
// =============================================================================

package table

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyWidth is the zero-padded width of an order-serial key.
const KeyWidth = 4

// TrimColumn replaces every non-null value of a text column with its
// whitespace-trimmed form. Nulls pass through. Trimming an already trimmed
// column is a no-op.
func (t *Table) TrimColumn(col string) error {
	if !t.HasColumn(col) {
		return fmt.Errorf("%w: %q in sheet %q", ErrNoColumn, col, t.Name)
	}
	if t.KindOf(col) != KindString {
		return fmt.Errorf("%w: %q in sheet %q is %s", ErrNotText, col, t.Name, t.KindOf(col))
	}
	for _, r := range t.Rows {
		v := r.Get(col)
		s, ok := v.Text()
		if !ok {
			continue
		}
		r.Set(col, String(strings.TrimSpace(s)))
	}
	return nil
}

// CopyAsIndex copies the values of col into each row's lookup key. The
// source column is kept. Uniqueness is not enforced.
func (t *Table) CopyAsIndex(col string) error {
	if !t.HasColumn(col) {
		return fmt.Errorf("%w: %q in sheet %q", ErrNoColumn, col, t.Name)
	}
	for i := range t.Rows {
		key, ok := FormatKey(t.Rows[i].Get(col))
		t.Rows[i].Key = key
		t.Rows[i].HasKey = ok
	}
	return nil
}

// FormatKey renders an order-serial value in its canonical key form.
// Integers (and integer-looking text) are zero-padded to KeyWidth digits;
// any other text is trimmed and used as-is.
func FormatKey(v Value) (string, bool) {
	if v.IsNull() {
		return "", false
	}
	if n, ok := v.IntValue(); ok {
		return PadKey(n), true
	}
	s, _ := v.Text()
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// PadKey zero-pads n to KeyWidth digits. A negative number keeps its sign
// in front of the padding ("-0005").
func PadKey(n int64) string {
	sign := ""
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) < KeyWidth {
		s = strings.Repeat("0", KeyWidth-len(s)) + s
	}
	return sign + s
}
