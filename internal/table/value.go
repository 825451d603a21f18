// =============================================================================
// Registration Backfill - Cell Values
// =============================================================================
//
// A Value is one nullable cell: text, whole number or decimal amount.
// Spreadsheet text is converted with Parse using the column's declared kind.
//
// =============================================================================

package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the declared type of a column.
type Kind int

const (
	// KindString holds free text.
	KindString Kind = iota
	// KindInt holds whole numbers (counts, serials, box numbers).
	KindInt
	// KindDecimal holds currency amounts.
	KindDecimal
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a nullable typed cell. The zero value is null.
type Value struct {
	kind  Kind
	valid bool
	str   string
	num   int64
	dec   decimal.Decimal
}

// Null returns a null value.
func Null() Value { return Value{} }

// String returns a non-null text value.
func String(s string) Value { return Value{kind: KindString, valid: true, str: s} }

// Int returns a non-null integer value.
func Int(n int64) Value { return Value{kind: KindInt, valid: true, num: n} }

// Decimal returns a non-null decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, valid: true, dec: d} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.valid }

// Kind returns the kind of a non-null value.
func (v Value) Kind() Kind { return v.kind }

// Text returns the value rendered as text and false when null.
func (v Value) Text() (string, bool) {
	if !v.valid {
		return "", false
	}
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10), true
	case KindDecimal:
		return v.dec.String(), true
	default:
		return v.str, true
	}
}

// IntValue returns the value as an integer and false when null or not
// numeric.
func (v Value) IntValue() (int64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindDecimal:
		return v.dec.IntPart(), true
	default:
		n, err := parseInt(v.str)
		return n, err == nil
	}
}

// DecimalValue returns the value as a decimal and false when null or not
// numeric.
func (v Value) DecimalValue() (decimal.Decimal, bool) {
	if !v.valid {
		return decimal.Zero, false
	}
	switch v.kind {
	case KindInt:
		return decimal.NewFromInt(v.num), true
	case KindDecimal:
		return v.dec, true
	default:
		d, err := decimal.NewFromString(strings.TrimSpace(v.str))
		return d, err == nil
	}
}

// Equal compares two values by kind and content. Two nulls are equal.
func (v Value) Equal(o Value) bool {
	if !v.valid || !o.valid {
		return v.valid == o.valid
	}
	if v.kind != o.kind {
		a, _ := v.Text()
		b, _ := o.Text()
		return a == b
	}
	switch v.kind {
	case KindInt:
		return v.num == o.num
	case KindDecimal:
		return v.dec.Equal(o.dec)
	default:
		return v.str == o.str
	}
}

// Interface returns the value as a plain Go value suitable for a
// spreadsheet writer: nil, string, int64 or float64.
func (v Value) Interface() any {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case KindInt:
		return v.num
	case KindDecimal:
		f, _ := v.dec.Float64()
		return f
	default:
		return v.str
	}
}

// String implements fmt.Stringer. Null renders as <NA>.
func (v Value) String() string {
	s, ok := v.Text()
	if !ok {
		return "<NA>"
	}
	return s
}

// Parse converts raw cell text into a value of the given kind. Empty or
// whitespace-only input is null for numeric kinds and for text.
func Parse(raw string, kind Kind) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return Null(), nil
	}
	switch kind {
	case KindInt:
		n, err := parseInt(raw)
		if err != nil {
			return Null(), fmt.Errorf("parse %q as int: %w", raw, err)
		}
		return Int(n), nil
	case KindDecimal:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return Null(), fmt.Errorf("parse %q as decimal: %w", raw, err)
		}
		return Decimal(d), nil
	default:
		return String(raw), nil
	}
}

// parseInt accepts plain integers and floats without a fractional part
// ("12", "12.0"), which is how spreadsheets commonly store whole numbers.
func parseInt(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%q has a fractional part", raw)
	}
	return d.IntPart(), nil
}
