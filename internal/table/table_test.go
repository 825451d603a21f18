package table

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooks(t *testing.T) *Table {
	t.Helper()
	tbl := New("books", []string{"sn", "title", "price"}, map[string]Kind{
		"sn":    KindInt,
		"title": KindString,
		"price": KindDecimal,
	})
	rows := []struct {
		sn    Value
		title Value
	}{
		{Int(5), String("  Moby Dick ")},
		{Int(6), Null()},
		{Int(6), String("Ulysses\t")},
		{Null(), String("note")},
	}
	for _, r := range rows {
		row := NewRow()
		row.Set("sn", r.sn)
		row.Set("title", r.title)
		tbl.Append(row)
	}
	return tbl
}

func TestTrimColumn(t *testing.T) {
	tbl := newBooks(t)

	require.NoError(t, tbl.TrimColumn("title"))

	got, ok := tbl.Rows[0].Get("title").Text()
	assert.True(t, ok)
	assert.Equal(t, "Moby Dick", got)
	assert.True(t, tbl.Rows[1].Get("title").IsNull(), "null must pass through")
	got, _ = tbl.Rows[2].Get("title").Text()
	assert.Equal(t, "Ulysses", got)
}

func TestTrimColumn_Idempotent(t *testing.T) {
	tbl := newBooks(t)
	require.NoError(t, tbl.TrimColumn("title"))
	once := tbl.Clone()

	require.NoError(t, tbl.TrimColumn("title"))

	for i := range once.Rows {
		assert.True(t, once.Rows[i].Get("title").Equal(tbl.Rows[i].Get("title")))
	}
}

func TestTrimColumn_Errors(t *testing.T) {
	tbl := newBooks(t)

	assert.ErrorIs(t, tbl.TrimColumn("sn"), ErrNotText)
	assert.ErrorIs(t, tbl.TrimColumn("missing"), ErrNoColumn)
}

func TestCopyAsIndex(t *testing.T) {
	tbl := newBooks(t)

	require.NoError(t, tbl.CopyAsIndex("sn"))

	assert.Equal(t, []string{"0005", "0006", "0006"}, tbl.Keys())
	assert.False(t, tbl.Rows[3].HasKey)
	n, ok := tbl.Rows[0].Get("sn").IntValue()
	assert.True(t, ok, "source column must be kept")
	assert.Equal(t, int64(5), n)
}

func TestSelectAndRemoveKey(t *testing.T) {
	tbl := newBooks(t)
	require.NoError(t, tbl.CopyAsIndex("sn"))

	sel := tbl.Select("0006")
	require.Len(t, sel, 2)
	sel[0].Set("title", String("changed"))
	assert.True(t, tbl.Rows[1].Get("title").IsNull(), "Select must return copies")

	assert.Equal(t, 2, tbl.RemoveKey("0006"))
	assert.Equal(t, 2, tbl.Len())
	assert.Empty(t, tbl.Select("0006"))
	assert.Equal(t, 0, tbl.RemoveKey("0006"))
}

func TestTruncateAfterLastKey(t *testing.T) {
	tbl := newBooks(t)

	require.NoError(t, tbl.TruncateAfterLastKey("sn"))

	assert.Equal(t, 3, tbl.Len())
}

func TestProject(t *testing.T) {
	row := NewRow()
	row.Set("a", String("x"))
	row.Set("b", Int(2))

	p := row.Project([]string{"a", "c"})

	assert.Equal(t, "x", p.Get("a").String())
	assert.True(t, p.Get("b").IsNull())
	assert.True(t, p.Get("c").IsNull())
}

func TestConcat(t *testing.T) {
	a := New("s1", []string{"x"}, nil)
	b := New("s2", []string{"x", "y"}, map[string]Kind{"y": KindInt})
	r := NewRow()
	r.Set("y", Int(1))
	b.Append(r)

	a.Concat(b)

	assert.Equal(t, []string{"x", "y"}, a.Columns)
	assert.Equal(t, KindInt, a.KindOf("y"))
	assert.Equal(t, 1, a.Len())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		want Value
		err  bool
	}{
		{name: "blank is null", raw: "  ", kind: KindInt, want: Null()},
		{name: "int", raw: "12", kind: KindInt, want: Int(12)},
		{name: "float-looking int", raw: "12.0", kind: KindInt, want: Int(12)},
		{name: "fractional int", raw: "12.5", kind: KindInt, err: true},
		{name: "decimal", raw: "100.25", kind: KindDecimal, want: Decimal(decimal.RequireFromString("100.25"))},
		{name: "text kept verbatim", raw: " a ", kind: KindString, want: String(" a ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, tt.kind)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestFormatKey(t *testing.T) {
	k, ok := FormatKey(String(" 7 "))
	assert.True(t, ok)
	assert.Equal(t, "0007", k)

	k, ok = FormatKey(Int(12345))
	assert.True(t, ok)
	assert.Equal(t, "12345", k)

	_, ok = FormatKey(Null())
	assert.False(t, ok)
}

func TestPadKey(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0000"},
		{5, "0005"},
		{1234, "1234"},
		{12345, "12345"},
		{-5, "-0005"},
		{-12345, "-12345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PadKey(tt.n), "PadKey(%d)", tt.n)
	}
}
