package reconcile

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/registration-backfill/internal/schema"
	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// order describes one delivery line.
type order struct {
	serial   int64
	title    string
	isbn     string
	total    int64
	volumes  int64
	quantity int64
	subtotal string
}

// copyRow describes one catalog row.
type copyRow struct {
	serial int64
	regNo  string
	title  string
	isbn   string
	part   string
	box    int64
}

func deliveryTable(t *testing.T, orders ...order) *table.Table {
	t.Helper()
	l := schema.Delivery()
	tbl := table.New(l.Sheet, l.Columns, l.Kinds)
	for _, o := range orders {
		row := table.NewRow()
		row.Set(schema.ColOrderSerial, table.Int(o.serial))
		row.Set(schema.ColTitle, table.String(o.title))
		if o.isbn != "" {
			row.Set(schema.ColISBN, table.String(o.isbn))
		}
		row.Set(schema.ColTotalCopies, table.Int(o.total))
		row.Set(schema.ColVolumes, table.Int(o.volumes))
		row.Set(schema.ColQuantity, table.Int(o.quantity))
		row.Set(schema.ColListPrice, table.Int(300))
		if o.subtotal != "" {
			row.Set(schema.ColSubtotal, table.Decimal(decimal.RequireFromString(o.subtotal)))
		}
		row.Set(schema.ColLocation, table.String("OLD"))
		tbl.Append(row)
	}
	require.NoError(t, tbl.CopyAsIndex(schema.ColOrderSerial))
	return tbl
}

func catalogTable(t *testing.T, copies ...copyRow) *table.Table {
	t.Helper()
	l := schema.Catalog()
	tbl := table.New("編目箱單", l.Columns, l.Kinds)
	for _, c := range copies {
		row := table.NewRow()
		row.Set(schema.CatOrderSerial, table.Int(c.serial))
		if c.regNo != "" {
			row.Set(schema.CatRegNo, table.String(c.regNo))
		}
		if c.title != "" {
			row.Set(schema.CatBibliography, table.String(c.title))
		}
		if c.isbn != "" {
			row.Set(schema.CatISBN, table.String(c.isbn))
		}
		if c.part != "" {
			row.Set(schema.CatVolumePart, table.String(c.part))
		}
		if c.box != 0 {
			row.Set(schema.CatBoxNo, table.Int(c.box))
		}
		row.Set(schema.CatLocation, table.String("MAIN"))
		tbl.Append(row)
	}
	require.NoError(t, tbl.CopyAsIndex(schema.CatOrderSerial))
	return tbl
}

func newWorkset(d, c *table.Table) *Workset {
	return &Workset{Delivery: d, Catalog: c}
}

func TestReconcileOne_Normal(t *testing.T) {
	ws := newWorkset(
		deliveryTable(t, order{serial: 5, title: "書", isbn: "978", total: 1, volumes: 1, quantity: 1}),
		catalogTable(t, copyRow{serial: 5, regNo: "1234", title: "書 / 作者", isbn: "978", box: 2}),
	)
	r := New(DefaultRules(), zerolog.Nop())

	out, c, err := r.ReconcileOne(ws.Delivery.Empty(), "0005", ws)
	require.NoError(t, err)

	assert.Equal(t, CaseNormal, c)
	require.Equal(t, 1, out.Len())
	row := out.Rows[0]
	assert.Equal(t, "1234", row.Get(schema.ColRegNo).String())
	assert.Equal(t, "MAIN", row.Get(schema.ColLocation).String())
	assert.Equal(t, "2", row.Get(schema.ColBoxNo).String())
	assert.Equal(t, "書", row.Get(schema.ColTitle).String())
	assert.Equal(t, 0, ws.Delivery.Len(), "delivery row consumed")
	assert.Equal(t, 0, ws.Catalog.Len(), "catalog row consumed")
}

func TestReconcileOne_BoxedSet(t *testing.T) {
	ws := newWorkset(
		deliveryTable(t, order{serial: 6, title: "全集", total: 3, volumes: 3, quantity: 1, subtotal: "900"}),
		catalogTable(t,
			copyRow{serial: 6, regNo: "2001", title: "全集", part: "v.1"},
			copyRow{serial: 6, regNo: "2002", title: "全集", part: "v.2"},
			copyRow{serial: 6, regNo: "2003", title: "全集", part: "v.3"},
		),
	)
	r := New(DefaultRules(), zerolog.Nop())

	out, c, err := r.ReconcileOne(ws.Delivery.Empty(), "0006", ws)
	require.NoError(t, err)

	assert.Equal(t, CaseBoxedSet, c)
	require.Equal(t, 4, out.Len())

	annotation := out.Rows[0]
	assert.Equal(t, schema.SentinelBoxedSet, annotation.Get(schema.ColRegNo).String())
	assert.Equal(t, "全集", annotation.Get(schema.ColTitle).String())
	assert.Equal(t, "OLD", annotation.Get(schema.ColLocation).String(), "annotation row is not merged")
	assert.Equal(t, "900", annotation.Get(schema.ColSubtotal).String())

	for i, want := range []string{"2001", "2002", "2003"} {
		row := out.Rows[i+1]
		assert.Equal(t, want, row.Get(schema.ColRegNo).String())
		assert.Equal(t, "全集 - v."+want[3:], row.Get(schema.ColTitle).String())
		assert.True(t, row.Get(schema.ColSubtotal).IsNull(), "reduced rows carry no subtotal")
		assert.True(t, row.Get(schema.ColTotalCopies).IsNull())
		assert.True(t, row.Get(schema.ColListPrice).IsNull())
	}
}

func TestReconcileOne_MultiCopy(t *testing.T) {
	ws := newWorkset(
		deliveryTable(t, order{serial: 7, title: "小說", total: 3, volumes: 1, quantity: 3, subtotal: "750"}),
		catalogTable(t,
			copyRow{serial: 7, regNo: "3001", title: "小說"},
			copyRow{serial: 7, regNo: "3002", title: "小說"},
			copyRow{serial: 7, regNo: "3003", title: "小說"},
		),
	)
	r := New(DefaultRules(), zerolog.Nop())

	out, c, err := r.ReconcileOne(ws.Delivery.Empty(), "0007", ws)
	require.NoError(t, err)

	assert.Equal(t, CaseMultiCopy, c)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "750", out.Rows[0].Get(schema.ColSubtotal).String())
	assert.Equal(t, "3", out.Rows[0].Get(schema.ColQuantity).String())
	for i, row := range out.Rows {
		assert.Equal(t, "300"+string(rune('1'+i)), row.Get(schema.ColRegNo).String())
		if i > 0 {
			assert.True(t, row.Get(schema.ColSubtotal).IsNull())
			assert.True(t, row.Get(schema.ColQuantity).IsNull())
		}
	}
}

func TestReconcileOne_NotDelivered(t *testing.T) {
	ws := newWorkset(
		deliveryTable(t, order{serial: 8, title: "未到", total: 1, volumes: 1, quantity: 1}),
		catalogTable(t, copyRow{serial: 9, regNo: "9"}),
	)
	r := New(DefaultRules(), zerolog.Nop())
	out := ws.Delivery.Empty()

	got, c, err := r.ReconcileOne(out, "0008", ws)
	require.NoError(t, err)

	assert.Equal(t, CaseNotDelivered, c)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, 1, ws.Delivery.Len(), "row is kept for reattachment")
	assert.Equal(t, 1, ws.Catalog.Len())
}

func TestReconcileOne_ZeroCopiesNotDelivered(t *testing.T) {
	ws := newWorkset(
		deliveryTable(t, order{serial: 10, title: "零", total: 0}),
		catalogTable(t),
	)
	r := New(DefaultRules(), zerolog.Nop())

	_, c, err := r.ReconcileOne(ws.Delivery.Empty(), "0010", ws)

	require.NoError(t, err)
	assert.Equal(t, CaseNotDelivered, c)
}

func TestReconcileOne_Fatal(t *testing.T) {
	tests := []struct {
		name     string
		delivery []order
		catalog  []copyRow
		key      string
		want     error
	}{
		{
			name: "duplicate delivery",
			delivery: []order{
				{serial: 5, title: "a", total: 1, volumes: 1, quantity: 1},
				{serial: 5, title: "b", total: 1, volumes: 1, quantity: 1},
			},
			key:  "0005",
			want: ErrDuplicateDelivery,
		},
		{
			name:     "missing delivery",
			delivery: []order{{serial: 5, title: "a", total: 1}},
			key:      "0099",
			want:     ErrDuplicateDelivery,
		},
		{
			name:     "count mismatch",
			delivery: []order{{serial: 5, title: "a", total: 2, volumes: 1, quantity: 2}},
			catalog:  []copyRow{{serial: 5, regNo: "1"}},
			key:      "0005",
			want:     ErrCountMismatch,
		},
		{
			name:     "neither boxed set nor multi-copy",
			delivery: []order{{serial: 5, title: "a", total: 2, volumes: 1, quantity: 1}},
			catalog:  []copyRow{{serial: 5, regNo: "1"}, {serial: 5, regNo: "2"}},
			key:      "0005",
			want:     ErrAbnormalQuantity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkset(deliveryTable(t, tt.delivery...), catalogTable(t, tt.catalog...))
			before := ws.Catalog.Len()
			r := New(DefaultRules(), zerolog.Nop())

			_, _, err := r.ReconcileOne(ws.Delivery.Empty(), tt.key, ws)

			require.ErrorIs(t, err, tt.want)
			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.key, re.Key)
			assert.Contains(t, err.Error(), tt.key)
			assert.Equal(t, before, ws.Catalog.Len(), "nothing consumed on failure")
		})
	}
}

func TestMerge_NullCatalogValuesKeepDelivery(t *testing.T) {
	d := deliveryTable(t, order{serial: 5, title: "書", isbn: "978", total: 1})
	base := d.Rows[0]
	cat := table.NewRow()
	r := New(DefaultRules(), zerolog.Nop())

	merged := r.merge("0005", base, cat)

	for _, logical := range DefaultRules().Replace {
		f, _ := DefaultFieldMap().Lookup(logical)
		assert.True(t, base.Get(f.Delivery).Equal(merged.Get(f.Delivery)), logical)
	}
}

func TestMerge_WarnsOnMismatch(t *testing.T) {
	var buf bytes.Buffer
	r := New(DefaultRules(), zerolog.New(&buf))
	d := deliveryTable(t, order{serial: 5, title: "書", isbn: "978", total: 1})
	cat := table.NewRow()
	cat.Set(schema.CatBibliography, table.String("別的書 / 某人著"))
	cat.Set(schema.CatISBN, table.String("978"))

	r.merge("0005", d.Rows[0], cat)

	assert.Contains(t, buf.String(), `"field":"書名"`)
	assert.NotContains(t, buf.String(), `"field":"ISBN"`)
}

func TestCatalogTitle(t *testing.T) {
	assert.Equal(t, "書名", CatalogTitle(" 書名 / 作者著"))
	assert.Equal(t, "書名", CatalogTitle("書名"))
	assert.Equal(t, "", CatalogTitle("/x"))
}
