// =============================================================================
// Registration Backfill - Output Assembly
// =============================================================================
//
// This module turns a reconciliation result into the table that is written
// back to the 交貨清單 sheet.
//
// OUTPUT LAYOUT (top to bottom):
//   1. merged rows, in the order their order-serials were handled
//   2. the 合計 totals row
//   3. blank padding rows
//   4. delivery rows that were not delivered this time
//
// The order-serial column is rendered as 4-digit zero-padded text so the
// sheet keeps its "0005" look after the round trip.
//
// =============================================================================

package backfill

import (
	"github.com/ginjaninja78/registration-backfill/internal/reconcile"
	"github.com/ginjaninja78/registration-backfill/internal/schema"
	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// Assemble builds the output table. The reconciliation result is not
// modified.
func Assemble(res *reconcile.Result, paddingRows int) *table.Table {
	out := res.Output.Clone()

	reconcile.AppendTotals(out)

	for i := 0; i < paddingRows; i++ {
		out.Append(table.NewRow())
	}
	for _, row := range res.Leftover.Rows {
		out.Append(row.Clone())
	}

	padOrderSerial(out, schema.ColOrderSerial)
	return out
}

// padOrderSerial rewrites col as zero-padded text. Nulls stay null.
func padOrderSerial(t *table.Table, col string) {
	for _, row := range t.Rows {
		key, ok := table.FormatKey(row.Get(col))
		if !ok {
			continue
		}
		row.Set(col, table.String(key))
	}
	t.Kinds[col] = table.KindString
}
