// =============================================================================
// Registration Backfill - Totals
// =============================================================================
//
// The 合計 row sums 總冊數 and 小計 of the merged rows. The amount is a
// decimal sum rounded half-up to whole units.
//
// =============================================================================

package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/registration-backfill/internal/schema"
	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// Totals sums the total-copy-count and subtotal columns of t. Nulls are
// skipped. The subtotal is rounded half-up to whole currency units.
func Totals(t *table.Table) (int64, decimal.Decimal) {
	var copies int64
	amount := decimal.Zero
	for _, row := range t.Rows {
		if n, ok := row.Get(schema.ColTotalCopies).IntValue(); ok {
			copies += n
		}
		if d, ok := row.Get(schema.ColSubtotal).DecimalValue(); ok {
			amount = amount.Add(d)
		}
	}
	return copies, RoundHalfUp(amount)
}

// RoundHalfUp rounds d to zero decimal places, halves away from zero.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// AppendTotals appends the totals row to t and returns it. Only the title,
// total-copy-count and subtotal cells are set.
func AppendTotals(t *table.Table) table.Row {
	copies, amount := Totals(t)
	row := table.NewRow()
	row.Set(schema.ColTitle, table.String(schema.TotalLabel))
	row.Set(schema.ColTotalCopies, table.Int(copies))
	row.Set(schema.ColSubtotal, table.Decimal(amount))
	t.Append(row)
	return row
}
