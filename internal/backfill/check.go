// =============================================================================
// Registration Backfill - Pre-run Check
// =============================================================================
//
// Check loads both workbooks and walks every order-serial the way a run
// would, but collects problems instead of stopping at the first one:
//   - duplicate delivery rows
//   - catalog row count different from 總冊數
//   - several catalog rows on a line that is neither a boxed set nor
//     multi-copy
//   - catalog rows with no delivery row (reported, not fatal)
//
// =============================================================================

package backfill

import (
	"github.com/ginjaninja78/registration-backfill/internal/table"
	"github.com/ginjaninja78/registration-backfill/internal/workbook"
)

// CheckReport summarises problems found without reconciling anything.
type CheckReport struct {
	// ColumnDiffs lists sheets whose header differs from the layout.
	ColumnDiffs []workbook.ColumnDiff

	// DeliveryRows and CatalogRows count the loaded rows.
	DeliveryRows int
	CatalogRows  int

	// DuplicateKeys are order-serials with more than one delivery row.
	DuplicateKeys []string

	// CountMismatches are order-serials whose catalog row count is non-zero
	// and differs from the delivery row's total copy count.
	CountMismatches []string

	// AbnormalQuantities are order-serials with several catalog rows whose
	// delivery row is neither a boxed set nor a multi-copy line.
	AbnormalQuantities []string

	// OrphanKeys are catalog order-serials with no delivery row.
	OrphanKeys []string
}

// OK reports whether a full run would pass the count invariants.
func (r *CheckReport) OK() bool {
	return len(r.DuplicateKeys) == 0 &&
		len(r.CountMismatches) == 0 &&
		len(r.AbnormalQuantities) == 0
}

// Check loads both workbooks and reports every key that would make a run
// fail, instead of stopping at the first one.
func (p *Pipeline) Check() (*CheckReport, error) {
	delivery, catalog, err := p.Load()
	if err != nil {
		return nil, err
	}

	report := &CheckReport{
		ColumnDiffs:  p.diffs,
		DeliveryRows: delivery.Len(),
		CatalogRows:  catalog.Len(),
	}

	deliveryCount := countKeys(delivery)
	catalogCount := countKeys(catalog)

	for _, key := range orderedKeys(delivery) {
		if deliveryCount[key] > 1 {
			report.DuplicateKeys = append(report.DuplicateKeys, key)
			continue
		}
		n := catalogCount[key]
		if n == 0 {
			continue
		}
		row := delivery.Select(key)[0]
		total, _ := row.Get(p.rules.TotalCopies).IntValue()
		if total != int64(n) {
			report.CountMismatches = append(report.CountMismatches, key)
			continue
		}
		if n > 1 && !greaterThanOne(row, p.rules.Volumes) && !greaterThanOne(row, p.rules.Quantity) {
			report.AbnormalQuantities = append(report.AbnormalQuantities, key)
		}
	}
	for _, key := range orderedKeys(catalog) {
		if deliveryCount[key] == 0 {
			report.OrphanKeys = append(report.OrphanKeys, key)
		}
	}

	p.log.Info().
		Int("delivery_rows", report.DeliveryRows).
		Int("catalog_rows", report.CatalogRows).
		Strs("duplicate_keys", report.DuplicateKeys).
		Strs("count_mismatches", report.CountMismatches).
		Strs("abnormal_quantities", report.AbnormalQuantities).
		Strs("orphan_keys", report.OrphanKeys).
		Msg("check finished")

	return report, nil
}

func greaterThanOne(row table.Row, col string) bool {
	n, ok := row.Get(col).IntValue()
	return ok && n > 1
}

func countKeys(t *table.Table) map[string]int {
	counts := make(map[string]int)
	for _, k := range t.Keys() {
		counts[k]++
	}
	return counts
}

// orderedKeys returns each key once, in first-seen order.
func orderedKeys(t *table.Table) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range t.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
