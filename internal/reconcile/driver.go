// =============================================================================
// Registration Backfill - Driver Loop
// =============================================================================
//
// Run walks the order-serials of the delivery list, captured before any row
// is consumed, and calls ReconcileOne for each.
//
// TERMINATION:
//   The loop stops as soon as the catalog working copy is empty. Remaining
//   keys would all be "not yet delivered"; those that still expect copies
//   are reported as Unchecked.
//
// =============================================================================

package reconcile

import (
	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// Tally counts how many keys were handled by each case.
type Tally map[Case]int

// Total returns the number of keys handled.
func (t Tally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// Result is the outcome of a full reconciliation run.
type Result struct {
	// Output holds the merged rows, in the order their keys were handled.
	Output *table.Table

	// Leftover holds delivery rows that were not consumed.
	Leftover *table.Table

	// Orphans holds catalog rows whose key matched no delivery row.
	Orphans *table.Table

	// Tally counts the handled keys per case.
	Tally Tally

	// StoppedEarly is true when the loop ended because the catalog ran out.
	StoppedEarly bool

	// Unchecked lists keys skipped after the early stop whose delivery row
	// still expects copies.
	Unchecked []string
}

// Run reconciles every keyed delivery row against the catalog. The input
// tables are not modified; the run works on its own copies. The key pool is
// captured before any row is consumed.
func (r *Reconciler) Run(delivery, catalog *table.Table) (*Result, error) {
	ws := &Workset{Delivery: delivery.Clone(), Catalog: catalog.Clone()}
	out := delivery.Empty()
	tally := make(Tally)
	pool := ws.Delivery.Keys()

	res := &Result{Tally: tally}

	for i, key := range pool {
		var (
			c   Case
			err error
		)
		out, c, err = r.ReconcileOne(out, key, ws)
		if err != nil {
			return nil, err
		}
		tally[c]++
		r.log.Info().Str("key", key).Str("case", c.String()).Msg("handled")

		if ws.Catalog.Len() == 0 {
			res.StoppedEarly = true
			res.Unchecked = r.unchecked(ws.Delivery, pool[i+1:])
			r.log.Info().Int("remaining_keys", len(pool)-i-1).Msg("catalog exhausted, stopping")
			break
		}
	}

	if len(res.Unchecked) > 0 {
		r.log.Warn().
			Strs("keys", res.Unchecked).
			Msg("keys skipped after the catalog ran out still expect copies")
	}
	if ws.Catalog.Len() > 0 {
		keys := uniq(ws.Catalog.Keys())
		r.log.Warn().
			Int("rows", ws.Catalog.Len()).
			Strs("keys", keys).
			Msg("catalog rows left without a delivery row")
	}

	res.Output = out
	res.Leftover = ws.Delivery
	res.Orphans = ws.Catalog
	return res, nil
}

// unchecked returns the keys in rest whose delivery row declares a positive
// total copy count.
func (r *Reconciler) unchecked(delivery *table.Table, rest []string) []string {
	var keys []string
	for _, key := range rest {
		for _, row := range delivery.Select(key) {
			if n, ok := row.Get(r.rules.TotalCopies).IntValue(); ok && n > 0 {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

func uniq(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
