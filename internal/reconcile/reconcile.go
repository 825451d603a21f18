// =============================================================================
// Registration Backfill - Reconciliation
// =============================================================================
//
// This module merges registration numbers and catalog metadata from the
// cataloging box list back into the delivery list, one order-serial at a
// time.
//
// CASES (checked in this order):
//   not yet delivered : no catalog rows for the key; nothing is emitted and
//                       the delivery row stays in the working table
//   normal            : one catalog row; one merged row
//   boxed set         : several catalog rows and 冊數 > 1; one annotation row
//                       (登錄號 = 套書) then one reduced merged row per copy
//   multi-copy        : several catalog rows and 數量 > 1; one full merged
//                       row then one reduced merged row per further copy
//
// INVARIANTS:
//   - a key resolves to exactly one delivery row
//   - when catalog rows exist, their count equals 總冊數
//   - a handled key is removed from both working tables and never revisited
//
// =============================================================================

package reconcile

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/registration-backfill/internal/table"
)

// =============================================================================
// CASE LABELS
// =============================================================================

// Case classifies how one order-serial was handled.
type Case int

const (
	// CaseNotDelivered means no catalog row exists for the key yet.
	CaseNotDelivered Case = iota
	// CaseNormal is one delivery row matched by one catalog row.
	CaseNormal
	// CaseBoxedSet is one delivery row covering several distinct titles.
	CaseBoxedSet
	// CaseMultiCopy is one delivery row covering several copies of a title.
	CaseMultiCopy
)

// Cases lists every case in reporting order.
var Cases = []Case{CaseNormal, CaseBoxedSet, CaseMultiCopy, CaseNotDelivered}

// String returns the case label.
func (c Case) String() string {
	switch c {
	case CaseNotDelivered:
		return "not yet delivered"
	case CaseNormal:
		return "normal"
	case CaseBoxedSet:
		return "boxed-set"
	case CaseMultiCopy:
		return "multi-copy"
	default:
		return fmt.Sprintf("case(%d)", int(c))
	}
}

// Workset holds the working copies of both tables. Rows are removed as they
// are consumed.
type Workset struct {
	Delivery *table.Table
	Catalog  *table.Table
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler applies Rules to one key at a time.
type Reconciler struct {
	rules Rules
	log   zerolog.Logger
}

// New creates a Reconciler.
func New(rules Rules, log zerolog.Logger) *Reconciler {
	return &Reconciler{rules: rules, log: log}
}

// ReconcileOne handles a single order-serial. Merged rows are appended to
// out, which is also returned. On success the matched rows are removed from
// ws. Fatal conditions are returned as *Error.
func (r *Reconciler) ReconcileOne(out *table.Table, key string, ws *Workset) (*table.Table, Case, error) {
	delivery := ws.Delivery.Select(key)
	catalog := ws.Catalog.Select(key)

	if len(delivery) != 1 {
		return out, 0, r.fail(ErrDuplicateDelivery, key, fmt.Sprintf("%d delivery rows", len(delivery)), delivery, nil)
	}
	base := delivery[0]
	r.log.Info().Str("key", key).Msg(r.deliveryInfo(base).String())

	if len(catalog) == 0 {
		r.log.Warn().Str("key", key).Msg("not delivered this time")
		return out, CaseNotDelivered, nil
	}

	total, _ := base.Get(r.rules.TotalCopies).IntValue()
	if total != int64(len(catalog)) {
		detail := fmt.Sprintf("%s %s, catalog rows %d", r.rules.TotalCopies, base.Get(r.rules.TotalCopies), len(catalog))
		return out, 0, r.fail(ErrCountMismatch, key, detail, delivery, catalog)
	}

	var c Case
	switch {
	case len(catalog) == 1:
		out.Append(r.merge(key, base, catalog[0]))
		c = CaseNormal

	case r.greaterThanOne(base, r.rules.Volumes):
		annotation := base.Clone()
		annotation.Set(r.field(FieldRegNo).Delivery, table.String(r.rules.Sentinel))
		out.Append(annotation)
		for _, cat := range catalog {
			out.Append(r.merge(key, base, cat).Project(r.rules.Reduced))
		}
		c = CaseBoxedSet

	case r.greaterThanOne(base, r.rules.Quantity):
		for i, cat := range catalog {
			merged := r.merge(key, base, cat)
			if i > 0 {
				merged = merged.Project(r.rules.Reduced)
			}
			out.Append(merged)
		}
		c = CaseMultiCopy

	default:
		detail := fmt.Sprintf("%s %s, %s %s", r.rules.Volumes, base.Get(r.rules.Volumes), r.rules.Quantity, base.Get(r.rules.Quantity))
		return out, 0, r.fail(ErrAbnormalQuantity, key, detail, delivery, catalog)
	}

	ws.Delivery.RemoveKey(key)
	ws.Catalog.RemoveKey(key)
	return out, c, nil
}

// =============================================================================
// MERGE
// =============================================================================

// merge returns a copy of base with the mapped catalog values applied.
// Null catalog values leave the delivery value untouched.
func (r *Reconciler) merge(key string, base, cat table.Row) table.Row {
	r.checkValues(key, base, cat)

	out := base.Clone()
	for _, logical := range r.rules.Replace {
		f := r.field(logical)
		v := cat.Get(f.Catalog)
		if v.IsNull() {
			continue
		}
		if logical == FieldVolumePart {
			title, _ := out.Get(f.Delivery).Text()
			part, _ := v.Text()
			out.Set(f.Delivery, table.String(title+" - "+part))
			continue
		}
		out.Set(f.Delivery, v)
	}
	return out
}

// checkValues logs a warning for every checked field whose values differ.
// The catalog title is cut at the first "/" (statement of responsibility).
func (r *Reconciler) checkValues(key string, base, cat table.Row) {
	for _, logical := range r.rules.Checks {
		f := r.field(logical)
		want := base.Get(f.Delivery)
		got := cat.Get(f.Catalog)
		if logical == FieldTitle {
			if s, ok := got.Text(); ok {
				got = table.String(CatalogTitle(s))
			}
		}
		if !want.Equal(got) {
			r.log.Warn().
				Str("key", key).
				Str("field", logical).
				Str("交貨清單", want.String()).
				Str("編目箱單", got.String()).
				Msg("values differ")
		}
	}
}

// CatalogTitle returns the title part of a catalog bibliography line,
// i.e. the text before the first "/", trimmed.
func CatalogTitle(s string) string {
	title, _, _ := strings.Cut(s, "/")
	return strings.TrimSpace(title)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (r *Reconciler) field(logical string) Field {
	f, ok := r.rules.Fields.Lookup(logical)
	if !ok {
		// Rules are static; a missing mapping is a programming error.
		panic(fmt.Sprintf("reconcile: no field mapping for %q", logical))
	}
	return f
}

func (r *Reconciler) greaterThanOne(row table.Row, col string) bool {
	n, ok := row.Get(col).IntValue()
	return ok && n > 1
}

func (r *Reconciler) deliveryInfo(row table.Row) RowInfo {
	return r.rowInfo(row, func(f Field) string { return f.Delivery })
}

func (r *Reconciler) catalogInfo(row table.Row) RowInfo {
	return r.rowInfo(row, func(f Field) string { return f.Catalog })
}

func (r *Reconciler) rowInfo(row table.Row, col func(Field) string) RowInfo {
	serial := row.Key
	if !row.HasKey {
		serial = row.Get(col(r.field(FieldOrderSerial))).String()
	}
	return RowInfo{
		Serial: serial,
		ISBN:   row.Get(col(r.field(FieldISBN))).String(),
		Title:  row.Get(col(r.field(FieldTitle))).String(),
	}
}

func (r *Reconciler) fail(kind error, key, detail string, delivery, catalog []table.Row) error {
	e := &Error{Kind: kind, Key: key, Detail: detail}
	for _, row := range delivery {
		e.Delivery = append(e.Delivery, r.deliveryInfo(row))
	}
	for _, row := range catalog {
		e.Catalog = append(e.Catalog, r.catalogInfo(row))
	}
	r.log.Error().Str("key", key).Msg(e.Error())
	return e
}
