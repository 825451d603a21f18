// =============================================================================
// Registration Backfill - Pipeline
// =============================================================================
//
// This module orchestrates one reconciliation run, from the two input
// workbooks to the reconciled output workbook.
//
// PIPELINE:
//   1. Load the delivery list (交貨清單) and every catalog sheet (編目箱單)
//   2. Trim the text columns that are compared or merged
//   3. Drop trailing rows below the last order-serial of the delivery list
//   4. Index both tables by order-serial
//   5. Reconcile every order-serial
//   6. Append the totals row, padding and undelivered rows
//   7. Write the output workbook
//
// Any fatal condition aborts the run; nothing is written in that case.
//
// =============================================================================

package backfill

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/registration-backfill/internal/config"
	"github.com/ginjaninja78/registration-backfill/internal/reconcile"
	"github.com/ginjaninja78/registration-backfill/internal/schema"
	"github.com/ginjaninja78/registration-backfill/internal/table"
	"github.com/ginjaninja78/registration-backfill/internal/workbook"
	"github.com/ginjaninja78/registration-backfill/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// OutputFile is the path of the reconciled workbook. Empty on a dry run.
	OutputFile string

	// Tally counts the order-serials handled per case.
	Tally reconcile.Tally

	// StoppedEarly is true when the catalog ran out before the key pool.
	StoppedEarly bool

	// Unchecked lists order-serials skipped after the early stop that still
	// expect copies.
	Unchecked []string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// DeliveryRows and CatalogRows count the loaded rows.
	DeliveryRows int
	CatalogRows  int

	// MergedRows is the number of rows produced by reconciliation.
	MergedRows int

	// LeftoverRows is the number of delivery rows not delivered yet.
	LeftoverRows int

	// OrphanRows is the number of catalog rows with no delivery row.
	OrphanRows int

	// TotalCopies and TotalAmount are the values of the totals row.
	TotalCopies int64
	TotalAmount decimal.Decimal

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs the reconciliation for one delivery/catalog pair.
type Pipeline struct {
	cfg    *config.MainConfig
	rules  reconcile.Rules
	log    zerolog.Logger
	dryRun bool

	// diffs collects the header differences seen by the last Load.
	diffs []workbook.ColumnDiff
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDryRun reconciles without writing the output workbook.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// WithRules replaces the default merge rules.
func WithRules(rules reconcile.Rules) Option {
	return func(p *Pipeline) { p.rules = rules }
}

// New creates a Pipeline. The configuration must already be validated.
func New(cfg *config.MainConfig, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:   cfg,
		rules: reconcile.DefaultRules(),
		log:   log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the full pipeline.
func (p *Pipeline) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	// =========================================================================
	// STEPS 1-4: LOAD, NORMALIZE, INDEX
	// =========================================================================

	delivery, catalog, err := p.Load()
	if err != nil {
		return nil, err
	}
	result.Stats.DeliveryRows = delivery.Len()
	result.Stats.CatalogRows = catalog.Len()

	// =========================================================================
	// STEP 5: RECONCILE
	// =========================================================================

	rec, err := reconcile.New(p.rules, p.log).Run(delivery, catalog)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}
	result.Tally = rec.Tally
	result.StoppedEarly = rec.StoppedEarly
	result.Unchecked = rec.Unchecked
	result.Stats.MergedRows = rec.Output.Len()
	result.Stats.LeftoverRows = rec.Leftover.Len()
	result.Stats.OrphanRows = rec.Orphans.Len()

	for _, c := range reconcile.Cases {
		p.log.Info().Str("case", c.String()).Int("count", rec.Tally[c]).Msg("case tally")
	}

	// =========================================================================
	// STEP 6: ASSEMBLE OUTPUT
	// =========================================================================

	out := Assemble(rec, p.cfg.PaddingRows)
	result.Stats.TotalCopies, result.Stats.TotalAmount = reconcile.Totals(rec.Output)
	p.log.Info().
		Int64(schema.ColTotalCopies, result.Stats.TotalCopies).
		Str(schema.ColSubtotal, result.Stats.TotalAmount.String()).
		Msg(schema.TotalLabel)

	// =========================================================================
	// STEP 7: WRITE OUTPUT FILE
	// =========================================================================

	if p.dryRun {
		p.log.Info().Msg("dry run, output workbook not written")
	} else {
		paths := utils.GenerateOutputPaths(p.cfg.CatalogWorkbook, p.cfg.OutputDir)
		if err := workbook.WriteSheet(paths.Workbook, p.cfg.DeliverySheet.Name, out); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		result.OutputFile = paths.Workbook
		p.log.Info().Str("file", paths.Workbook).Msg("output written")
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result, nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads both workbooks and prepares them for reconciliation: text
// columns are trimmed, trailing delivery rows are dropped, and both tables
// are indexed by order-serial.
func (p *Pipeline) Load() (delivery, catalog *table.Table, err error) {
	orderSerial, _ := p.rules.Fields.Lookup(reconcile.FieldOrderSerial)
	title, _ := p.rules.Fields.Lookup(reconcile.FieldTitle)
	isbn, _ := p.rules.Fields.Lookup(reconcile.FieldISBN)
	part, _ := p.rules.Fields.Lookup(reconcile.FieldVolumePart)

	p.diffs = nil

	delivery, diffs, err := workbook.ReadDelivery(p.cfg.DeliveryWorkbook, p.cfg.DeliveryLayout(), p.log)
	if err != nil {
		return nil, nil, err
	}
	p.diffs = append(p.diffs, diffs...)
	if err := trimColumns(delivery, title.Delivery, isbn.Delivery); err != nil {
		return nil, nil, err
	}
	if err := delivery.TruncateAfterLastKey(orderSerial.Delivery); err != nil {
		return nil, nil, err
	}
	if err := delivery.CopyAsIndex(orderSerial.Delivery); err != nil {
		return nil, nil, err
	}
	p.log.Info().Int("rows", delivery.Len()).Msg("delivery list ready")

	catalog, diffs, err = workbook.ReadCatalog(p.cfg.CatalogWorkbook, p.cfg.CatalogLayout(), p.log)
	if err != nil {
		return nil, nil, err
	}
	p.diffs = append(p.diffs, diffs...)
	if err := trimColumns(catalog, title.Catalog, isbn.Catalog, part.Catalog); err != nil {
		return nil, nil, err
	}
	if err := catalog.CopyAsIndex(orderSerial.Catalog); err != nil {
		return nil, nil, err
	}
	p.log.Info().Int("rows", catalog.Len()).Msg("catalog list ready")

	return delivery, catalog, nil
}

func trimColumns(t *table.Table, cols ...string) error {
	for _, c := range cols {
		if err := t.TrimColumn(c); err != nil {
			return fmt.Errorf("failed to normalize %s: %w", t.Name, err)
		}
	}
	return nil
}
