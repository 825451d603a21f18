// =============================================================================
// Registration Backfill - Main Entry Point
// =============================================================================
//
// USAGE:
//   backfill run      - Reconcile and write the reconciled delivery list
//   backfill check    - Report problems without writing anything
//   backfill version  - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/table      : typed nullable tables
//   - internal/schema     : worksheet layouts and column names
//   - internal/workbook   : xlsx reading and writing
//   - internal/reconcile  : per-key reconciliation and totals
//   - internal/backfill   : the end-to-end pipeline
//   - internal/config     : YAML configuration
//   - internal/logger     : zerolog setup
//   - pkg/utils           : output naming and file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/registration-backfill/cmd"
)

func main() {
	cmd.Execute()
}
