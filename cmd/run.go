// =============================================================================
// Registration Backfill - Run Command
// =============================================================================
//
// This file defines the 'run' command, which performs one full
// reconciliation and writes the reconciled delivery list.
//
// COMMAND USAGE:
//   backfill run [flags]
//
// FLAGS:
//   --delivery : delivery list workbook
//   --catalog  : cataloging box list workbook
//   --out-dir  : output directory
//   --dry-run  : reconcile and report without writing the workbook
//
// OUTPUTS (in the output directory):
//   (SR)回填<stem>.xlsx     - the reconciled delivery list
//   (SR)處理紀錄<stem>.log  - the run log
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registration-backfill/internal/backfill"
	"github.com/ginjaninja78/registration-backfill/internal/reconcile"
	"github.com/ginjaninja78/registration-backfill/pkg/utils"
)

// dryRun reconciles without writing the output workbook.
var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile the delivery list with the cataloging box list",
	Long: `The run command loads both workbooks, merges the registration numbers
and catalog metadata into the delivery list, and writes the result next to
a plain-text run log.

Any duplicate order-serial, copy count mismatch or unusable quantity stops
the run before anything is written. The run log keeps the details.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackfill()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile without writing the output workbook")
}

// runBackfill wires configuration, logging and the pipeline together.
func runBackfill() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := utils.GenerateOutputPaths(cfg.CatalogWorkbook, cfg.OutputDir)
	logFile, err := utils.CreateLogFile(paths.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log, runID := newLogger(cfg, logFile)
	log.Info().
		Str("delivery", cfg.DeliveryWorkbook).
		Str("catalog", cfg.CatalogWorkbook).
		Bool("dry_run", dryRun).
		Msg("run started")

	result, err := backfill.New(cfg, log, backfill.WithDryRun(dryRun)).Run()
	if err != nil {
		log.Error().Err(err).Msg("run aborted, no output written")
		return fmt.Errorf("%w (see %s)", err, paths.Log)
	}

	fmt.Println("\n=== Backfill Complete ===")
	fmt.Printf("Run ID:          %s\n", runID)
	for _, c := range reconcile.Cases {
		fmt.Printf("%-17s%d\n", c.String()+":", result.Tally[c])
	}
	fmt.Printf("Merged rows:     %d\n", result.Stats.MergedRows)
	fmt.Printf("Leftover rows:   %d\n", result.Stats.LeftoverRows)
	fmt.Printf("Total copies:    %d\n", result.Stats.TotalCopies)
	fmt.Printf("Total amount:    %s\n", result.Stats.TotalAmount)
	if len(result.Unchecked) > 0 {
		fmt.Printf("Unchecked keys:  %v\n", result.Unchecked)
	}
	if result.Stats.OrphanRows > 0 {
		fmt.Printf("Orphan rows:     %d\n", result.Stats.OrphanRows)
	}
	fmt.Printf("Time elapsed:    %s\n", result.Stats.ProcessingTime)
	if result.OutputFile != "" {
		fmt.Printf("Output:          %s\n", result.OutputFile)
	}
	fmt.Printf("Run log:         %s\n", paths.Log)

	return nil
}
