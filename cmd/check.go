// =============================================================================
// Registration Backfill - Check Command
// =============================================================================
//
// COMMAND USAGE:
//   backfill check [flags]
//
// Loads both workbooks and prints every problem a run would stop on.
// Nothing is written. Exits non-zero when a run would fail.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registration-backfill/internal/backfill"
)

// errCheckFailed is returned when check finds keys that would abort a run.
var errCheckFailed = errors.New("check found problems")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report every problem a run would hit, without writing anything",
	Long: `The check command loads both workbooks and lists header differences,
duplicate order-serials, copy count mismatches, lines with several copies
that are neither a boxed set nor multi-copy, and catalog rows that have no
delivery row. Unlike run it does not stop at the first problem.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
}

func runCheck() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, _ := newLogger(cfg, nil)
	report, err := backfill.New(cfg, log).Check()
	if err != nil {
		return err
	}

	fmt.Println("\n=== Check ===")
	fmt.Printf("Delivery rows:     %d\n", report.DeliveryRows)
	fmt.Printf("Catalog rows:      %d\n", report.CatalogRows)
	for _, d := range report.ColumnDiffs {
		fmt.Printf("Header of %s: missing %v, unexpected %v\n", d.Sheet, d.Missing, d.Unexpected)
	}
	printKeys("Duplicate keys:", report.DuplicateKeys)
	printKeys("Count mismatches:", report.CountMismatches)
	printKeys("Abnormal quantity:", report.AbnormalQuantities)
	printKeys("Orphan keys:", report.OrphanKeys)

	if !report.OK() {
		return errCheckFailed
	}
	fmt.Fprintln(os.Stdout, "OK")
	return nil
}

func printKeys(label string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Printf("%-19s%v\n", label, keys)
}
