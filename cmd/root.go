// =============================================================================
// Registration Backfill - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// hangs off it and shares its persistent flags.
//
// COBRA CLI STRUCTURE:
//   rootCmd (backfill)
//   ├── runCmd     (backfill run)
//   ├── checkCmd   (backfill check)
//   └── versionCmd (backfill version)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registration-backfill/internal/config"
	"github.com/ginjaninja78/registration-backfill/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// Input overrides shared by run and check.
var (
	deliveryPath string
	catalogPath  string
	outputDir    string
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Registration Backfill - merge registration numbers into the delivery list",
	Long: `Registration Backfill reconciles a library's delivery list (交貨清單)
with the cataloging box list (編目箱單) produced while the books were
registered.

For every order-serial it copies the registration number and catalog
metadata back into the delivery list, expanding boxed sets and multi-copy
lines into one row per physical copy, and appends a 合計 totals row.

Example Usage:
  backfill run --delivery 交貨清單.xlsx --catalog "(OK)編目箱單_第3批.xlsx"
  backfill run --config ./batch3.yaml --dry-run
  backfill check --config ./batch3.yaml`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// addInputFlags registers the workbook overrides on cmd.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&deliveryPath, "delivery", "", "Path to the delivery list workbook (overrides config)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the cataloging box list workbook (overrides config)")
	cmd.Flags().StringVar(&outputDir, "out-dir", "", "Directory for the output workbook and run log (overrides config)")
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads cfgFile, applies flag overrides and validates the
// result. A missing config file is fine as long as the flags name both
// workbooks.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}

	if deliveryPath != "" {
		cfg.DeliveryWorkbook = deliveryPath
	}
	if catalogPath != "" {
		cfg.CatalogWorkbook = catalogPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run logger. runLog may be nil.
func newLogger(cfg *config.MainConfig, runLog io.Writer) (zerolog.Logger, string) {
	runID := uuid.NewString()
	return logger.New(cfg.LogLevel, os.Stderr, runLog, runID), runID
}
