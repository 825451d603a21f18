// =============================================================================
// Registration Backfill - Configuration Module
// =============================================================================
//
// This module loads the run configuration: which workbooks to reconcile,
// where to put the result, and how the two worksheets are laid out.
//
// CONFIGURATION FILE (config.yaml):
//   delivery_workbook: ./input/交貨清單.xlsx
//   catalog_workbook:  ./input/(OK)編目箱單_第3批.xlsx
//   output_dir:        ./output
//   log_level:         info
//   delivery_sheet:
//     name: 交貨清單
//     header_row: 3
//   catalog_sheet:
//     header_row: 2
//
// Header rows are 1-based, the way they appear in the spreadsheet.
// Command-line flags override the file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/registration-backfill/internal/schema"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultPaddingRows is used when padding_rows is absent from the file.
const DefaultPaddingRows = 5

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the settings of one reconciliation run.
type MainConfig struct {
	// =========================================================================
	// INPUT / OUTPUT
	// =========================================================================

	// DeliveryWorkbook is the path to the delivery list (交貨清單).
	DeliveryWorkbook string `yaml:"delivery_workbook"`

	// CatalogWorkbook is the path to the cataloging box list (編目箱單).
	// Its file name also determines the output file names.
	CatalogWorkbook string `yaml:"catalog_workbook"`

	// OutputDir receives the reconciled workbook and the run log.
	// It must already exist.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	// LogLevel controls console and run-log verbosity.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SHEET LAYOUT
	// =========================================================================

	// DeliverySheet overrides the delivery list layout.
	DeliverySheet SheetSettings `yaml:"delivery_sheet"`

	// CatalogSheet overrides the catalog layout. An empty name means every
	// sheet of the workbook.
	CatalogSheet SheetSettings `yaml:"catalog_sheet"`

	// PaddingRows is the number of blank rows between the totals row and
	// the undelivered rows in the output.
	// Default: 5
	PaddingRows int `yaml:"padding_rows"`
}

// SheetSettings locates a table in a workbook.
type SheetSettings struct {
	// Name is the worksheet name.
	Name string `yaml:"name"`

	// HeaderRow is the 1-based row holding the column names.
	HeaderRow int `yaml:"header_row"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied and no input
// paths.
func Default() *MainConfig {
	config := MainConfig{PaddingRows: DefaultPaddingRows}
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the configuration from a YAML file and applies
// defaults. It does not validate; call Validate once flag overrides are in.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Defaults that 0 can override are set before decoding.
	config := MainConfig{PaddingRows: DefaultPaddingRows}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)
	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	delivery := schema.Delivery()
	catalog := schema.Catalog()

	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.DeliverySheet.Name == "" {
		config.DeliverySheet.Name = delivery.Sheet
	}
	if config.DeliverySheet.HeaderRow == 0 {
		config.DeliverySheet.HeaderRow = delivery.HeaderRow + 1
	}
	if config.CatalogSheet.HeaderRow == 0 {
		config.CatalogSheet.HeaderRow = catalog.HeaderRow + 1
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that both workbooks exist and are .xlsx files and that
// the output directory exists.
func (c *MainConfig) Validate() error {
	if err := checkWorkbook(c.DeliveryWorkbook, "交貨清單"); err != nil {
		return err
	}
	if err := checkWorkbook(c.CatalogWorkbook, "編目箱單"); err != nil {
		return err
	}
	info, err := os.Stat(c.OutputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: output directory does not exist or is not a directory: %q", ErrInvalid, c.OutputDir)
	}
	if c.DeliverySheet.HeaderRow < 1 || c.CatalogSheet.HeaderRow < 1 {
		return fmt.Errorf("%w: header rows are 1-based", ErrInvalid)
	}
	if c.PaddingRows < 0 {
		return fmt.Errorf("%w: padding_rows must not be negative", ErrInvalid)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

func checkWorkbook(path, role string) error {
	if path == "" {
		return fmt.Errorf("%w: no %s workbook given", ErrInvalid, role)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s workbook does not exist: %q", ErrInvalid, role, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("%w: %s workbook is not an .xlsx file: %q", ErrInvalid, role, path)
	}
	return nil
}

// =============================================================================
// LAYOUTS
// =============================================================================

// DeliveryLayout returns the delivery layout with the configured overrides.
func (c *MainConfig) DeliveryLayout() schema.Layout {
	l := schema.Delivery()
	l.Sheet = c.DeliverySheet.Name
	l.HeaderRow = c.DeliverySheet.HeaderRow - 1
	return l
}

// CatalogLayout returns the catalog layout with the configured overrides.
func (c *MainConfig) CatalogLayout() schema.Layout {
	l := schema.Catalog()
	l.Sheet = c.CatalogSheet.Name
	l.HeaderRow = c.CatalogSheet.HeaderRow - 1
	return l
}
