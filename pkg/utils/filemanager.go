// =============================================================================
// Registration Backfill - File Manager Utility
// =============================================================================
//
// This module provides the file naming and file system helpers used by a
// run:
//   - Output naming derived from the catalog workbook name
//   - Run log creation
//   - Existence checks
//
// NAMING CONVENTION:
//   The catalog workbook is usually called something like
//   "(OK)編目箱單_第3批.xlsx". The "(OK)" marker and the "編目箱單" label are
//   removed and what is left becomes the stem of both outputs:
//     (SR)回填_第3批.xlsx        - the reconciled delivery list
//     (SR)處理紀錄_第3批.log      - the run log
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPaths holds the files a run produces.
type OutputPaths struct {
	// Workbook is the reconciled delivery list.
	Workbook string

	// Log is the plain-text run log.
	Log string
}

// OutputStem derives the shared stem of the output names from the catalog
// workbook path.
func OutputStem(catalogPath string) string {
	base := filepath.Base(catalogPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.ReplaceAll(stem, "(OK)", "")
	stem = strings.ReplaceAll(stem, "編目箱單", "")
	return stem
}

// GenerateOutputPaths returns the output workbook and log paths inside
// outputDir.
//
// EXAMPLE:
//   catalogPath: "in/(OK)編目箱單_第3批.xlsx"
//   outputDir:   "out"
//   Workbook:    "out/(SR)回填_第3批.xlsx"
//   Log:         "out/(SR)處理紀錄_第3批.log"
func GenerateOutputPaths(catalogPath, outputDir string) OutputPaths {
	stem := OutputStem(catalogPath)
	ext := filepath.Ext(catalogPath)
	if ext == "" {
		ext = ".xlsx"
	}
	return OutputPaths{
		Workbook: filepath.Join(outputDir, fmt.Sprintf("(SR)回填%s%s", stem, ext)),
		Log:      filepath.Join(outputDir, fmt.Sprintf("(SR)處理紀錄%s.log", stem)),
	}
}

// =============================================================================
// RUN LOG
// =============================================================================

// CreateLogFile creates (or truncates) the run log.
func CreateLogFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}
	return f, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
