package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/registration-backfill/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, verbose = "config.yaml", false
		deliveryPath, catalogPath, outputDir = "", "", ""
		dryRun = false
	})
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, buf.String(), "Registration Backfill")
	assert.Contains(t, buf.String(), "Version:    "+Version)
}

func TestLoadConfig_MissingFileUsesFlags(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	for _, name := range []string{"d.xlsx", "c.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cfgFile = filepath.Join(dir, "absent.yaml")
	deliveryPath = filepath.Join(dir, "d.xlsx")
	catalogPath = filepath.Join(dir, "c.xlsx")
	outputDir = dir
	verbose = true

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, deliveryPath, cfg.DeliveryWorkbook)
	assert.Equal(t, catalogPath, cfg.CatalogWorkbook)
	assert.Equal(t, dir, cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.PaddingRows)
}

func TestLoadConfig_InvalidWithoutInputs(t *testing.T) {
	resetFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := loadConfig()

	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	resetFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("delivery_workbook: [unclosed"), 0o644))

	_, err := loadConfig()

	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}
