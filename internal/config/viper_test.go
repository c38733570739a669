package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors t.Chdir (Go 1.24+), which is unavailable on the Go 1.21
// toolchain used to build this module.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestInitializeConfig_Defaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Matching.DateWindowDays)
	assert.InDelta(t, 0.01, cfg.Matching.AmountTolerance, 1e-9)
	assert.True(t, cfg.Batch.RequireExactTotals)
	assert.Equal(t, "https://api.xero.com/api.xro/2.0", cfg.Ledger.BaseURL)
	assert.Equal(t, 60, cfg.Ledger.TimeoutSeconds)
	assert.Equal(t, "receipts.yaml", cfg.Data.ReceiptsFile)
	assert.Equal(t, "xero_post_log.jsonl", cfg.Data.AuditLog)
}

func TestInitializeConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "matching:\n  date_window_days: 7\nbatch:\n  account_hint: \"chf\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	chdir(t, dir)

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Matching.DateWindowDays)
	assert.Equal(t, "chf", cfg.Batch.AccountHint)
	// Untouched values keep their defaults.
	assert.InDelta(t, 0.01, cfg.Matching.AmountTolerance, 1e-9)
}

func TestInitializeConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RECON_MATCHING_DATE_WINDOW_DAYS", "14")
	t.Setenv("XERO_TENANT_ID", "tenant-123")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Matching.DateWindowDays)
	assert.Equal(t, "tenant-123", cfg.Ledger.TenantID)
}

func TestInitializeConfig_RejectsNegativeWindow(t *testing.T) {
	dir := t.TempDir()
	content := "matching:\n  date_window_days: -1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	chdir(t, dir)

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("RECON_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("RECON_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("RECON_TEST_KEY_MISSING", "fallback"))
}
