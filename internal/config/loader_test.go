package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Cascade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
defaults:
  rollover_day: 10
  rollover_hour: 3
user:
  id: from-file
`), 0o600))

	t.Setenv("TS_CONFIG", path)
	t.Setenv("TS_ROLLOVER_HOUR", "5")

	day := 12
	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{RolloverDay: &day})
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Defaults.RolloverDay, "flag beats file")
	assert.Equal(t, 5, cfg.Defaults.RolloverHour, "environment beats file")
	assert.Equal(t, "from-file", cfg.User.ID)
}

func TestLoader_ConfigPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.toml")
	require.NoError(t, os.WriteFile(path, []byte("[time]\nzone = \"UTC\"\n"), 0o600))
	t.Setenv("TS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{ConfigPath: &path})
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Time.Zone)
}

func TestLoader_InvalidOverride(t *testing.T) {
	t.Setenv("TS_CONFIG", "")
	hour := 24

	_, err := NewLoader().LoadWithOverrides(&ConfigOverrides{RolloverHour: &hour})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "defaults.rollover_hour", cfgErr.Field)
}

func TestLoader_AppliesAllOverrides(t *testing.T) {
	t.Setenv("TS_CONFIG", "")
	dir := t.TempDir()
	zone := "UTC"
	user := "carol"
	rule := "5"
	retries := 2
	addr := ":0"
	metrics := false
	timeout := 5 * time.Second
	verbose := true

	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{
		DBDir:          &dir,
		Zone:           &zone,
		UserID:         &user,
		RoundingRule:   &rule,
		MaxRetries:     &retries,
		ExportDir:      &dir,
		BackupDir:      &dir,
		ServerAddr:     &addr,
		MetricsEnabled: &metrics,
		Timeout:        &timeout,
		Verbose:        &verbose,
	})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Database.Dir)
	assert.Equal(t, "UTC", cfg.Time.Zone)
	assert.Equal(t, "carol", cfg.User.ID)
	assert.Equal(t, "5", cfg.Defaults.RoundingRule)
	assert.Equal(t, 2, cfg.Queue.MaxRetries)
	assert.Equal(t, dir, cfg.Export.Dir)
	assert.Equal(t, dir, cfg.Backup.Dir)
	assert.Equal(t, ":0", cfg.Server.Addr)
	assert.False(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("two", time.Second))
	assert.Equal(t, 4, ParseIntWithFallback("4", 1))
	assert.Equal(t, 1, ParseIntWithFallback("four", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("yes please", false))
	assert.Equal(t, uint32(0o700), ParseUint32WithFallback("700", 8, 0o755))
	assert.Equal(t, uint32(0o755), ParseUint32WithFallback("9z", 8, 0o755))
}
