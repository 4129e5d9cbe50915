package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 7.2, cfg.Currency.CNYRate)
	assert.Equal(t, "_", cfg.Report.MIDSeparator)
	assert.Equal(t, 3, cfg.Scheduler.SyncLookbackDays)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ADLENS_CURRENCY_CNY_RATE", "6.8")
	t.Setenv("ADLENS_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6.8, cfg.Currency.CNYRate)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsInvalidRate(t *testing.T) {
	t.Setenv("ADLENS_CURRENCY_CNY_RATE", "0")

	_, err := Load()
	require.Error(t, err)
}
