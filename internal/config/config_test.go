package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 20, cfg.ErrorWeight)
	assert.Equal(t, 5, cfg.WarningWeight)
	assert.Equal(t, []float64{5, 10, 20}, []float64{cfg.MinorPct, cfg.MajorPct, cfg.CriticalPct})
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BUDGETFLOW_DB", "/tmp/bf.db")
	t.Setenv("BUDGETFLOW_LOG_USE_CASES", "true")
	t.Setenv("BUDGETFLOW_ERROR_WEIGHT", "25")
	t.Setenv("BUDGETFLOW_WARNING_WEIGHT", "2")
	t.Setenv("BUDGETFLOW_MINOR_PCT", "2.5")
	t.Setenv("BUDGETFLOW_MAJOR_PCT", "7.5")
	t.Setenv("BUDGETFLOW_CRITICAL_PCT", "15")

	cfg := Load()

	assert.Equal(t, "/tmp/bf.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 25, cfg.ErrorWeight)
	assert.Equal(t, 2, cfg.WarningWeight)
	assert.Equal(t, 2.5, cfg.MinorPct)
	assert.Equal(t, 7.5, cfg.MajorPct)
	assert.Equal(t, 15.0, cfg.CriticalPct)
}

func TestLoad_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("BUDGETFLOW_ERROR_WEIGHT", "lots")
	t.Setenv("BUDGETFLOW_WARNING_WEIGHT", "-3")
	t.Setenv("BUDGETFLOW_CRITICAL_PCT", "abc")

	cfg := Load()

	assert.Equal(t, 20, cfg.ErrorWeight)
	assert.Equal(t, 5, cfg.WarningWeight)
	assert.Equal(t, 20.0, cfg.CriticalPct)
}

func TestLoad_UnorderedThresholdsFallBack(t *testing.T) {
	t.Setenv("BUDGETFLOW_MINOR_PCT", "30")

	cfg := Load()

	assert.Equal(t, 5.0, cfg.MinorPct)
	assert.Equal(t, 10.0, cfg.MajorPct)
	assert.Equal(t, 20.0, cfg.CriticalPct)
}
