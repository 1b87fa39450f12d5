// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds everything main needs to wire the application.
type Config struct {
	DBPath      string
	LogUseCases bool

	// Completeness score deductions per validation error / warning.
	ErrorWeight   int
	WarningWeight int

	// Reconciliation severity thresholds, in percent. Each must be exceeded.
	MinorPct    float64
	MajorPct    float64
	CriticalPct float64
}

// DefaultConfig returns a Config with the standard weights and thresholds
// and a database under the user's home directory.
func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath(),
		LogUseCases:   false,
		ErrorWeight:   20,
		WarningWeight: 5,
		MinorPct:      5,
		MajorPct:      10,
		CriticalPct:   20,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "budgetflow.db"
	}
	return filepath.Join(home, ".budgetflow", "budgetflow.db")
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or malformed values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BUDGETFLOW_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BUDGETFLOW_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	applyIntEnv(&cfg.ErrorWeight, "BUDGETFLOW_ERROR_WEIGHT")
	applyIntEnv(&cfg.WarningWeight, "BUDGETFLOW_WARNING_WEIGHT")
	applyPctEnv(&cfg.MinorPct, "BUDGETFLOW_MINOR_PCT")
	applyPctEnv(&cfg.MajorPct, "BUDGETFLOW_MAJOR_PCT")
	applyPctEnv(&cfg.CriticalPct, "BUDGETFLOW_CRITICAL_PCT")

	if !(cfg.MinorPct <= cfg.MajorPct && cfg.MajorPct <= cfg.CriticalPct) {
		d := DefaultConfig()
		cfg.MinorPct, cfg.MajorPct, cfg.CriticalPct = d.MinorPct, d.MajorPct, d.CriticalPct
	}
	return cfg
}

func applyIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 100 {
		return
	}
	*dst = n
}

func applyPctEnv(dst *float64, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return
	}
	*dst = f
}
