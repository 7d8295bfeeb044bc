// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing, partial files, validation and default config fallback behavior

package config

import (
	"os"
	"path/filepath"
	"testing"

	"harmonic-sorter/optimizer"
	"harmonic-sorter/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.EnergyMode != optimizer.RampUp {
		t.Errorf("Expected EnergyMode ramp_up, got %s", cfg.EnergyMode)
	}

	if cfg.ExactKeyLimit != solver.MaxExactKeys {
		t.Errorf("Expected ExactKeyLimit %d, got %d", solver.MaxExactKeys, cfg.ExactKeyLimit)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config is invalid: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "harmonic-sorter.toml")

	cfg := DefaultConfig()
	cfg.EnergyMode = optimizer.Wave
	cfg.MaxTwoOptPasses = 50
	cfg.OutputFormat = "rekordbox"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded != cfg {
		t.Errorf("Loaded config mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")

	if err := os.WriteFile(path, []byte("energy_mode = \"ramp-down\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.EnergyMode != optimizer.RampDown {
		t.Errorf("Expected EnergyMode ramp_down, got %s", cfg.EnergyMode)
	}

	if cfg.MaxTwoOptPasses != solver.DefaultMaxTwoOptPasses {
		t.Errorf("Missing setting should keep default %d, got %d", solver.DefaultMaxTwoOptPasses, cfg.MaxTwoOptPasses)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"bad toml":        "energy_mode = ",
		"bad mode":        "energy_mode = \"sideways\"",
		"exact too large": "exact_key_limit = 24",
		"zero passes":     "max_two_opt_passes = 0",
		"bad format":      "output_format = \"wav\"",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadConfig(path)
			if err == nil {
				t.Error("Expected error for invalid config")
			}

			if cfg != DefaultConfig() {
				t.Errorf("Expected defaults on error, got %+v", cfg)
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Loading non-existent file should return defaults without error
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Expected default config, got %+v", cfg)
	}
}

func TestConfigSolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExactKeyLimit = 0

	if s := cfg.Solver(nil); s == nil {
		t.Fatal("Solver returned nil")
	}
}
