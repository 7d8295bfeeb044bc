// ABOUTME: Configuration management for the harmonic sorter
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"harmonic-sorter/formats"
	"harmonic-sorter/optimizer"
	"harmonic-sorter/solver"
)

// Config holds the tunable settings shared by the CLI, viewer and HTTP server
type Config struct {
	// Optimization
	EnergyMode      optimizer.EnergyMode `toml:"energy_mode"`
	ExactKeyLimit   int                  `toml:"exact_key_limit"`    // largest key set solved exactly (max 20)
	MaxTwoOptPasses int                  `toml:"max_two_opt_passes"` // heuristic bound above the exact limit

	// Input/output
	OutputFormat string `toml:"output_format"` // "" keeps the input's format
	LoadWorkers  int    `toml:"load_workers"`  // concurrent audio tag readers
	BatchWorkers int    `toml:"batch_workers"` // concurrent playlists in batch mode (0 = CPU count)

	// HTTP API
	ListenAddr string `toml:"listen_addr"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/harmonic-sorter/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./harmonic-sorter.toml"); err == nil {
		return "./harmonic-sorter.toml"
	}

	// Then try ~/.config/harmonic-sorter/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./harmonic-sorter.toml"
	}

	return filepath.Join(home, ".config", "harmonic-sorter", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Settings missing from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		EnergyMode:      optimizer.RampUp,
		ExactKeyLimit:   solver.MaxExactKeys,
		MaxTwoOptPasses: solver.DefaultMaxTwoOptPasses,
		LoadWorkers:     8,
		BatchWorkers:    0,
		ListenAddr:      "127.0.0.1:8080",
	}
}

// Validate checks value ranges
func (c Config) Validate() error {
	if !c.EnergyMode.Valid() {
		return fmt.Errorf("energy_mode: unknown mode %s", c.EnergyMode)
	}

	if c.ExactKeyLimit < 0 || c.ExactKeyLimit > solver.MaxExactKeys {
		return fmt.Errorf("exact_key_limit: %d outside 0-%d", c.ExactKeyLimit, solver.MaxExactKeys)
	}

	if c.MaxTwoOptPasses < 1 {
		return fmt.Errorf("max_two_opt_passes: %d must be at least 1", c.MaxTwoOptPasses)
	}

	if c.LoadWorkers < 0 || c.BatchWorkers < 0 {
		return fmt.Errorf("worker counts must not be negative (load_workers=%d, batch_workers=%d)", c.LoadWorkers, c.BatchWorkers)
	}

	if c.OutputFormat != "" {
		if _, err := formats.ParseFormat(c.OutputFormat); err != nil {
			return fmt.Errorf("output_format: %w", err)
		}
	}

	return nil
}

// Solver builds a path solver from the optimization settings
func (c Config) Solver(debugf func(format string, args ...interface{})) *solver.Solver {
	return solver.New(
		solver.WithExactLimit(c.ExactKeyLimit),
		solver.WithMaxPasses(c.MaxTwoOptPasses),
		solver.WithDebugf(debugf),
	)
}
