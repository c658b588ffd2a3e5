// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Jobs    string `json:"jobs,omitempty"`    // Path to jobs CSV or JSON file
	Memory  string `json:"memory,omitempty"`  // Path to the question/answer memory JSON file
	Assets  string `json:"assets,omitempty"`  // Path to the stored file assets JSON file
	State   string `json:"state,omitempty"`   // Path to the shared run state file
	Results string `json:"results,omitempty"` // Path to the results CSV

	// Behavior
	Headless       bool `json:"headless,omitempty"`         // Run the browser without a window
	Verbose        bool `json:"verbose,omitempty"`          // Print detailed debug information
	SettleSeconds  int  `json:"settle_seconds,omitempty"`   // Wait after navigation and apply clicks
	PanelSeconds   int  `json:"panel_seconds,omitempty"`    // Wait between panel loop iterations
	MaxPanelRounds int  `json:"max_panel_rounds,omitempty"` // Panel loop iteration cap

	// Storage and control server
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL memory backend; file backend when empty
	ServerAddr   string `json:"server_addr,omitempty"`   // Control server listen address
	PasswordHash string `json:"password_hash,omitempty"` // bcrypt hash guarding the control server
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.SettleSeconds < 0 {
		return fmt.Errorf("config error: 'settle_seconds' must be non-negative")
	}
	if c.PanelSeconds < 0 {
		return fmt.Errorf("config error: 'panel_seconds' must be non-negative")
	}
	if c.MaxPanelRounds < 0 {
		return fmt.Errorf("config error: 'max_panel_rounds' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Jobs != "" {
		if _, err := os.Stat(c.Jobs); os.IsNotExist(err) {
			return fmt.Errorf("config error: jobs file not found: %s", c.Jobs)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Jobs == "" {
		result.Jobs = defaults.Jobs
	}
	if result.Memory == "" {
		result.Memory = defaults.Memory
	}
	if result.Assets == "" {
		result.Assets = defaults.Assets
	}
	if result.State == "" {
		result.State = defaults.State
	}
	if result.Results == "" {
		result.Results = defaults.Results
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ServerAddr == "" {
		result.ServerAddr = defaults.ServerAddr
	}
	if result.PasswordHash == "" {
		result.PasswordHash = defaults.PasswordHash
	}

	// Int fields: use default if zero
	if result.SettleSeconds == 0 {
		result.SettleSeconds = defaults.SettleSeconds
	}
	if result.PanelSeconds == 0 {
		result.PanelSeconds = defaults.PanelSeconds
	}
	if result.MaxPanelRounds == 0 {
		result.MaxPanelRounds = defaults.MaxPanelRounds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
