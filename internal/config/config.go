// Package config loads the cortex-refactor configuration from
// .cortex-refactor/config.yml with environment variable overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/mvp-joe/cortex-refactor/internal/analysis"
)

// Config represents the complete cortex-refactor configuration.
type Config struct {
	Naming   NamingConfig   `yaml:"naming" mapstructure:"naming"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
}

// NamingConfig controls identifier policy for generated names.
type NamingConfig struct {
	// AllowUnderscorePrefix permits extracted function names starting with
	// "_". This is a lint, not a language requirement; the default rejects
	// them to match common style guides.
	AllowUnderscorePrefix bool `yaml:"allow_underscore_prefix" mapstructure:"allow_underscore_prefix"`
}

// AnalysisConfig carries the subject-language vocabulary the analyzers
// need. Both sets are configuration so a different dynamically-typed
// subject language can swap them out.
type AnalysisConfig struct {
	Builtins        []string `yaml:"builtins" mapstructure:"builtins"`                   // names never treated as extract inputs
	SideEffectCalls []string `yaml:"side_effect_calls" mapstructure:"side_effect_calls"` // calls that make a function unsafe to inline
}

// HistoryConfig defines where refactoring records are persisted.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // SQLite database path; default ~/.cortex-refactor/history.db
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Naming: NamingConfig{
			AllowUnderscorePrefix: false,
		},
		Analysis: AnalysisConfig{
			Builtins:        analysis.DefaultBuiltins(),
			SideEffectCalls: analysis.DefaultSideEffectCalls(),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".cortex-refactor", "history.db")
}
