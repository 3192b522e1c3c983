// Package config handles configuration loading and validation for ralph.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// WorkDir is where the task sources live: the .beads marker
	// directory and the checklist file are resolved against it.
	WorkDir string `yaml:"work_dir"`

	// Checklist is the markdown fallback task file, relative to WorkDir
	// unless absolute.
	Checklist string `yaml:"checklist"`

	Beads   BeadsConfig   `yaml:"beads"`
	Tasks   TasksConfig   `yaml:"tasks"`
	Timeout TimeoutConfig `yaml:"timeout"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// BeadsConfig holds tracker CLI settings.
type BeadsConfig struct {
	// Path is the bd binary name or path.
	Path string `yaml:"path"`
}

// TasksConfig holds task lifecycle settings.
type TasksConfig struct {
	// Assignee is recorded on claimed tracker tasks.
	Assignee string `yaml:"assignee"`
}

// TimeoutConfig holds subprocess deadline settings.
type TimeoutConfig struct {
	// GraceSeconds is the SIGTERM-to-SIGKILL window for the native
	// fallback.
	GraceSeconds int `yaml:"grace_seconds"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkDir:   ".",
		Checklist: "PLAN.md",
		Beads:     BeadsConfig{Path: "bd"},
		Tasks:     TasksConfig{Assignee: "ralph"},
		Timeout:   TimeoutConfig{GraceSeconds: 2},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.WorkDir == "" {
		c.WorkDir = defaults.WorkDir
	}
	if c.Checklist == "" {
		c.Checklist = defaults.Checklist
	}
	if c.Beads.Path == "" {
		c.Beads.Path = defaults.Beads.Path
	}
	if c.Tasks.Assignee == "" {
		c.Tasks.Assignee = defaults.Tasks.Assignee
	}
	if c.Timeout.GraceSeconds == 0 {
		c.Timeout.GraceSeconds = defaults.Timeout.GraceSeconds
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.Beads.Path == "" {
		return fmt.Errorf("beads.path cannot be empty")
	}
	if c.Timeout.GraceSeconds < 0 {
		return fmt.Errorf("timeout.grace_seconds cannot be negative")
	}
	return nil
}

// ChecklistPath resolves the checklist file against WorkDir.
func (c *Config) ChecklistPath() string {
	if filepath.IsAbs(c.Checklist) {
		return c.Checklist
	}
	return filepath.Join(c.WorkDir, c.Checklist)
}

// PointerPath is the durable current-task pointer file.
func (c *Config) PointerPath() string {
	return filepath.Join(c.DataDir, "current-task")
}

// SessionPath is the durable session record file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}
