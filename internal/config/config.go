// Package config loads the ledgersync.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name inside a project directory.
const FileName = "ledgersync.yaml"

// Config represents the top-level ledgersync.yaml configuration.
type Config struct {
	Gateway      GatewayConfig `yaml:"gateway"`
	Sync         SyncConfig    `yaml:"sync"`
	Roots        RootsConfig   `yaml:"roots"`
	LedgerGroups []string      `yaml:"ledger_groups,omitempty"`
	Git          GitConfig     `yaml:"git"`
}

// GatewayConfig locates the accounting gateway.
type GatewayConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call gateway timeout.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// SyncConfig controls sync cycle behavior.
type SyncConfig struct {
	BatchSize  int    `yaml:"batch_size"`
	Schedule   string `yaml:"schedule"`    // cron expression for the watch command
	BooksBegin string `yaml:"books_begin"` // "YYYY-MM-DD", start of tracked period
}

// BooksBeginDate parses the start of the tracked period.
func (s SyncConfig) BooksBeginDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", s.BooksBegin)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing books_begin %q: %w", s.BooksBegin, err)
	}
	return t, nil
}

// RootsConfig names the two classification root groups.
type RootsConfig struct {
	Receivables string `yaml:"receivables"`
	Payables    string `yaml:"payables"`
}

// GitConfig controls snapshot publication.
type GitConfig struct {
	AutoPublish bool   `yaml:"auto_publish"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledgersync.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(gatewayURL string) *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:            gatewayURL,
			TimeoutSeconds: 30,
		},
		Sync: SyncConfig{
			BatchSize:  20,
			Schedule:   "@every 15m",
			BooksBegin: "2020-04-01",
		},
		Roots: RootsConfig{
			Receivables: "Receivables",
			Payables:    "Payables",
		},
		Git: GitConfig{
			AutoPublish: true,
			AuthorName:  "Ledger Sync",
			AuthorEmail: "sync@ledgersync.dev",
		},
	}
}
