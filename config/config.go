package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/masmgr/changeminer/internal/linediff"
)

// FileName is the name of the configuration file looked up by default.
const FileName = ".changeminer.json"

// Config is the root configuration structure.
type Config struct {
	Rename   RenameConfig   `json:"rename"`
	Diff     DiffConfig     `json:"diff"`
	Filters  FilterConfig   `json:"filters"`
	Pipeline PipelineConfig `json:"pipeline"`
	Cache    CacheConfig    `json:"cache"`
}

// RenameConfig holds rename detection options.
type RenameConfig struct {
	Enabled   bool    `json:"enabled"`   // Default: true
	Threshold float64 `json:"threshold"` // Minimum line similarity, default: 0.5
	Limit     int     `json:"limit"`     // Inexact detection skipped above limit² candidate pairs, default: 400
}

// DiffConfig holds line diff options.
type DiffConfig struct {
	MaxLines   int    `json:"maxLines"`   // Per-file line ceiling, default: 100000
	Whitespace string `json:"whitespace"` // exact, ignore-trailing, ignore-all
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include  []string `json:"include"`
	Exclude  []string `json:"exclude"`
	Suffixes []string `json:"suffixes"`
}

// PipelineConfig holds concurrency options.
type PipelineConfig struct {
	Workers int `json:"workers"` // 0 means one per CPU
}

// CacheConfig holds object cache sizes for the repository store.
type CacheConfig struct {
	Blobs int `json:"blobs"` // Default: 1024
	Trees int `json:"trees"` // Default: 64
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Rename: RenameConfig{
			Enabled:   true,
			Threshold: 0.5,
			Limit:     400,
		},
		Diff: DiffConfig{
			MaxLines:   100000,
			Whitespace: linediff.WhitespaceExact.String(),
		},
		Filters: FilterConfig{
			Include:  []string{},
			Exclude:  []string{},
			Suffixes: []string{},
		},
		Pipeline: PipelineConfig{
			Workers: 0,
		},
		Cache: CacheConfig{
			Blobs: 1024,
			Trees: 64,
		},
	}
}

// Validate checks that values are within range.
func (c *Config) Validate() error {
	if c.Rename.Threshold < 0 || c.Rename.Threshold > 1 {
		return fmt.Errorf("rename.threshold must be within [0,1], got %v", c.Rename.Threshold)
	}
	if c.Rename.Limit < 0 {
		return fmt.Errorf("rename.limit must not be negative, got %d", c.Rename.Limit)
	}
	if c.Diff.MaxLines < 0 {
		return fmt.Errorf("diff.maxLines must not be negative, got %d", c.Diff.MaxLines)
	}
	if _, err := linediff.ParseWhitespace(c.Diff.Whitespace); err != nil {
		return fmt.Errorf("diff.whitespace: %w", err)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must not be negative, got %d", c.Pipeline.Workers)
	}
	if c.Cache.Blobs <= 0 || c.Cache.Trees <= 0 {
		return fmt.Errorf("cache sizes must be positive, got blobs=%d trees=%d", c.Cache.Blobs, c.Cache.Trees)
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
// With an empty path, FileName is looked up in the working directory and
// then in the home directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
