// Package config loads and validates the engine configuration file.
//
// API credentials for the vision and tutoring model providers are not part
// of this file; they come from environment variables (see internal/llm).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Sampler configures the per-session emotion sampling loop.
type Sampler struct {
	// CadenceSeconds is the fixed tick interval of the sampling loop.
	CadenceSeconds float64 `toml:"cadence_seconds"`
	// MinSpacingSeconds is the minimum time between two issued
	// classification calls, measured from call issuance. It may exceed
	// the cadence.
	MinSpacingSeconds float64 `toml:"min_spacing_seconds"`
}

// Adaptation configures the content simplification policy.
type Adaptation struct {
	CooldownSeconds     float64 `toml:"cooldown_seconds"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// Analysis configures pattern derivation and insight display.
type Analysis struct {
	WindowDays   int `toml:"window_days"`
	InsightCount int `toml:"insight_count"`
}

// Logging configures the structured logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full engine configuration.
type Config struct {
	DBPath  string `toml:"db_path"`
	APIBind string `toml:"api_bind"`

	Sampler    Sampler    `toml:"sampler"`
	Adaptation Adaptation `toml:"adaptation"`
	Analysis   Analysis   `toml:"analysis"`
	Logging    Logging    `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		APIBind: "127.0.0.1:7430",
		Sampler: Sampler{
			CadenceSeconds:    3.5,
			MinSpacingSeconds: 4.0,
		},
		Adaptation: Adaptation{
			CooldownSeconds:     60,
			ConfidenceThreshold: 0.6,
		},
		Analysis: Analysis{
			WindowDays:   7,
			InsightCount: 4,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config file at path, layered over defaults. A missing
// file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath resolves the config file location: ATTUNE_CONFIG env var,
// then $XDG_CONFIG_HOME/attune/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv("ATTUNE_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "attune", "config.toml"), nil
}

// Validate checks ranges on the tunable knobs.
func (c *Config) Validate() error {
	if c.Sampler.CadenceSeconds <= 0 {
		return fmt.Errorf("sampler.cadence_seconds must be positive, got %v", c.Sampler.CadenceSeconds)
	}
	if c.Sampler.MinSpacingSeconds <= 0 {
		return fmt.Errorf("sampler.min_spacing_seconds must be positive, got %v", c.Sampler.MinSpacingSeconds)
	}
	if c.Adaptation.CooldownSeconds <= 0 {
		return fmt.Errorf("adaptation.cooldown_seconds must be positive, got %v", c.Adaptation.CooldownSeconds)
	}
	// Zero is rejected rather than treated as "trigger on anything":
	// downstream consumers read a non-positive threshold as unset and
	// would silently substitute the default.
	if c.Adaptation.ConfidenceThreshold <= 0 || c.Adaptation.ConfidenceThreshold > 1 {
		return fmt.Errorf("adaptation.confidence_threshold must be in (0,1], got %v", c.Adaptation.ConfidenceThreshold)
	}
	if c.Analysis.WindowDays <= 0 {
		return fmt.Errorf("analysis.window_days must be positive, got %d", c.Analysis.WindowDays)
	}
	if c.Analysis.InsightCount <= 0 {
		return fmt.Errorf("analysis.insight_count must be positive, got %d", c.Analysis.InsightCount)
	}
	return nil
}

// SamplerCadence returns the sampling tick interval as a duration.
func (c *Config) SamplerCadence() time.Duration {
	return time.Duration(c.Sampler.CadenceSeconds * float64(time.Second))
}

// SamplerMinSpacing returns the minimum inter-call spacing as a duration.
func (c *Config) SamplerMinSpacing() time.Duration {
	return time.Duration(c.Sampler.MinSpacingSeconds * float64(time.Second))
}

// AdaptationCooldown returns the policy cooldown as a duration.
func (c *Config) AdaptationCooldown() time.Duration {
	return time.Duration(c.Adaptation.CooldownSeconds * float64(time.Second))
}
