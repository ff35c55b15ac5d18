package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_bind = "0.0.0.0:9000"

[sampler]
cadence_seconds = 2.0

[adaptation]
cooldown_seconds = 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.APIBind)
	assert.Equal(t, 2*time.Second, cfg.SamplerCadence())
	assert.Equal(t, 30*time.Second, cfg.AdaptationCooldown())
	// Untouched values keep defaults.
	assert.Equal(t, 4.0, cfg.Sampler.MinSpacingSeconds)
	assert.Equal(t, 7, cfg.Analysis.WindowDays)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cadence", func(c *Config) { c.Sampler.CadenceSeconds = 0 }},
		{"negative spacing", func(c *Config) { c.Sampler.MinSpacingSeconds = -1 }},
		{"zero cooldown", func(c *Config) { c.Adaptation.CooldownSeconds = 0 }},
		{"threshold above one", func(c *Config) { c.Adaptation.ConfidenceThreshold = 1.5 }},
		{"zero threshold", func(c *Config) { c.Adaptation.ConfidenceThreshold = 0 }},
		{"zero window", func(c *Config) { c.Analysis.WindowDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
