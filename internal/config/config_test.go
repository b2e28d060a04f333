package config

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"non positive octaves", func(c *Config) { c.Terrain.Octaves = 0 }, "terrain.octaves must be positive"},
		{"non positive frequency", func(c *Config) { c.Terrain.Frequency = 0 }, "terrain.frequency must be positive"},
		{"negative workers", func(c *Config) { c.Terrain.Workers = -1 }, "terrain.workers cannot be negative"},
		{"non positive eviction radius", func(c *Config) { c.Cache.EvictionRadiusBlocks = 0 }, "cache.evictionRadiusBlocks must be positive"},
		{"non positive failure timeout", func(c *Config) { c.Search.FailureTimeout = 0 }, "search.failureTimeout must be positive"},
		{"soft timeout exceeds failure timeout", func(c *Config) { c.Search.SoftTimeout = c.Search.FailureTimeout + 1 }, "search.softTimeout must be positive and not exceed failureTimeout"},
		{"non positive min segment distance", func(c *Config) { c.Search.MinSegmentDistance = 0 }, "search.minSegmentDistance must be positive"},
		{"non positive goal radius", func(c *Config) { c.Search.GoalRadius = 0 }, "search.goalRadius must be positive"},
		{"coarse start size out of range", func(c *Config) { c.Search.CoarseStartSize = 5 }, "search.coarseStartSize must be in [0,4]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Terrain.Seed = 99
	cfg.Search.GoalRadius = 20

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadInvalidConfigurationFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Terrain.Octaves = 0

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terrain.octaves must be positive")
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadYAMLEnvelopeDecodesBase64Payload(t *testing.T) {
	cfg := Default()
	cfg.Terrain.Seed = 42
	cfg.Cache.EvictionRadiusBlocks = 512

	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	envelope := base64.StdEncoding.EncodeToString(raw)

	got, err := LoadYAMLEnvelope(envelope)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadYAMLEnvelopeRejectsMalformedBase64(t *testing.T) {
	_, err := LoadYAMLEnvelope("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestLoadYAMLEnvelopeRejectsInvalidConfiguration(t *testing.T) {
	cfg := Default()
	cfg.Search.SoftTimeout = cfg.Search.FailureTimeout + 1

	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	envelope := base64.StdEncoding.EncodeToString(raw)

	_, err = LoadYAMLEnvelope(envelope)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.softTimeout")
}
