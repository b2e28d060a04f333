// Package config loads the engine's tunables from JSON (the default
// on-disk format) or a base64-enveloped YAML payload (for hosts that pass
// configuration inline via an environment variable), mirroring the
// teacher's chunkserver config/config_sync split.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the terrain, cache and search settings that cmd/pathfinder
// loads and validates. Only Terrain.Seed and Search.FailureTimeout are
// passed on to the engine; the other fields are not read outside this
// package.
type Config struct {
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Search  SearchConfig  `json:"search" yaml:"search"`
}

// TerrainConfig tunes the deterministic Nether generator.
type TerrainConfig struct {
	Seed        int64   `json:"seed" yaml:"seed"`
	Frequency   float64 `json:"frequency" yaml:"frequency"`
	Amplitude   float64 `json:"amplitude" yaml:"amplitude"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity"`
	Workers     int     `json:"workers" yaml:"workers"`
}

// CacheConfig tunes the chunk cache's retention policy.
type CacheConfig struct {
	EvictionRadiusBlocks int `json:"evictionRadiusBlocks" yaml:"evictionRadiusBlocks"`
}

// SearchConfig tunes the A* driver.
type SearchConfig struct {
	FailureTimeout     time.Duration `json:"failureTimeout" yaml:"failureTimeout"`
	SoftTimeout        time.Duration `json:"softTimeout" yaml:"softTimeout"`
	MinSegmentDistance float64       `json:"minSegmentDistance" yaml:"minSegmentDistance"`
	GoalRadius         float64       `json:"goalRadius" yaml:"goalRadius"`
	CoarseStartSize    int           `json:"coarseStartSize" yaml:"coarseStartSize"` // 0=X1 .. 4=X16
}

// Default returns the engine's baseline configuration.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:        1337,
			Frequency:   0.045,
			Amplitude:   1.0,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
			Workers:     0,
		},
		Cache: CacheConfig{
			EvictionRadiusBlocks: 256,
		},
		Search: SearchConfig{
			FailureTimeout:     30 * time.Second,
			SoftTimeout:        500 * time.Millisecond,
			MinSegmentDistance: 5,
			GoalRadius:         16,
			CoarseStartSize:    1, // X2
		},
	}
}

// Load reads JSON configuration from path, falling back to defaults for an
// empty path. The file's fields override Default()'s; Validate runs before
// returning.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}

// LoadYAMLEnvelope decodes a base64-enveloped YAML payload on top of
// Default(), for hosts that pass configuration inline via an environment
// variable rather than a file (mirrors cmd/chunkserver/config_sync.go's
// CHUNK_CONFIG_YAML_B64 handling).
func LoadYAMLEnvelope(b64 string) (*Config, error) {
	cfg := Default()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("config: decode yaml envelope: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml envelope: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate yaml envelope: %w", err)
	}
	return cfg, nil
}

// Validate reports the first structurally invalid field found.
func (c *Config) Validate() error {
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Terrain.Frequency <= 0 {
		return errors.New("terrain.frequency must be positive")
	}
	if c.Terrain.Workers < 0 {
		return errors.New("terrain.workers cannot be negative")
	}
	if c.Cache.EvictionRadiusBlocks <= 0 {
		return errors.New("cache.evictionRadiusBlocks must be positive")
	}
	if c.Search.FailureTimeout <= 0 {
		return errors.New("search.failureTimeout must be positive")
	}
	if c.Search.SoftTimeout <= 0 || c.Search.SoftTimeout > c.Search.FailureTimeout {
		return errors.New("search.softTimeout must be positive and not exceed failureTimeout")
	}
	if c.Search.MinSegmentDistance <= 0 {
		return errors.New("search.minSegmentDistance must be positive")
	}
	if c.Search.GoalRadius <= 0 {
		return errors.New("search.goalRadius must be positive")
	}
	if c.Search.CoarseStartSize < 0 || c.Search.CoarseStartSize > 4 {
		return errors.New("search.coarseStartSize must be in [0,4]")
	}
	return nil
}
