package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/pipeline"
)

// Config mirrors the store and pipeline options for file-based setup.
// Omitted fields keep the package defaults.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// StoreConfig configures the vector store.
type StoreConfig struct {
	Dimension     int     `yaml:"dimension"`
	MaxSize       int     `yaml:"max_size"`
	Clusters      int     `yaml:"clusters"`
	SearchBreadth int     `yaml:"search_breadth"`
	Epsilon       float64 `yaml:"epsilon"`
	Backend       string  `yaml:"backend"`
	Seed          int64   `yaml:"seed"`
}

// PipelineConfig configures the transform pipeline.
type PipelineConfig struct {
	Samples   int     `yaml:"samples"`
	Depth     float64 `yaml:"depth"`
	MaxLayers int     `yaml:"max_layers"`
	Bandwidth float64 `yaml:"bandwidth"`
	Damping   float64 `yaml:"damping"`
	NeighborK int     `yaml:"neighbor_k"`
	Seed      int64   `yaml:"seed"`
}

// loadConfig reads the YAML config at path. An empty path yields an empty
// config, so every option keeps its default.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// apply copies the set store fields onto o.
func (c StoreConfig) apply(o *spectra.Options) {
	if c.Dimension > 0 {
		o.Dimension = c.Dimension
	}
	if c.MaxSize > 0 {
		o.MaxSize = c.MaxSize
	}
	if c.Clusters > 0 {
		o.Clusters = c.Clusters
	}
	if c.SearchBreadth > 0 {
		o.SearchBreadth = c.SearchBreadth
	}
	if c.Epsilon > 0 {
		o.Epsilon = c.Epsilon
	}
	if c.Backend != "" {
		o.Backend = spectra.Backend(c.Backend)
	}
	if c.Seed != 0 {
		o.Seed = c.Seed
	}
}

// apply copies the set pipeline fields onto o.
func (c PipelineConfig) apply(o *pipeline.Options) {
	if c.Samples > 0 {
		o.Samples = c.Samples
	}
	if c.Depth > 0 {
		o.Depth = c.Depth
	}
	if c.MaxLayers > 0 {
		o.MaxLayers = c.MaxLayers
	}
	if c.Bandwidth > 0 {
		o.Bandwidth = c.Bandwidth
	}
	if c.Damping > 0 {
		o.Damping = c.Damping
	}
	if c.NeighborK > 0 {
		o.NeighborK = c.NeighborK
	}
	if c.Seed != 0 {
		o.Seed = c.Seed
	}
}
