package tactical

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the arena geometry and scoring tunables for the engine.
// Zero-valued fields fall back to the defaults at construction, so a
// partial YAML file only overrides what it names.
type Config struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`
	CellSize    float64 `yaml:"cell_size"`

	SectorCols int `yaml:"sector_cols"`
	SectorRows int `yaml:"sector_rows"`

	// OptimalDefenseRadius is the preferred distance of turrets from
	// the Kobayashi Maru at the arena center
	OptimalDefenseRadius float64 `yaml:"optimal_defense_radius"`
	DefenseWeight        float64 `yaml:"defense_weight"`
	InterceptWeight      float64 `yaml:"intercept_weight"`
	ThreatPathTolerance  float64 `yaml:"threat_path_tolerance"`
	HighTrafficThreshold float64 `yaml:"high_traffic_threshold"`
}

// DefaultConfig returns the reference arena tuning
func DefaultConfig() *Config {
	return &Config{
		WorldWidth:           1000,
		WorldHeight:          1000,
		CellSize:             25,
		SectorCols:           8,
		SectorRows:           8,
		OptimalDefenseRadius: 300,
		DefenseWeight:        1,
		InterceptWeight:      1,
		ThreatPathTolerance:  100,
		HighTrafficThreshold: 0.5,
	}
}

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills any field a partial config left at zero
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.WorldWidth <= 0 {
		c.WorldWidth = d.WorldWidth
	}
	if c.WorldHeight <= 0 {
		c.WorldHeight = d.WorldHeight
	}
	if c.CellSize <= 0 {
		c.CellSize = d.CellSize
	}
	if c.SectorCols <= 0 {
		c.SectorCols = d.SectorCols
	}
	if c.SectorRows <= 0 {
		c.SectorRows = d.SectorRows
	}
	if c.OptimalDefenseRadius <= 0 {
		c.OptimalDefenseRadius = d.OptimalDefenseRadius
	}
	if c.DefenseWeight == 0 {
		c.DefenseWeight = d.DefenseWeight
	}
	if c.InterceptWeight == 0 {
		c.InterceptWeight = d.InterceptWeight
	}
	if c.ThreatPathTolerance <= 0 {
		c.ThreatPathTolerance = d.ThreatPathTolerance
	}
	if c.HighTrafficThreshold <= 0 || c.HighTrafficThreshold > 1 {
		c.HighTrafficThreshold = d.HighTrafficThreshold
	}
}
