package tileedit

import (
	"fmt"
	"io/ioutil"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for an Editor
type Config struct {
	// in tiles, coordinates run 1..N
	MapWidth  uint `yaml:"width"`
	MapHeight uint `yaml:"height"`
	MapLevels uint `yaml:"levels"`

	// in pixels
	IconSize uint `yaml:"icon_size"`

	// where attached_tiles.json & prefabs.json live
	ProjectDir string `yaml:"project_dir"`

	// chance [0,1] of the random tool placing on any one tile
	RandomChance float64 `yaml:"random_chance"`
	Seed         int64   `yaml:"seed"`

	// category filter lines, eg. /obj or ~/obj/effect
	Filters []string `yaml:"filters"`

	MaxAttachDepth int `yaml:"max_attach_depth"`
}

// DefaultConfig returns an editor config with default settings.
func DefaultConfig() *Config {
	return &Config{
		MapWidth:       100,
		MapHeight:      100,
		MapLevels:      1,
		IconSize:       32,
		RandomChance:   0.5,
		Filters:        DefaultFilter().Lines(),
		MaxAttachDepth: DefaultAttachDepth,
	}
}

// LoadConfig reads a YAML config on top of the defaults. A missing file
// gives the defaults.
func LoadConfig(fname string) (*Config, error) {
	cfg := DefaultConfig()

	fname, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}
	if !fileExists(fname) {
		return cfg, nil
	}

	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", fname, err)
	}

	cfg.ProjectDir, err = homedir.Expand(cfg.ProjectDir)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings are usable.
func (c *Config) Validate() error {
	if c.MapWidth == 0 || c.MapHeight == 0 || c.MapLevels == 0 {
		return fmt.Errorf("map dimensions must be positive, got %dx%dx%d", c.MapWidth, c.MapHeight, c.MapLevels)
	}
	if c.RandomChance < 0 || c.RandomChance > 1 {
		return fmt.Errorf("random_chance must be within [0,1], got %v", c.RandomChance)
	}
	if c.MaxAttachDepth < 0 {
		return fmt.Errorf("max_attach_depth must not be negative")
	}
	return nil
}

// Bounds returns the map bounds: (1,1,1) to (width,height,levels).
func (c *Config) Bounds() Bounds {
	return Bounds{
		Min: Location{X: 1, Y: 1, Z: 1},
		Max: Location{X: int(c.MapWidth), Y: int(c.MapHeight), Z: int(c.MapLevels)},
	}
}
