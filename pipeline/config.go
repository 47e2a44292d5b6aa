package pipeline

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/neighbourlist"
)

// Config is the stack configuration.
type Config struct {
	// Cutoff is the neighbour search radius of the base pair list.
	Cutoff float64 `yaml:"cutoff"`
	// ConsiderGhostNeighbours builds neighbour rows for ghost atoms.
	ConsiderGhostNeighbours bool `yaml:"consider_ghost_neighbours"`
	// Strict adds a strict stage above the pair list.
	Strict bool `yaml:"strict"`
	// StrictCutoff is the strict stage radius; 0 means Cutoff. It must not
	// exceed Cutoff.
	StrictCutoff float64 `yaml:"strict_cutoff,omitempty"`
	// NeighbourListType is "half" or "full".
	NeighbourListType string `yaml:"neighbour_list_type"`
	// HalfViaConversion builds a full list and converts it, instead of
	// building a half list natively.
	HalfViaConversion bool `yaml:"half_via_conversion"`
	// Skin is the binning margin of the base pair list.
	Skin float64 `yaml:"skin"`
	// MaxOrder is the highest cluster order; ≥ 2.
	MaxOrder int `yaml:"max_order"`
	// Directions attaches direction vectors on the strict stage.
	Directions bool `yaml:"directions"`
	// MaxBins caps the cell-list size.
	MaxBins int `yaml:"max_bins"`
}

// DefaultConfig returns a full pair stack with a strict stage at the base
// cutoff.
func DefaultConfig() Config {
	return Config{
		Cutoff:                  3.0,
		ConsiderGhostNeighbours: true,
		Strict:                  true,
		NeighbourListType:       manager.Full.String(),
		Skin:                    neighbourlist.DefaultSkin,
		MaxOrder:                2,
		Directions:              true,
		MaxBins:                 neighbourlist.DefaultMaxBins,
	}
}

// ListType parses NeighbourListType.
func (c Config) ListType() (manager.ListType, error) { return manager.ParseListType(c.NeighbourListType) }

// EffectiveStrictCutoff resolves the zero StrictCutoff to Cutoff.
func (c Config) EffectiveStrictCutoff() float64 {
	if c.StrictCutoff == 0 {
		return c.Cutoff
	}

	return c.StrictCutoff
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	if !finite(c.Cutoff) || c.Cutoff <= 0 {
		return fmt.Errorf("cutoff %g: %w", c.Cutoff, manager.ErrBadCutoff)
	}
	if !finite(c.Skin) || c.Skin < 0 {
		return fmt.Errorf("skin %g: %w", c.Skin, manager.ErrBadCutoff)
	}
	if !finite(c.StrictCutoff) || c.StrictCutoff < 0 {
		return fmt.Errorf("strict_cutoff %g: %w", c.StrictCutoff, manager.ErrBadCutoff)
	}
	if c.StrictCutoff > c.Cutoff {
		return fmt.Errorf("strict_cutoff %g > cutoff %g: %w", c.StrictCutoff, c.Cutoff, manager.ErrStrictCutoff)
	}
	if _, err := c.ListType(); err != nil {
		return err
	}
	if c.MaxOrder < 2 {
		return fmt.Errorf("max_order %d: %w", c.MaxOrder, ErrConfig)
	}
	if c.MaxBins <= 0 {
		return fmt.Errorf("max_bins %d: %w", c.MaxBins, ErrConfig)
	}

	return nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigOrDefault returns DefaultConfig for an empty path.
func LoadConfigOrDefault(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	return LoadConfig(path)
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
