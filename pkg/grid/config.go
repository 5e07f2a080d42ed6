package grid

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobeOutputName is the default point file for a multi-depth grid.
const GlobeOutputName = "points_globe.txt"

// Config holds the generator parameters.
type Config struct {
	// Depth of the single-shell grid, km.
	Depth float64 `yaml:"depth"`
	// ReferenceDepth is the shell whose layout is replicated to Depths.
	ReferenceDepth float64   `yaml:"reference_depth"`
	Distance       float64   `yaml:"distance"`
	SigmaH         float64   `yaml:"sigma_h"`
	SigmaV         float64   `yaml:"sigma_v"`
	Depths         []float64 `yaml:"depths"`
	Output         string    `yaml:"output"`
}

// DefaultConfig returns the standard production parameters.
func DefaultConfig() Config {
	return Config{
		Depth:          2000,
		ReferenceDepth: 1000,
		Distance:       1100,
		SigmaH:         100,
		SigmaV:         100,
		Depths:         []float64{200, 600, 1000, 1500, 2000, 2400, 2800},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. The result is not
// validated; callers check the fields they use with ValidateShell or
// ValidateGlobe.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.ValidateShell(); err != nil {
		return err
	}
	return c.ValidateGlobe()
}

// ValidateShell checks the fields used by a single-depth grid.
func (c Config) ValidateShell() error {
	if err := checkDepth("depth", c.Depth); err != nil {
		return err
	}
	if err := checkDistance(c.Distance); err != nil {
		return err
	}
	return checkSigmas(c.SigmaH, c.SigmaV)
}

// ValidateGlobe checks the fields used by a multi-depth grid.
func (c Config) ValidateGlobe() error {
	if err := checkDepth("reference_depth", c.ReferenceDepth); err != nil {
		return err
	}
	if err := checkDistance(c.Distance); err != nil {
		return err
	}
	if err := checkSigmas(c.SigmaH, c.SigmaV); err != nil {
		return err
	}
	return checkDepths(c.Depths)
}

// SingleOutputName names the point file of a single-shell grid.
func SingleOutputName(depth, distance float64) string {
	return fmt.Sprintf("points__depth-%skm__dist-%skm.txt", formatKm(depth), formatKm(distance))
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
