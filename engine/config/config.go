// Package config loads the YAML configuration of a rendering application: the pipeline
// settings, the window and an initial set of lights.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the size of a configuration file.
const maxConfigSize = 1 << 20

// ErrInvalidConfig is returned for configuration values that cannot be applied.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of a configuration file.
type Config struct {
	Flavor        string             `yaml:"flavor"`
	Background    *common.ColorValue `yaml:"background"`
	Clear         *bool              `yaml:"clear"` // pointer to distinguish unset vs false
	Ambient       *common.ColorValue `yaml:"ambient"`
	SlotPolicy    string             `yaml:"slot_policy"`
	RefineWorkers int                `yaml:"refine_workers"`
	Window        WindowConfig       `yaml:"window"`
	Lights        []LightConfig      `yaml:"lights"`
}

// WindowConfig configures the application window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LightConfig describes one light.
type LightConfig struct {
	Kind        string             `yaml:"kind"`
	Active      *bool              `yaml:"active"`
	Color       *common.ColorValue `yaml:"color"`
	Position    [4]float32         `yaml:"position"`
	Attenuation AttenuationConfig  `yaml:"attenuation"`
}

// AttenuationConfig describes an attenuation model. Type is constant, quadratic or spherical.
type AttenuationConfig struct {
	Type      string  `yaml:"type"`
	Intensity float32 `yaml:"intensity"`
	Distance  float32 `yaml:"distance"`
	K0        float32 `yaml:"k0"`
	K1        float32 `yaml:"k1"`
	K2        float32 `yaml:"k2"`
}

// Load reads and parses a configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Config: the parsed configuration
//   - error: non-nil if the file cannot be read, is too large or fails to parse
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrInvalidConfig, path, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	common.Logger().Info("loaded config", "path", path, "flavor", cfg.Flavor, "lights", len(cfg.Lights))
	return cfg, nil
}

// Parse parses and validates configuration bytes.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: a yaml error or ErrInvalidConfig
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated value and numeric range.
//
// Returns:
//   - error: ErrInvalidConfig describing the first problem found
func (c *Config) Validate() error {
	if _, err := technique.ParseFlavor(c.Flavor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := light.ParseSlotPolicy(c.SlotPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RefineWorkers < 0 {
		return fmt.Errorf("%w: refine_workers must not be negative", ErrInvalidConfig)
	}
	if len(c.Lights) > light.MaxMaskLights {
		return fmt.Errorf("%w: %d lights, at most %d", ErrInvalidConfig, len(c.Lights), light.MaxMaskLights)
	}
	for i, l := range c.Lights {
		if _, err := parseKind(l.Kind); err != nil {
			return fmt.Errorf("%w: lights[%d]: %w", ErrInvalidConfig, i, err)
		}
		if _, err := l.Attenuation.build(); err != nil {
			return fmt.Errorf("%w: lights[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline options. The configuration
// must have passed Validate.
//
// Returns:
//   - []pipeline.PipelineBuilderOption: the options
func (c *Config) PipelineOptions() []pipeline.PipelineBuilderOption {
	flavor, _ := technique.ParseFlavor(c.Flavor)
	policy, _ := light.ParseSlotPolicy(c.SlotPolicy)

	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithFlavor(flavor),
		pipeline.WithSlotPolicy(policy),
		pipeline.WithRefineWorkers(c.RefineWorkers),
	}
	if c.Background != nil {
		opts = append(opts, pipeline.WithBackground(*c.Background))
	}
	if c.Clear != nil && !*c.Clear {
		opts = append(opts, pipeline.WithoutBackground())
	}
	if c.Ambient != nil {
		opts = append(opts, pipeline.WithAmbient(*c.Ambient))
	}
	return opts
}

// BuildLights creates the configured lights in file order. The configuration must have
// passed Validate.
//
// Returns:
//   - []light.Light: the lights
func (c *Config) BuildLights() []light.Light {
	lights := make([]light.Light, 0, len(c.Lights))
	for _, lc := range c.Lights {
		kind, _ := parseKind(lc.Kind)
		att, _ := lc.Attenuation.build()
		opts := []light.LightBuilderOption{
			light.WithPosition(lc.Position[0], lc.Position[1], lc.Position[2], lc.Position[3]),
			light.WithAttenuation(att),
		}
		if lc.Active != nil {
			opts = append(opts, light.WithActive(*lc.Active))
		}
		if lc.Color != nil {
			opts = append(opts, light.WithColor(*lc.Color))
		}
		lights = append(lights, light.NewLight(kind, opts...))
	}
	return lights
}

func parseKind(s string) (light.Kind, error) {
	switch s {
	case "omni", "":
		return light.KindOmni, nil
	case "hemi":
		return light.KindHemi, nil
	case "directed":
		return light.KindDirected, nil
	default:
		return 0, fmt.Errorf("unknown light kind %q", s)
	}
}

func (a AttenuationConfig) build() (light.Attenuation, error) {
	switch a.Type {
	case "constant", "":
		intensity := common.Coalesce(a.Intensity, 1)
		if intensity < 0 {
			return nil, errors.New("constant attenuation needs a positive intensity")
		}
		return light.Constant{Intensity: intensity}, nil
	case "quadratic":
		if a.K0 == 0 && a.K1 == 0 && a.K2 == 0 {
			return nil, errors.New("quadratic attenuation needs a non-zero coefficient")
		}
		return light.Quadratic{K0: a.K0, K1: a.K1, K2: a.K2}, nil
	case "spherical":
		if a.Intensity <= 0 || a.Distance <= 0 {
			return nil, errors.New("spherical attenuation needs a positive intensity and distance")
		}
		return light.Spherical{Intensity: a.Intensity, Distance: a.Distance}, nil
	default:
		return nil, fmt.Errorf("unknown attenuation type %q", a.Type)
	}
}
