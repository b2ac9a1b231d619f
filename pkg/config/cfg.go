// Package config loads and validates the engine's YAML configuration.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"wren/pkg/style"
	"wren/pkg/values"
)

//go:embed config.yaml
var defaultConfig []byte

// ErrInvalidConfig is returned when a configuration decodes but fails
// validation.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	ViewportConfig struct {
		Width  int     `yaml:"width" validate:"gt=0"`
		Height int     `yaml:"height" validate:"gt=0"`
		Scale  float32 `yaml:"scale" validate:"gt=0"`
	}

	CascadeConfig struct {
		OriginOrder     []string `yaml:"origin_order" validate:"len=4,unique,dive,oneof=user-agent user author embedded"`
		Parallel        bool     `yaml:"parallel"`
		Workers         int      `yaml:"workers" validate:"gte=0"`
		UserStylesheets []string `yaml:"user_stylesheets" validate:"dive,required"`
	}

	ScriptsConfig struct {
		Enabled bool          `yaml:"enabled"`
		Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	RenderConfig struct {
		Background string `yaml:"background" validate:"hexcolor"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Viewport ViewportConfig `yaml:"viewport"`
		Cascade  CascadeConfig  `yaml:"cascade"`
		Scripts  ScriptsConfig  `yaml:"scripts"`
		Render   RenderConfig   `yaml:"render"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields defined above are accepted, so yaml.Unmarshal is not enough
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfiguration reads the configuration file at path on top of the
// embedded defaults and validates the result. An empty path yields the
// defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare returns the embedded default configuration.
func Prepare() ([]byte, error) {
	return bytes.Clone(defaultConfig), nil
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Origins converts the configured origin names.
func (c *CascadeConfig) Origins() ([]style.Origin, error) {
	order := make([]style.Origin, 0, len(c.OriginOrder))
	for _, name := range c.OriginOrder {
		o, ok := style.ParseOrigin(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown origin %q", ErrInvalidConfig, name)
		}
		order = append(order, o)
	}
	return order, nil
}

// BackgroundColor returns the canvas color, white if it does not parse.
func (r *RenderConfig) BackgroundColor() values.RGBA {
	if c, ok := values.ParseHexColor(r.Background); ok {
		return c
	}
	return values.White
}
