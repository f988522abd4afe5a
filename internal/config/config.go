package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/rhythms"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
	DefaultDt       = 1.0 / 60
	DefaultFPS      = 60
	DefaultDuration = 10.0
	DefaultDataDir  = "runs"

	// EnvConfig names the config file when --config is not given.
	EnvConfig = "RHYTHMS_CONFIG"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Driver  DriverConfig   `yaml:"driver"`
	DataDir string         `yaml:"data_dir"`
	Rhythms rhythms.Params `yaml:"rhythms"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	LogLevel    string   `yaml:"log_level"`
	Development bool     `yaml:"development"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DriverConfig struct {
	Dt       float64 `yaml:"dt"`
	FPS      int     `yaml:"fps"`
	Duration float64 `yaml:"duration"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			LogLevel:    DefaultLogLevel,
			CORSOrigins: []string{"*"},
		},
		Driver: DriverConfig{
			Dt:       DefaultDt,
			FPS:      DefaultFPS,
			Duration: DefaultDuration,
		},
		DataDir: DefaultDataDir,
		Rhythms: rhythms.DefaultParams(),
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Driver.Dt <= 0 || c.Driver.Dt > dynamo.MaxDelta {
		return invalid("driver.dt must be in (0, %g], got %f", dynamo.MaxDelta, c.Driver.Dt)
	}
	if c.Driver.FPS <= 0 {
		return invalid("driver.fps must be positive, got %d", c.Driver.FPS)
	}
	if c.Driver.Duration < 0 {
		return invalid("driver.duration must not be negative, got %f", c.Driver.Duration)
	}

	r := c.Rhythms
	if len(r.Oscillator.Oscillators) == 0 {
		return invalid("multi_temporal needs at least one oscillator")
	}
	if r.Criticality.Size < 1 {
		return invalid("critical_phi.size must be at least 1, got %d", r.Criticality.Size)
	}
	if r.Tension.Capacity < 1 {
		return invalid("prediction_tension.capacity must be at least 1, got %d", r.Tension.Capacity)
	}
	if r.Vortex.Damping < 0 || r.Vortex.Damping > 1 {
		return invalid("semantic_vortex.damping must be in [0, 1], got %f", r.Vortex.Damping)
	}
	if r.Attention.MaxTargets < 1 || r.Attention.Targets > r.Attention.MaxTargets || r.Attention.Targets < 0 {
		return invalid("attention_wandering targets %d exceed max %d", r.Attention.Targets, r.Attention.MaxTargets)
	}
	return nil
}

// FrameDelta is the wall-clock interval between dashboard frames.
func (c *Config) FrameDelta() time.Duration {
	return time.Second / time.Duration(c.Driver.FPS)
}
