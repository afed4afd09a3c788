package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"powersensor/host/calib"
)

// Config represents the monitor configuration.
type Config struct {
	Serial   SerialConfig    `yaml:"serial"`
	Board    string          `yaml:"board"`
	Channels []ChannelConfig `yaml:"channels"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port          string `yaml:"port"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms"`
}

// ChannelConfig names a transmit-buffer slot and maps its reading to
// physical units: value = Slope*reading + Offset.
type ChannelConfig struct {
	Name   string  `yaml:"name"`
	Unit   string  `yaml:"unit"`
	Slope  float32 `yaml:"slope"`
	Offset float32 `yaml:"offset"`
}

// fullScale is the published reading of a 1.1V input.
const fullScale = 65472

// Default returns a configuration for the 5-channel sensor with the
// nominal 1.1V reference mapping and no calibration applied.
func Default() *Config {
	nominal := float32(1.1) / fullScale
	return &Config{
		Serial: SerialConfig{
			Port:          "/dev/ttyACM0",
			Baud:          115200,
			ReadTimeoutMS: 100,
		},
		Board: "powersensor-v0.2",
		Channels: []ChannelConfig{
			{Name: "PA0", Unit: "V", Slope: nominal},
			{Name: "PA1", Unit: "V", Slope: nominal},
			{Name: "PA2", Unit: "V", Slope: nominal},
			{Name: "PA3", Unit: "V", Slope: nominal},
			{Name: "PA7", Unit: "V", Slope: nominal},
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("at least one channel must be configured")
	}
	for i, ch := range c.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channels[%d]: name is required", i)
		}
	}
	return nil
}

// Lines returns the calibration line of every channel, in slot order.
func (c *Config) Lines() []calib.Line {
	lines := make([]calib.Line, len(c.Channels))
	for i, ch := range c.Channels {
		lines[i] = calib.Line{Slope: ch.Slope, Offset: ch.Offset}
	}
	return lines
}

// SetLine stores a fitted calibration for the named channel.
func (c *Config) SetLine(name string, line calib.Line) error {
	for i := range c.Channels {
		if c.Channels[i].Name == name {
			c.Channels[i].Slope = line.Slope
			c.Channels[i].Offset = line.Offset
			return nil
		}
	}
	return fmt.Errorf("unknown channel %q", name)
}
