/*
Package config loads host configuration from YAML files. A missing file
yields the defaults, a present file overrides them field by field.
*/
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swdee/go-framemeta/codec"
	"github.com/swdee/go-framemeta/logging"
)

// LogConfig selects the process wide log level
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error, off
	Level string `yaml:"level"`
}

// TelemetryConfig configures the OTLP trace exporter
type TelemetryConfig struct {
	// Enabled turns span export on
	Enabled bool `yaml:"enabled"`
	// Endpoint is the OTLP gRPC collector address
	Endpoint string `yaml:"endpoint"`
	// ServiceName identifies this process in traces
	ServiceName string `yaml:"service_name"`
	// SampleRate is the trace sampling ratio between 0 and 1
	SampleRate float64 `yaml:"sample_rate"`
}

// CodecConfig carries the message codec defaults a host applies
type CodecConfig struct {
	// SkipUnknown passes unknown payload kinds through instead of failing
	SkipUnknown bool `yaml:"skip_unknown"`
	// Checksum stamps outgoing payloads with a crc32
	Checksum bool `yaml:"checksum"`
}

// NewCodec builds a codec configured per this section
func (c CodecConfig) NewCodec() codec.Codec {
	return codec.Codec{SkipUnknown: c.SkipUnknown, Checksum: c.Checksum}
}

// Config is the root of the host configuration file
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Codec     CodecConfig     `yaml:"codec"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {

	return &Config{
		Log: LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "framemeta",
			SampleRate:  1.0,
		},
		Codec: CodecConfig{},
	}
}

// Load reads a configuration file on top of the defaults. A missing file is
// not an error, the defaults are returned.
func Load(path string) (*Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values no component can honor
func (c *Config) Validate() error {

	var errs []string

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "sample_rate must be between 0 and 1")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			errs = append(errs, "telemetry requires an endpoint")
		}

		if c.Telemetry.ServiceName == "" {
			errs = append(errs, "telemetry requires a service_name")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ApplyLogLevel pushes the configured level onto the process wide knob
func (c *Config) ApplyLogLevel() error {

	level, err := logging.ParseLevel(c.Log.Level)

	if err != nil {
		return err
	}

	logging.SetLevel(level)
	return nil
}
