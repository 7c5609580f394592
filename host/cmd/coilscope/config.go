package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional coilscope configuration file. Flags override it.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Capture CaptureConfig `yaml:"capture"`
}

// InputConfig selects the telemetry source.
type InputConfig struct {
	// Device is a serial device path; empty means stdin.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// OutputConfig controls the live display.
type OutputConfig struct {
	// Mode is "frames" (one line per frame) or "meter" (live bar).
	Mode string `yaml:"mode"`
}

// CaptureConfig controls recording artifacts.
type CaptureConfig struct {
	Database  string `yaml:"database"`  // SQLite path, empty disables
	Waterfall string `yaml:"waterfall"` // PNG path, empty disables
	MaxFrames int    `yaml:"maxFrames"` // stop after this many frames, 0 = unlimited
}

// DefaultConfig returns the defaults used when no file is given.
func DefaultConfig() Config {
	return Config{
		Input:  InputConfig{Baud: 115200},
		Output: OutputConfig{Mode: "frames"},
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
