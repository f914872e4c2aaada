// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment represents the build flavor the daemon runs as.
type Environment string

const (
	// Debug exposes world-accessible device nodes for development.
	Debug Environment = "debug"
	// Release restricts device nodes to owner and privileged group.
	Release Environment = "release"
)

// Config is the master configuration for the pmem daemon.
type Config struct {
	// Environment selects debug or release behavior.
	Environment Environment `yaml:"environment"`

	// Devices configures device-node creation.
	Devices DevicesConfig `yaml:"devices"`

	// Memory configures the physical-memory window.
	Memory MemoryConfig `yaml:"memory"`

	// Log configures the daemon logger.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config when
	// Environment matches.
	DebugOverrides   *Overrides `yaml:"debug,omitempty"`
	ReleaseOverrides *Overrides `yaml:"release,omitempty"`
}

// Overrides contains fields that can be overridden per environment.
type Overrides struct {
	Devices *DevicesConfig `yaml:"devices,omitempty"`
	Memory  *MemoryConfig  `yaml:"memory,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// DevicesConfig configures device-node creation.
type DevicesConfig struct {
	// Dir is the directory device nodes are created in.
	// Default: /dev
	Dir string `yaml:"dir"`

	// MemoryName is the raw-memory node name. Default: pmem
	MemoryName string `yaml:"memory_name"`

	// InfoName is the metadata node name. Default: pmem_info
	InfoName string `yaml:"info_name"`

	// PreferredMajor is the major number requested from the host.
	// Zero or negative lets the host choose.
	PreferredMajor int `yaml:"preferred_major"`

	// Group is the privileged group id owning the nodes. Default: 0
	Group int `yaml:"group"`
}

// MemoryConfig configures the physical-memory window.
type MemoryConfig struct {
	// Source is the memory window path. Default: /dev/mem
	Source string `yaml:"source"`
}

// LogConfig configures the daemon logger.
type LogConfig struct {
	// Level: error, warn, info, debug. Default: info
	Level string `yaml:"level"`

	// Format: text or json. Default: text
	Format string `yaml:"format"`
}

// Default returns the default configuration. These defaults exist so
// every field has a sensible zero value before a file is merged in.
func Default() *Config {
	return &Config{
		Environment: Release,
		Devices: DevicesConfig{
			Dir:        "/dev",
			MemoryName: "pmem",
			InfoName:   "pmem_info",
		},
		Memory: MemoryConfig{
			Source: "/dev/mem",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NodeMode returns the device-node permission mode for the configured
// environment: world-read/write in debug, owner/group-only otherwise.
func (c *Config) NodeMode() fs.FileMode {
	if c.Environment == Debug {
		return 0o666
	}
	return 0o660
}

// Load loads configuration from the path in PMEM_CONFIG. There is no
// fallback: an unset variable is an error.
func Load() (*Config, error) {
	path := os.Getenv("PMEM_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("PMEM_CONFIG environment variable not set; " +
			"set it to the path of your pmem.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The file is
// the single source of truth; environment variables do not override
// values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	return cfg, nil
}

// applyEnvironmentOverrides merges the matching environment section
// over the base values.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Debug:
		overrides = c.DebugOverrides
	case Release:
		overrides = c.ReleaseOverrides
	}
	if overrides == nil {
		return
	}
	if overrides.Devices != nil {
		c.Devices = *overrides.Devices
	}
	if overrides.Memory != nil {
		c.Memory = *overrides.Memory
	}
	if overrides.Log != nil {
		c.Log = *overrides.Log
	}
}
