package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfig []byte

// Default returns the embedded default configuration, without derived values.
func Default() (Config, error) {
	var cfg Config
	if err := decode(defaultConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse embedded config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the embedded defaults and, when configFile is not empty, decodes the user file
// on top of them. Keys absent from the user file keep their default; lists are replaced whole.
func LoadConfig(configFile string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if configFile == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", configFile, err)
	}
	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", configFile, err)
	}
	return cfg, nil
}

func decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects package entries the provisioner cannot handle.
func (c Config) Validate() error {
	for i, p := range c.Brew.Packages {
		if p.Name == "" {
			return fmt.Errorf("brew.packages[%d]: empty name", i)
		}
		if p.Flavor != Formula && p.Flavor != Cask {
			return fmt.Errorf("brew.packages[%d] %s: unknown flavor %q", i, p.Name, p.Flavor)
		}
	}
	for i, tap := range c.Brew.Taps {
		if tap == "" {
			return fmt.Errorf("brew.taps[%d]: empty tap", i)
		}
	}
	return nil
}

// DefaultPrefix returns the Homebrew prefix for the given GOARCH.
func DefaultPrefix(goarch string) string {
	if goarch == "arm64" {
		return "/opt/homebrew"
	}
	return "/usr/local"
}

// ResolveBrew fills the Homebrew values left empty: the prefix from goarch, the safe directory
// from the prefix and the Spark home from the prefix.
func (c *Config) ResolveBrew(goarch string) {
	if c.Brew.Prefix == "" {
		c.Brew.Prefix = DefaultPrefix(goarch)
	}
	if c.Brew.SafeDirectory == "" {
		// On Apple Silicon the prefix is the brew repository itself.
		if c.Brew.Prefix == "/opt/homebrew" {
			c.Brew.SafeDirectory = c.Brew.Prefix
		} else {
			c.Brew.SafeDirectory = filepath.Join(c.Brew.Prefix, "Homebrew")
		}
	}
	if c.Profile.Spark.Home == "" {
		c.Profile.Spark.Home = filepath.Join(c.Brew.Prefix, "opt", "apache-spark", "libexec")
	}
}
