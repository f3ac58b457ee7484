package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sambabib/dockerfile-gen/pkg/store"
)

const configFileName = ".dockergen.yaml"

// Config represents the configuration for the Dockerfile generator.
type Config struct {
	// Output configuration
	Output struct {
		File string `yaml:"file"` // generated Dockerfile name (default: Dockerfile)
	} `yaml:"output"`

	// Vermin controls the external version-detection tool
	Vermin struct {
		Path           string `yaml:"path"`           // binary to invoke (default: vermin)
		TimeoutSeconds int    `yaml:"timeoutSeconds"` // subprocess timeout (default: 10)
	} `yaml:"vermin"`

	// Store configures the Dockerfile persistence sink
	Store struct {
		DSN      string `yaml:"dsn"`      // Postgres DSN; empty selects the in-memory store
		Timezone string `yaml:"timezone"` // IANA name for record timestamps (default: UTC)
	} `yaml:"store"`

	// Server configures the REST API
	Server struct {
		Addr string `yaml:"addr"` // listen address (default: :8080)
	} `yaml:"server"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	config := &Config{}
	config.Output.File = "Dockerfile"
	config.Vermin.Path = "vermin"
	config.Vermin.TimeoutSeconds = 10
	config.Store.Timezone = "UTC"
	config.Server.Addr = ":8080"
	return config
}

// LoadConfig loads the configuration from the specified file path.
// If no path is provided, it looks for .dockergen.yaml in the current
// directory. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = configFileName
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// FindAndLoadConfig searches for a config file in the given directory and its
// parents.
func FindAndLoadConfig(startDir string) (*Config, error) {
	currentDir := startDir
	for {
		configPath := filepath.Join(currentDir, configFileName)
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfig(configPath)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return DefaultConfig(), nil
}

// VerminTimeout returns the configured subprocess timeout.
func (c *Config) VerminTimeout() time.Duration {
	if c.Vermin.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Vermin.TimeoutSeconds) * time.Second
}

// StoreOptions resolves the configured timezone into store options.
func (c *Config) StoreOptions() (store.Options, error) {
	name := c.Store.Timezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return store.Options{}, fmt.Errorf("invalid store timezone %q: %w", name, err)
	}
	return store.Options{Location: loc}, nil
}
