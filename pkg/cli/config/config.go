package config

import (
	"errors"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

const (
	DefaultServiceName        = "factbase"
	DefaultServiceDescription = "A small HTTP API for storing and retrieving facts"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Service ServiceConfig `toml:"service"`

	path string
}

// ServiceConfig is the [service] section of the configuration file
type ServiceConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Debug       bool   `toml:"debug"`
}

// Validate checks if the ServiceConfig is valid
func (s *ServiceConfig) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrMissingName, "service name is required")
	}
	if len(s.Name) > 64 {
		return goerr.Wrap(ErrInvalidConfig, "service name is too long", goerr.V("name", s.Name))
	}
	return nil
}

// Flags returns CLI flags for the configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file",
			Sources:     cli.EnvVars("FACTBASE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configuration file path given on the command line
func (a *AppConfig) Path() string {
	return a.path
}

// Configure loads the configuration file if one was given, otherwise it
// returns the built-in defaults.
func (a *AppConfig) Configure() (*AppConfig, error) {
	if a.path == "" {
		return DefaultAppConfig(), nil
	}
	return LoadAppConfiguration(a.path)
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Service: ServiceConfig{
			Name:        DefaultServiceName,
			Description: DefaultServiceDescription,
		},
	}
}

// LoadAppConfiguration loads the application configuration from a TOML file.
// Missing keys keep their default values.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	config := DefaultAppConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path),
			goerr.V("error", err.Error()),
		)
	}
	config.path = path

	if err := config.Service.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return config, nil
}
