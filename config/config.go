package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// Sizes to generate when --sizes is not given on the command line
	Sizes []int `yaml:"sizes,omitempty" json:"sizes,omitempty"`
	// Resampling filter to use when --filter is not given
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`
	// Whether to treat every warning as fatal
	StopOnWarning *bool `yaml:"stopOnWarning,omitempty" json:"stopOnWarning,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/icopack/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/icopack/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	cfg := &Config{}
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				if err := yaml.Unmarshal(b, cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config: %w", err)
				}
				return cfg, nil
			}
		}
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "icopack")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "icopack")
	}
	return configHomePath
}

// StateHomePath returns the path to the state home directory, used for
// the error dump written on failure.
func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "icopack")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "icopack")
	}
	return stateHomePath
}
