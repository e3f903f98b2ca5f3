package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Domain: Configuration Management
// This file loads the YAML config that sets ambient shell behavior
// (SPEC_FULL.md §2.1), grounded on cmd/drun/app/config.go's
// FindConfigFile/loadWorkspaceConfig pair.

// DefaultConfigFilename is where Config is read from when --config is not
// given.
const DefaultConfigFilename = ".minishellrc.yaml"

// Config is the on-disk shell configuration.
type Config struct {
	HistoryFile   string            `yaml:"historyFile"`
	HistoryLimit  int               `yaml:"historyLimit"`
	SecureHistory bool              `yaml:"secureHistory"`
	Env           map[string]string `yaml:"env"`
	ShellName     string            `yaml:"shellName"`
}

func defaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		HistoryFile:  filepath.Join(home, ".minishell_history.db"),
		HistoryLimit: 1000,
		ShellName:    "minishell",
	}
}

// LoadConfig reads path, falling back to built-in defaults for a missing
// file (not an error) and returning an error for a malformed one, matching
// the teacher's loadWorkspaceConfig error-reporting style.
func LoadConfig(path string) (Config, error) {
	config := defaultConfig()

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, DefaultConfigFilename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if config.HistoryFile == "" {
		config.HistoryFile = defaultConfig().HistoryFile
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = defaultConfig().HistoryLimit
	}
	if config.ShellName == "" {
		config.ShellName = defaultConfig().ShellName
	}
	return config, nil
}
