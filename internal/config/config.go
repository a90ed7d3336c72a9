// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging and persistence
// helpers for pybookmarks. It uses Viper for file, env and flag parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RuntimeOS is runtime.GOOS, overridable in tests.
var RuntimeOS = runtime.GOOS

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch RuntimeOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "pybookmarks")
		default: // Linux, macOS, etc.
			configDir = "/etc/pybookmarks"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "pybookmarks")
	}

	return filepath.Join(configDir, "pybookmarks.yaml"), nil
}

// LoadConfig merges defaults, the first config file found, PYBOOKMARKS_*
// environment variables and the flags of cmd into a T. A missing config file
// is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. File search paths
	v.SetConfigName("pybookmarks")
	v.SetConfigType("yaml")

	// 3. An explicit --config file has the highest precedence among files.
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 4. Read the primary config file.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// 5. A .pybookmarks.yaml in the working directory is merged on top.
	mergeDotfileConfig(v)

	// 6. Environment
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("pybookmarks")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// mergeDotfileConfig merges ./.pybookmarks.yaml into v if it exists.
// Malformed dotfiles are ignored.
func mergeDotfileConfig(v *viper.Viper) {
	const dotfile = ".pybookmarks.yaml"
	if _, err := os.Stat(dotfile); err == nil {
		v.SetConfigFile(dotfile)
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c as YAML to the user or system config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating its directory.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// The file may contain database credentials.
	return os.WriteFile(path, data, 0600)
}
