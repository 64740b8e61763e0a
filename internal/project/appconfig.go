// Package project persists application preferences to the user's config
// directory. Live drawing state is never written here; only explicit
// preferences survive a restart.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mapsketch/mapsketch/internal/model"
)

const configFileName = "config.json"

// DefaultConfigDir resolves the directory preferences live in. The platform
// config directory is preferred (so ~/.config/mapsketch on Linux); when the
// OS reports none, a dot directory under the user's home is used instead.
func DefaultConfigDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "mapsketch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".mapsketch")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), configFileName)
}

// SaveAppConfig persists an AppConfig to the given path as indented JSON.
// Missing parent directories are created, and the file is written to a
// temporary sibling first and renamed into place, so an interrupted save
// never replaces an existing config with a truncated one.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, configFileName+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	var config model.AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentFiles is never nil
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	return config, nil
}
