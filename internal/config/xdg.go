// Package config loads and watches the application configuration, following
// the XDG Base Directory specification for file placement.
package config

import (
	"os"
	"path/filepath"

	"github.com/bnema/visited/internal/history"
)

const appName = "visited"

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the application's XDG paths:
// - $XDG_CONFIG_HOME/visited (default: ~/.config/visited)
// - $XDG_DATA_HOME/visited (default: ~/.local/share/visited)
// - $XDG_STATE_HOME/visited (default: ~/.local/state/visited)
func GetXDGDirs() (*XDGDirs, error) {
	// Development mode keeps everything under the working directory.
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{
			ConfigHome: devDir,
			DataHome:   devDir,
			StateHome:  devDir,
		}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(homeDir, ".local", "state")
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(configHome, appName),
		DataHome:   filepath.Join(dataHome, appName),
		StateHome:  filepath.Join(stateHome, appName),
	}, nil
}

// GetConfigDir returns the directory holding config.yaml.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetDataDir returns the directory holding per-profile history databases.
func GetDataDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.DataHome, nil
}

// ProfileDBPath returns the history database path for a profile under the
// XDG data directory. The layout itself is owned by the history package.
func ProfileDBPath(profile string) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return history.DBPath(dataDir, profile), nil
}

// EnsureDirectories creates the config and data directories if missing.
func EnsureDirectories() error {
	dirs, err := GetXDGDirs()
	if err != nil {
		return err
	}
	for _, dir := range []string{dirs.ConfigHome, dirs.DataHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
