// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// DataDir returns the directory holding the transaction database and the
// model store. Resolution order: the data_dir config key (VIMONEY_DATA_DIR
// via the env prefix), then $HOME/.local/share/vimoney, then a relative
// fallback for systems without a resolvable home.
func DataDir() string {
	if v := viper.GetString("data_dir"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vimoney"
	}
	return filepath.Join(home, ".local", "share", "vimoney")
}

// DatabasePath returns the SQLite database location.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(DataDir(), "vimoney.db")
}

// ModelsPath returns the Bolt model-store location.
func ModelsPath() string {
	if v := viper.GetString("models.path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(DataDir(), "models.db")
}
