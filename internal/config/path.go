// Package config provides path expansion and helpers for locating
// tally's files on disk.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading tilde against the user's home
// directory and then expands $VAR references. The tilde is left alone
// when the home directory cannot be determined.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the document database lives when
// database.path is not configured.
func DefaultDatabasePath() string {
	return ExpandPath("$HOME/.local/share/tally/tally.db")
}
