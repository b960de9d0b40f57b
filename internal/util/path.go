package util

import (
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// PathExists reports whether anything exists at path, along with its info.
func PathExists(path string) (fs.FileInfo, bool) {
	fi, err := os.Stat(path)
	return fi, !os.IsNotExist(err)
}

// SplitPathForViper splits path into the directory, base name and extension
// viper expects for AddConfigPath, SetConfigName and SetConfigType.
func SplitPathForViper(path string) (string, string, string) {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	return filepath.Dir(path), strings.TrimSuffix(filename, ext), strings.TrimPrefix(ext, ".")
}

// ConfigDir returns $XDG_CONFIG_HOME/<name>, or ~/.config/<name> when the
// variable is not set.
func ConfigDir(name string) string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, name)
	}
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return filepath.Join(u.HomeDir, ".config", name)
	}
	return filepath.Join(".config", name)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
