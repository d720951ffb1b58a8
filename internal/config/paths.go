package config

import (
	"os"
	"path/filepath"
)

const (
	// SystemConfigDir is searched first for a machine-wide configuration file.
	SystemConfigDir = "/etc/pkghistory"
	// DefaultHistoryFile is where history lives unless configured otherwise.
	DefaultHistoryFile = "/var/lib/pkghistory/history.json"
	appName            = "pkghistory"
)

// UserHomeDir returns the invoking user's home directory.
// It's a variable to allow overriding in tests.
var UserHomeDir = os.UserHomeDir

// SearchDirs returns the directories searched for a configuration file.
// Viper uses the first one holding a config file:
// 1. /etc/pkghistory
// 2. XDG_CONFIG_HOME/pkghistory (if XDG_CONFIG_HOME is set)
// 3. the home directory
// 4. the working directory
func SearchDirs() []string {
	dirs := []string{SystemConfigDir}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, appName))
	}
	if home, err := UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	}
	return append(dirs, ".")
}

// CrashDir returns the directory crash reports are written to.
// Resolution order (first match wins):
// 1. explicit, normally the "log.crashDir" setting
// 2. XDG_STATE_HOME/pkghistory/crashes (if XDG_STATE_HOME is set)
// 3. TMPDIR/pkghistory
func CrashDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, appName, "crashes")
	}
	return filepath.Join(os.TempDir(), appName)
}
