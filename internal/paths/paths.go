// Package paths resolves where boards keeps its config.yaml and its
// persisted collections.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories under the platform roots.
const AppName = "boards"

// DefaultDataDirName is the working-directory-relative data directory used
// when nothing else selects one.
const DefaultDataDirName = ".boards-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BOARDS_CONFIG_DIR"
	EnvDataDir   = "BOARDS_DATA_DIR"
)

// ConfigFileName is the file read from the config directory.
const ConfigFileName = "config.yaml"

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// userDir returns <root>/boards, where root is $xdgVar or ~/<fallback...>
// on Linux and os.UserConfigDir elsewhere.
func userDir(xdgVar string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/boards (fallback ~/.config/boards)
// macOS:   ~/Library/Application Support/boards
// Windows: %APPDATA%/boards
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory. It is only used by
// callers that opt out of the working-directory default.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the absolute form of the first non-empty candidate.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}

// ResolveConfigDir applies flag > BOARDS_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir))
	if ok || err != nil {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > BOARDS_DATA_DIR >
// $(CWD)/.boards-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir))
	if ok || err != nil {
		return dir, err
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config.yaml path inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
