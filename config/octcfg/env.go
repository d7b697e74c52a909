package octcfg

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names
const (
	DirEnvKey    = "OCTOPS_DIR"
	ConfigEnvKey = "OCTOPS_CONFIG"
)

// Directory and file names
const (
	DirName        = "octops"
	ConfigFileName = "config.yml"
	StateFileName  = "state.yml"
)

// ResolveDir returns the octops state directory: dir if set, then
// $OCTOPS_DIR, then $XDG_CONFIG_HOME/octops, then ~/.config/octops.
func ResolveDir(dir string) string {
	if dir == "" {
		dir = os.Getenv(DirEnvKey)
	}
	if dir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(base, DirName)
		} else {
			dir = filepath.Join(".", "."+DirName)
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Clean(dir)
}

// DefaultConfigPath returns $OCTOPS_CONFIG or <dir>/config.yml.
func DefaultConfigPath(dir string) string {
	if v := os.Getenv(ConfigEnvKey); v != "" {
		return v
	}
	return filepath.Join(dir, ConfigFileName)
}

// DefaultDBURL returns the file store URL under dir.
func DefaultDBURL(dir string) string {
	return "file:" + filepath.Join(dir, StateFileName)
}

// ExpandPath replaces a leading "~" with the home directory and
// $OCTOPS_DIR with dir.
func ExpandPath(p, dir string) string {
	if p == "" {
		return p
	}
	p = strings.ReplaceAll(p, "$"+DirEnvKey, dir)
	p = strings.ReplaceAll(p, "${"+DirEnvKey+"}", dir)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
