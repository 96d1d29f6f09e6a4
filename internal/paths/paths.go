// Package paths resolves the on-disk layout of a voidbox installation.
//
// Everything lives under a single data directory (apps, manifests, state)
// plus a bin directory for the voidbox binary itself. Both can be
// overridden through configuration; tests point them at temp dirs with
// viper.Set.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const appName = "voidbox"

// DataDir returns the root of the voidbox data layout.
func DataDir() string {
	if dir := viper.GetString("install.data_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// BinDir returns the directory the voidbox binary is installed into.
func BinDir() string {
	if dir := viper.GetString("install.bin_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "bin")
	}
	return filepath.Join(home, ".local", "bin")
}

// DesktopDir returns the directory desktop entries are written to.
func DesktopDir() string {
	if dir := viper.GetString("install.desktop_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DataDir(), "applications")
	}
	return filepath.Join(home, ".local", "share", "applications")
}

// AppsDir holds one subdirectory per installed app container.
func AppsDir() string {
	return filepath.Join(DataDir(), "apps")
}

// ManifestsDir holds the persisted copy of every installed manifest.
func ManifestsDir() string {
	return filepath.Join(DataDir(), "manifests")
}

// StateDir holds the registry database and scratch files.
func StateDir() string {
	return filepath.Join(DataDir(), "state")
}

// InstallPath is the target location of the voidbox binary.
func InstallPath() string {
	name := appName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(BinDir(), name)
}

// AppDir maps an install slot name to its container directory.
func AppDir(name string) string {
	return filepath.Join(AppsDir(), sanitize(name))
}

// ManifestPath maps an install slot name to the location its raw manifest
// text is persisted at.
func ManifestPath(name string) string {
	return filepath.Join(ManifestsDir(), sanitize(name)+".voidbox")
}

// RegistryPath is the location of the sqlite install registry.
func RegistryPath() string {
	if p := viper.GetString("registry.path"); p != "" {
		return p
	}
	return filepath.Join(StateDir(), "registry.db")
}

// EnsureDirs creates the full directory layout. Safe to call repeatedly.
func EnsureDirs() error {
	for _, dir := range []string{BinDir(), AppsDir(), ManifestsDir(), StateDir(), DesktopDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// RuntimePresent reports whether the voidbox binary already sits at its
// install location.
func RuntimePresent() bool {
	_, err := os.Stat(InstallPath())
	return err == nil
}

// sanitize keeps slot names from escaping their directory.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	name = strings.ReplaceAll(name, "..", "-")
	if name == "" {
		name = "unnamed"
	}
	return name
}
