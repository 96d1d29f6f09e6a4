// Package config wires viper defaults, the optional config file and
// VOIDBOX_ environment overrides.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Init installs defaults and reads the config file if one exists.
// Keys are resolved lazily by the packages that consume them, so tests can
// override any of them with viper.Set after (or instead of) calling Init.
func Init() error {
	viper.SetDefault("install.data_dir", "")
	viper.SetDefault("install.bin_dir", "")
	viper.SetDefault("install.desktop_dir", "")
	viper.SetDefault("registry.path", "")
	viper.SetDefault("download.timeout", 10*time.Minute)

	viper.SetConfigType("toml")

	if cfgPath := os.Getenv("VOIDBOX_CONFIG"); cfgPath != "" {
		viper.SetConfigFile(cfgPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "voidbox"))
		}
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("VOIDBOX")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and env cover everything.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// DownloadTimeout bounds one container download.
func DownloadTimeout() time.Duration {
	d := viper.GetDuration("download.timeout")
	if d <= 0 {
		d = 10 * time.Minute
	}
	return d
}
