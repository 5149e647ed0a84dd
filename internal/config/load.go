// File: internal/config/load.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. DRAGSORT_FRAME_FPS.
	EnvPrefix = "DRAGSORT"
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "config.yaml"
	// HomeConfigFile is looked up in the user's home directory.
	HomeConfigFile = ".dragsort.yaml"
)

// Load prepares v with defaults, environment overrides and the first config
// file found: cfgFile when given, then ./config.yaml, then ~/.dragsort.yaml.
// A missing default file is not an error; a missing explicit file is. The
// returned path is empty when no file was read.
func Load(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return "", nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return "", nil
		}
		return "", fmt.Errorf("error reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func findConfigFile() string {
	candidates := []string{DefaultConfigFile}
	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, HomeConfigFile))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
