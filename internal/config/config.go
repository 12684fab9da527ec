package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in the scanned root
const FileName = ".locgrd.config"

// Environment variables that override the configuration file
const (
	EnvLogLevel    = "LOCGRD_LOG_LEVEL"
	EnvExclude     = "LOCGRD_EXCLUDE"
	EnvDefinitions = "LOCGRD_DEFINITIONS"
)

// Config represents the locgrd configuration file
type Config struct {
	Ignores     IgnoresConfig `yaml:"ignores"`
	Definitions []string      `yaml:"definitions"` // Translation-table files, relative to the root
	LogLevel    string        `yaml:"log_level"`
}

// IgnoresConfig contains ignore rules for localization keys
type IgnoresConfig struct {
	Missing []string `yaml:"missing"` // Keys to ignore when reporting as missing
	Folders []string `yaml:"folders"` // Subdirectory trees to skip when scanning usages
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Ignores: IgnoresConfig{
			Missing: []string{},
			Folders: []string{"Localization"},
		},
		Definitions: []string{
			"Localization/Localization.lua",
			"Localization/LocalizationPost.lua",
		},
		LogLevel: "warn",
	}
}

// LoadConfig loads the .locgrd.config file from rootPath and applies
// environment overrides. Values from a .env file in rootPath are used for
// variables not already set in the process environment.
func LoadConfig(fs afero.Fs, rootPath string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(rootPath, FileName)
	data, err := afero.ReadFile(fs, configPath)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.merge(&fileCfg)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	env, err := loadEnv(fs, rootPath)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)

	return cfg, nil
}

// merge overlays the sections present in the file onto the defaults
func (c *Config) merge(fileCfg *Config) {
	if fileCfg.Ignores.Missing != nil {
		c.Ignores.Missing = fileCfg.Ignores.Missing
	}
	if fileCfg.Ignores.Folders != nil {
		c.Ignores.Folders = fileCfg.Ignores.Folders
	}
	if fileCfg.Definitions != nil {
		c.Definitions = fileCfg.Definitions
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
}

// loadEnv collects the override variables, process environment first
func loadEnv(fs afero.Fs, rootPath string) (map[string]string, error) {
	env := make(map[string]string)

	file, err := fs.Open(filepath.Join(rootPath, ".env"))
	if err == nil {
		defer file.Close()
		parsed, err := godotenv.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse .env file: %w", err)
		}
		env = parsed
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	for _, key := range []string{EnvLogLevel, EnvExclude, EnvDefinitions} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) {
	if v := strings.TrimSpace(env[EnvLogLevel]); v != "" {
		c.LogLevel = v
	}
	if v := splitList(env[EnvExclude]); len(v) > 0 {
		c.Ignores.Folders = append(c.Ignores.Folders, v...)
	}
	if v := splitList(env[EnvDefinitions]); len(v) > 0 {
		c.Definitions = v
	}
}

func splitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ShouldIgnoreMissing checks if a key should be ignored when reporting as missing
func (c *Config) ShouldIgnoreMissing(key string) bool {
	for _, ignored := range c.Ignores.Missing {
		if strings.EqualFold(ignored, key) {
			return true
		}
	}
	return false
}

// Template returns the content written by init-config
func Template() string {
	return `# .locgrd.config
# Configuration file for locgrd

ignores:
  # Keys that are defined in custom ways (not in the translation tables)
  # These will not be reported as missing
  missing:
    # - ADDON_NAME
    # Add more keys here as needed

  # Folders skipped when collecting L["..."] usages
  folders:
    - Localization

# Translation-table files, relative to the scanned directory.
# Only assignments (L["Key"] = "...") in these files count as definitions.
definitions:
  - Localization/Localization.lua
  - Localization/LocalizationPost.lua

# log_level: warn
`
}
