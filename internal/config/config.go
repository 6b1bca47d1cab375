// Package config resolves the starmap CLI configuration directory and
// loads config.yaml from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// DefaultConfigDirName is the home-relative directory searched when no
	// override is active.
	DefaultConfigDirName = ".starmap"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "STARMAP_CONFIG_DIR"

	envPrefix = "STARMAP"
)

// Config keys.
const (
	cfgKeyDBPath        = "db_path"
	cfgKeyCatalogURL    = "catalog_url"
	cfgKeyCatalogAPIKey = "catalog_api_key"
	cfgKeyRefereeToken  = "referee_token"
	cfgKeyRefereeNotes  = "referee_notes"
	cfgKeyDefaultJump   = "default_jump"
)

const defaultJump = 2

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# starmap CLI configuration

# SQLite database file. Defaults to starmap.db inside this directory.
# db_path:

# Remote catalog endpoint used by "starmap import --from-url".
# catalog_url: https://catalog.example.com/api
# catalog_api_key:

# Referee material. Setting a token unlocks referee mode in the viewer.
# referee_token:
# referee_notes: overlay.yaml

# Jump rating assumed when --jump is not given.
default_jump: 2
`

// Config holds the CLI settings after precedence resolution
// (flag > environment > config.yaml > default).
type Config struct {
	DBPath        string `mapstructure:"db_path"`
	CatalogURL    string `mapstructure:"catalog_url"`
	CatalogAPIKey string `mapstructure:"catalog_api_key"`
	RefereeToken  string `mapstructure:"referee_token"`
	RefereeNotes  string `mapstructure:"referee_notes"`
	DefaultJump   int    `mapstructure:"default_jump"`
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > STARMAP_CONFIG_DIR > ~/.starmap.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DefaultConfigDirName), nil
}

// Load reads config.yaml from configDir, creating the directory and a
// commented default file on first run. Environment variables prefixed
// STARMAP_ override file values; a missing config.yaml is not an error.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDBPath, filepath.Join(configDir, "starmap.db"))
	v.SetDefault(cfgKeyCatalogURL, "")
	v.SetDefault(cfgKeyCatalogAPIKey, "")
	v.SetDefault(cfgKeyRefereeToken, "")
	v.SetDefault(cfgKeyRefereeNotes, "")
	v.SetDefault(cfgKeyDefaultJump, defaultJump)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DefaultJump < 1 || cfg.DefaultJump > 6 {
		return nil, fmt.Errorf("default_jump must be between 1 and 6, got %d", cfg.DefaultJump)
	}
	if cfg.RefereeNotes != "" && !filepath.IsAbs(cfg.RefereeNotes) {
		cfg.RefereeNotes = filepath.Join(configDir, cfg.RefereeNotes)
	}

	return &cfg, nil
}

// ensureDefaultConfigFile creates a commented config.yaml when none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
