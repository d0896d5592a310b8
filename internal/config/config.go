package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path, honoring SHELFSHOP_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("SHELFSHOP_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shelfshop", "config.yml")
}

// Load reads the config from the default path (or env).
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config at path. A missing file yields the defaults;
// config init writes one.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("backend.kind", BackendMemory)
	v.SetDefault("backend.api_key_env", defaultAPIEnv)
	v.SetDefault("backend.timeout", "15s")
	v.SetDefault("backend.rate_limit", 5.0)
	v.SetDefault("defaults.page_size", 6)
	v.SetDefault("defaults.state_dir", defaultStateDir())
	v.SetDefault("ui.theme", ThemeLight)
	v.SetDefault("ui.language", LanguageRU)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("SHELFSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// API key comes from env only.
	cfg.Backend.APIKey = os.Getenv(cfg.Backend.EffectiveAPIKeyEnv())
	cfg.Defaults.StateDir = ExpandHome(cfg.Defaults.StateDir)

	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "shelfshop")
}
