package config

import (
	"fmt"
	"time"
)

// Backend kinds.
const (
	BackendFirebase = "firebase"
	BackendMemory   = "memory"
)

// UI choices.
const (
	ThemeLight    = "light"
	ThemeDark     = "dark"
	LanguageRU    = "ru"
	LanguageEN    = "en"
	defaultAPIEnv = "SHELFSHOP_API_KEY"
)

// Config is the top-level shelfshop configuration.
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend" yaml:"backend"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// BackendConfig selects and configures the hosted service.
type BackendConfig struct {
	Kind          string  `mapstructure:"kind" yaml:"kind"` // "firebase" or "memory"
	ProjectID     string  `mapstructure:"project_id" yaml:"project_id,omitempty"`
	APIKeyEnv     string  `mapstructure:"api_key_env" yaml:"api_key_env,omitempty"`
	AuthBase      string  `mapstructure:"auth_base" yaml:"auth_base,omitempty"`
	TokenBase     string  `mapstructure:"token_base" yaml:"token_base,omitempty"`
	FirestoreBase string  `mapstructure:"firestore_base" yaml:"firestore_base,omitempty"`
	Timeout       string  `mapstructure:"timeout" yaml:"timeout,omitempty"`
	RateLimit     float64 `mapstructure:"rate_limit" yaml:"rate_limit,omitempty"`
	APIKey        string  `mapstructure:"-" yaml:"-"` // resolved at runtime, never written
}

// DefaultsConfig holds default values for the storefront.
type DefaultsConfig struct {
	PageSize int    `mapstructure:"page_size" yaml:"page_size"`
	StateDir string `mapstructure:"state_dir" yaml:"state_dir"`
}

// UIConfig holds the settings screen values.
type UIConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Language string `mapstructure:"language" yaml:"language"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "json" or "console"
}

// RequestTimeout parses Timeout, falling back to fallback when unset or
// malformed.
func (b BackendConfig) RequestTimeout(fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(b.Timeout); err == nil && d > 0 {
		return d
	}
	return fallback
}

// EffectiveAPIKeyEnv returns the env var holding the API key.
func (b BackendConfig) EffectiveAPIKeyEnv() string {
	if b.APIKeyEnv != "" {
		return b.APIKeyEnv
	}
	return defaultAPIEnv
}

// EffectivePageSize returns the configured page size or 6.
func (d DefaultsConfig) EffectivePageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return 6
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendMemory:
	case BackendFirebase:
		if c.Backend.ProjectID == "" {
			return fmt.Errorf("backend.project_id is required for the firebase backend")
		}
	default:
		return fmt.Errorf("backend.kind %q: want %q or %q", c.Backend.Kind, BackendFirebase, BackendMemory)
	}
	if c.Backend.Timeout != "" {
		if _, err := time.ParseDuration(c.Backend.Timeout); err != nil {
			return fmt.Errorf("backend.timeout: %w", err)
		}
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("backend.rate_limit must not be negative")
	}
	if !ValidTheme(c.UI.Theme) {
		return fmt.Errorf("ui.theme %q: want %q or %q", c.UI.Theme, ThemeLight, ThemeDark)
	}
	if !ValidLanguage(c.UI.Language) {
		return fmt.Errorf("ui.language %q: want %q or %q", c.UI.Language, LanguageRU, LanguageEN)
	}
	return nil
}

// ValidTheme reports whether t is a known theme.
func ValidTheme(t string) bool { return t == ThemeLight || t == ThemeDark }

// ValidLanguage reports whether l is a supported language.
func ValidLanguage(l string) bool { return l == LanguageRU || l == LanguageEN }
