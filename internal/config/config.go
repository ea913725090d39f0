package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PANEL_ORG_ID.
const EnvPrefix = "PANEL"

// Config holds application configuration.
type Config struct {
	Org      OrgConfig
	UI       UIConfig
	Log      LogConfig
	Features map[string]bool
}

// OrgConfig selects the organization the settings dashboard opens.
type OrgConfig struct {
	ID   string
	Name string
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	Mouse     bool
	AltScreen bool `mapstructure:"alt_screen"`
	// Backdrop dims the dashboard while modals are open.
	Backdrop bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
}

// Path returns the config file location: PANEL_CONFIG when set, otherwise
// $HOME/.config/panel/config.toml.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "panel", "config.toml")
}

// DefaultLogFile returns $XDG_STATE_HOME/panel/panel.log, falling back to
// $HOME/.local/state.
func DefaultLogFile() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		state = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(state, "panel", "panel.log")
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	v.SetDefault("org.id", "demo")
	v.SetDefault("org.name", "Demo organization")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.backdrop", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", DefaultLogFile())

	v.SetConfigType("toml")
	v.SetConfigFile(path)
	return v
}

// readFile loads path into v. A missing file is not an error.
func readFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from path (Path() when empty) and the
// environment. Env var overrides use prefix PANEL_.
func Load(path string) (Config, error) {
	if path == "" {
		path = Path()
	}
	v := newViper(path)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := readFile(v); err != nil {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path (Path() when empty), creating the config
// directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("org.id", cfg.Org.ID)
	v.Set("org.name", cfg.Org.Name)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("ui.alt_screen", cfg.UI.AltScreen)
	v.Set("ui.backdrop", cfg.UI.Backdrop)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	for name, enabled := range cfg.Features {
		v.Set("features."+name, enabled)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// loadFile reads path without environment overrides, so that rewriting the
// file never persists values that only came from the environment.
func loadFile(path string) (Config, error) {
	v := newViper(path)
	if err := readFile(v); err != nil {
		return Config{}, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// GetFeatureFlag returns the feature flag stored in the config file, if any.
func GetFeatureFlag(path, name string) (enabled bool, ok bool, err error) {
	if path == "" {
		path = Path()
	}
	cfg, err := loadFile(path)
	if err != nil {
		return false, false, err
	}
	enabled, ok = cfg.Features[strings.ToLower(name)]
	return enabled, ok, nil
}

// SetFeatureFlag stores a feature flag override in the config file.
func SetFeatureFlag(path, name string, enabled bool) error {
	if path == "" {
		path = Path()
	}
	cfg, err := loadFile(path)
	if err != nil {
		return err
	}
	if cfg.Features == nil {
		cfg.Features = make(map[string]bool)
	}
	cfg.Features[strings.ToLower(name)] = enabled
	return Save(path, cfg)
}

// UnsetFeatureFlag removes a feature flag override from the config file.
func UnsetFeatureFlag(path, name string) error {
	if path == "" {
		path = Path()
	}
	cfg, err := loadFile(path)
	if err != nil {
		return err
	}
	delete(cfg.Features, strings.ToLower(name))
	return Save(path, cfg)
}
