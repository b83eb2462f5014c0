// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/bethropolis/notebook/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`
	Editor  EditorConfig  `toml:"editor"`
	Scripts ScriptsConfig `toml:"scripts"`

	// Plugins holds one free-form table per plugin, [plugins.<name>].
	Plugins map[string]map[string]any `toml:"plugins"`
}

// EditorConfig holds notebook editing settings.
type EditorConfig struct {
	// DefaultBlockType is created for an empty notebook. Empty means the
	// first registered block type.
	DefaultBlockType string `toml:"default_block_type"`
	ReadOnly         bool   `toml:"read_only"`
	Highlight        bool   `toml:"highlight"`
	SystemClipboard  bool   `toml:"system_clipboard"`
	DispatchQueue    int    `toml:"dispatch_queue"`
	HistorySize      int    `toml:"history_size"`
	// Watch reloads the notebook when its file changes on disk.
	Watch     bool   `toml:"watch"`
	Theme     string `toml:"theme"`
	ThemesDir string `toml:"themes_dir"`
}

// ScriptsConfig locates Lua menu item scripts.
type ScriptsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel: "info",
		},
		Editor: EditorConfig{
			Highlight:       true,
			SystemClipboard: SystemClipboard,
			DispatchQueue:   DefaultDispatchQueue,
			HistorySize:     DefaultHistorySize,
			Watch:           true,
		},
		Scripts: ScriptsConfig{
			Enabled: true,
		},
		Plugins: map[string]map[string]any{},
	}
}

// DefaultPath is ~/.config/notebook/config.toml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. Keys absent from the file keep
// their current values. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.DispatchQueue <= 0 {
		c.Editor.DispatchQueue = defaults.Editor.DispatchQueue
	}
	if c.Editor.HistorySize <= 0 {
		c.Editor.HistorySize = defaults.Editor.HistorySize
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Scripts.Dir == "" {
		if path := DefaultPath(); path != "" {
			c.Scripts.Dir = filepath.Join(filepath.Dir(path), DefaultScriptsDirName)
		}
	}
	if c.Editor.ThemesDir == "" {
		if path := DefaultPath(); path != "" {
			c.Editor.ThemesDir = filepath.Join(filepath.Dir(path), DefaultThemesDirName)
		}
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]any{}
	}
}

// Load builds a configuration: defaults, then the file at configFilePath
// (or DefaultPath when empty), then flags that were set on fs. The
// returned config is always usable; the error reports a bad file.
func Load(configFilePath string, flags *Flags, fs *pflag.FlagSet) (*Config, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		path = DefaultPath()
	}
	var err error
	if path != "" {
		if err = loadFromFile(cfg, path); err != nil {
			// a half-decoded file is worse than none
			cfg = NewDefaultConfig()
		}
	}

	if flags != nil && fs != nil {
		flags.ApplyOverrides(cfg, fs)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig is Load run once per process; Get returns its result.
func LoadConfig(configFilePath string, flags *Flags, fs *pflag.FlagSet) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags, fs)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// PluginValue returns a key from the [plugins.<plugin>] table.
func (c *Config) PluginValue(plugin, key string) (any, bool) {
	table, ok := c.Plugins[plugin]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}

// PluginEnabled reports whether a plugin is switched on. Plugins are on
// unless their table sets enabled = false.
func (c *Config) PluginEnabled(plugin string) bool {
	v, ok := c.PluginValue(plugin, "enabled")
	if !ok {
		return true
	}
	enabled, isBool := v.(bool)
	return !isBool || enabled
}
