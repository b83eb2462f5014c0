// Package logger provides leveled, filterable logging on top of log/slog.
package logger

import (
	"log/slog"
	"strings"
)

// Config holds all settings for the logger. It is embedded in the
// application config under the [logger] table.
type Config struct {
	// LogLevel is the minimum level to log: "debug", "info", "warn" or "error".
	LogLevel string `toml:"level"`

	// LogFilePath is where records go. Empty or "-" means stderr.
	LogFilePath string `toml:"file"`

	// --- Filtering ---
	// Disabled* lists win over Enabled* lists. An empty Enabled* list
	// lets everything through.

	EnabledTags  []string `toml:"enabled_tags"`
	DisabledTags []string `toml:"disabled_tags"`

	// Package is the immediate directory name of the caller, e.g. "reducer".
	EnabledPackages  []string `toml:"enabled_packages"`
	DisabledPackages []string `toml:"disabled_packages"`

	// File is the base name of the caller, e.g. "host.go".
	EnabledFiles  []string `toml:"enabled_files"`
	DisabledFiles []string `toml:"disabled_files"`

	level    slog.Level
	tags     filterSet
	packages filterSet
	files    filterSet
}

// NewConfig returns the default logger settings.
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

// ParseLevel maps a level name onto slog. Unknown names read as info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// process turns the string lists into lookup sets.
func (c *Config) process() {
	c.level = ParseLevel(c.LogLevel)
	c.tags = newFilterSet(c.EnabledTags, c.DisabledTags)
	c.packages = newFilterSet(c.EnabledPackages, c.DisabledPackages)
	c.files = newFilterSet(c.EnabledFiles, c.DisabledFiles)
	debugFilterf("processed config: level=%s tags=%v packages=%v files=%v", c.level, c.tags, c.packages, c.files)
}

// filterSet is an allow/deny pair of lowercase names.
type filterSet struct {
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

func newFilterSet(enabled, disabled []string) filterSet {
	return filterSet{enabled: sliceToSet(enabled), disabled: sliceToSet(disabled)}
}

// allows decides whether a record carrying name passes. present is false
// when the record has no value for this dimension at all.
func (f filterSet) allows(name string, present bool) bool {
	if !present {
		return true
	}
	key := strings.ToLower(name)
	if _, ok := f.disabled[key]; ok {
		return false
	}
	if f.enabled == nil {
		return true
	}
	_, ok := f.enabled[key]
	return ok
}

func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
