// internal/config/flags.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bethropolis/notebook/internal/logger"
)

// Flags holds values parsed from command-line flags. Only flags the user
// actually set override the config file.
type Flags struct {
	ConfigFilePath   string
	LogLevel         string
	LogFilePath      string
	EnableTags       []string
	DisableTags      []string
	EnablePkgs       []string
	DisablePkgs      []string
	EnableFiles      []string
	DisableFiles     []string
	DebugLog         bool
	ReadOnly         bool
	DefaultBlockType string
	ScriptsDir       string
	NoScripts        bool
	NoHighlight      bool
	SystemClipboard  bool
	Theme            string
	NoWatch          bool
}

// Register defines the flags on fs, normally a cobra command's persistent
// flag set.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFilePath, "config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	fs.StringVar(&f.LogLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFilePath, "logfile", "", "Path to write log file (use '-' for stderr)")
	fs.StringSliceVar(&f.EnableTags, "log-tags", nil, "Comma-separated list of tags to enable")
	fs.StringSliceVar(&f.DisableTags, "log-disable-tags", nil, "Comma-separated list of tags to disable")
	fs.StringSliceVar(&f.EnablePkgs, "log-packages", nil, "Comma-separated list of packages to enable")
	fs.StringSliceVar(&f.DisablePkgs, "log-disable-packages", nil, "Comma-separated list of packages to disable")
	fs.StringSliceVar(&f.EnableFiles, "log-files", nil, "Comma-separated list of files to enable")
	fs.StringSliceVar(&f.DisableFiles, "log-disable-files", nil, "Comma-separated list of files to disable")
	fs.BoolVar(&f.DebugLog, "debug-log", false, "Trace the logger's filtering decisions")
	fs.BoolVar(&f.ReadOnly, "read-only", false, "Open notebooks without allowing edits")
	fs.StringVar(&f.DefaultBlockType, "block-type", "", "Block type created in an empty notebook")
	fs.StringVar(&f.ScriptsDir, "scripts", "", "Directory of Lua menu item scripts")
	fs.BoolVar(&f.NoScripts, "no-scripts", false, "Do not load Lua scripts")
	fs.BoolVar(&f.NoHighlight, "no-highlight", false, "Disable syntax highlighting of code blocks")
	fs.BoolVar(&f.SystemClipboard, "system-clipboard", SystemClipboard, "Copy blocks to the system clipboard")
	fs.StringVar(&f.Theme, "theme", "", "Name of the color theme")
	fs.BoolVar(&f.NoWatch, "no-watch", false, "Do not reload the notebook when its file changes")
}

// ApplyOverrides copies every flag that was set on fs into cfg.
func (f *Flags) ApplyOverrides(cfg *Config, fs *pflag.FlagSet) {
	fs.Visit(func(fl *pflag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if f.LogLevel != "" {
				cfg.Logger.LogLevel = f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = cleanList(f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = cleanList(f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = cleanList(f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = cleanList(f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = cleanList(f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = cleanList(f.DisableFiles)
		case "read-only":
			cfg.Editor.ReadOnly = f.ReadOnly
		case "block-type":
			cfg.Editor.DefaultBlockType = f.DefaultBlockType
		case "scripts":
			cfg.Scripts.Dir = f.ScriptsDir
		case "no-scripts":
			cfg.Scripts.Enabled = !f.NoScripts
		case "no-highlight":
			cfg.Editor.Highlight = !f.NoHighlight
		case "system-clipboard":
			cfg.Editor.SystemClipboard = f.SystemClipboard
		case "theme":
			cfg.Editor.Theme = f.Theme
		case "no-watch":
			cfg.Editor.Watch = !f.NoWatch
		}
	})
}

func cleanList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
