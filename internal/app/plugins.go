package app

import (
	"errors"
	"fmt"

	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/script"
	"github.com/bethropolis/notebook/plugins/autosave"
	"github.com/bethropolis/notebook/plugins/spellcheck"
	"github.com/bethropolis/notebook/plugins/wordcount"
)

// registerPlugins registers the built-in plugins the config enables, and
// the Lua scripts plugin when scripts are on.
func registerPlugins(pm *plugin.Manager, cfg *config.Config) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	// Adding a plugin means adding its constructor here.
	candidates := []plugin.Plugin{
		wordcount.New(),
		autosave.New(),
		spellcheck.New(),
	}
	if cfg.Scripts.Enabled && cfg.Scripts.Dir != "" {
		candidates = append(candidates, script.NewPlugin(cfg.Scripts.Dir))
	}

	var errs []error
	for _, p := range candidates {
		name := p.Name()
		if !cfg.PluginEnabled(name) {
			logger.DebugTagf("plugin", "Plugin '%s' disabled by config", name)
			continue
		}
		if err := pm.Register(p); err != nil {
			errs = append(errs, fmt.Errorf("failed to register plugin '%s': %w", name, err))
		}
	}
	return errors.Join(errs...)
}
