// internal/plugin/manager.go
package plugin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/notebook/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
// Plugins are initialised in registration order and shut down in reverse.
type Manager struct {
	mu          sync.RWMutex
	plugins     map[string]Plugin
	order       []string
	initialized []Plugin
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = plugin
	m.order = append(m.order, name)
	logger.DebugTagf("plugin", "Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin. A failing
// plugin is logged and skipped; the others still load. The returned error
// joins every failure.
func (m *Manager) InitializePlugins(api EditorAPI) error {
	m.mu.RLock()
	pluginsToInit := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		pluginsToInit = append(pluginsToInit, m.plugins[name])
	}
	m.mu.RUnlock()

	logger.Infof("Plugin Manager: Initializing %d plugins...", len(pluginsToInit))
	var errs []error
	for _, plugin := range pluginsToInit {
		if err := plugin.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: ERROR initializing plugin '%s': %v", plugin.Name(), err)
			errs = append(errs, fmt.Errorf("plugin %s: %w", plugin.Name(), err))
			continue
		}
		m.mu.Lock()
		m.initialized = append(m.initialized, plugin)
		m.mu.Unlock()
		logger.DebugTagf("plugin", "Initialized plugin '%s'", plugin.Name())
	}
	return errors.Join(errs...)
}

// ShutdownPlugins calls Shutdown on the plugins that initialised.
func (m *Manager) ShutdownPlugins() {
	m.mu.Lock()
	pluginsToShutdown := m.initialized
	m.initialized = nil
	m.mu.Unlock()

	for i := len(pluginsToShutdown) - 1; i >= 0; i-- {
		plugin := pluginsToShutdown[i]
		logger.DebugTagf("plugin", "Shutting down plugin '%s'", plugin.Name())
		if err := plugin.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: ERROR shutting down plugin '%s': %v", plugin.Name(), err)
		}
	}
}

// GetPlugin returns a registered plugin by name (e.g., for inter-plugin communication). Use cautiously.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names lists registered plugins in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}
