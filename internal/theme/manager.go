// internal/theme/manager.go
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/notebook/internal/logger"
)

// Manager holds the built-in theme, the themes found in a directory and
// the active one. Lookups are case-insensitive.
type Manager struct {
	dir string

	mu     sync.RWMutex
	themes map[string]*Theme
	active *Theme
}

// NewManager loads the built-in theme and every *.toml file in dir. An
// empty dir loads only the built-in theme.
func NewManager(dir string) *Manager {
	m := &Manager{dir: dir}
	m.themes, _ = m.scan()
	m.active = m.themes[key(NotebookDark.Name)]
	return m
}

// Reload rescans the theme directory. The active theme stays selected by
// name when it still exists, otherwise the built-in theme becomes active.
func (m *Manager) Reload() error {
	themes, err := m.scan()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes = themes
	if t, ok := themes[key(m.active.Name)]; ok {
		m.active = t
	} else {
		m.active = themes[key(NotebookDark.Name)]
	}
	return err
}

// scan always returns the built-in theme. A missing directory is not an
// error; unreadable theme files are logged and skipped.
func (m *Manager) scan() (map[string]*Theme, error) {
	builtin := NotebookDark
	themes := map[string]*Theme{key(builtin.Name): &builtin}
	if m.dir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Theme directory '%s' does not exist", m.dir)
		return themes, nil
	}
	if err != nil {
		logger.Errorf("Error loading themes from '%s': %v", m.dir, err)
		return themes, fmt.Errorf("read theme directory '%s': %w", m.dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".toml") {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		t, err := LoadThemeFromFile(path)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", path, err)
			continue
		}
		if prev, ok := themes[key(t.Name)]; ok {
			logger.Warnf("Theme '%s' from '%s' replaces '%s'", t.Name, path, prev.Name)
		}
		themes[key(t.Name)] = t
	}
	logger.Debugf("Loaded %d themes from '%s'", len(themes)-1, m.dir)
	return themes, nil
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetTheme makes the named theme active.
func (m *Manager) SetTheme(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.themes[key(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.active != t {
		m.active = t
		logger.Infof("Active theme set to: %s", t.Name)
	}
	return nil
}

// ListThemes returns the display names of all themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.themes))
	for _, t := range m.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
