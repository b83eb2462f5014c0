package plugin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/notebook/internal/blocktype"
)

// ErrSealed is returned for contributions made after the host was built.
var ErrSealed = errors.New("plugin contributions are sealed")

// Contributions implements Registrar on top of the notebook's registries.
// Block types and editors go straight into their registries; menu items
// and tools are collected for the host options.
type Contributions struct {
	Registry *blocktype.Registry
	Editors  *blocktype.EditorRegistry

	mu        sync.Mutex
	menuItems []blocktype.MenuItem
	tools     []blocktype.Tool
	sealed    bool
}

// NewContributions wraps the registries plugins contribute to.
func NewContributions(registry *blocktype.Registry, editors *blocktype.EditorRegistry) *Contributions {
	return &Contributions{Registry: registry, Editors: editors}
}

func (c *Contributions) check() error {
	if c.sealed {
		return ErrSealed
	}
	return nil
}

func (c *Contributions) RegisterBlockType(def blocktype.Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}
	return c.Registry.Register(def)
}

func (c *Contributions) RegisterMenuItem(item blocktype.MenuItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}
	if item.Name == "" || item.Action == nil {
		return fmt.Errorf("menu item registration failed: name and action are required")
	}
	for _, existing := range c.menuItems {
		if existing.Name == item.Name {
			return fmt.Errorf("menu item registration failed: '%s' already registered", item.Name)
		}
	}
	c.menuItems = append(c.menuItems, item)
	return nil
}

func (c *Contributions) RegisterTool(tool blocktype.Tool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}
	if tool.Name == "" || len(tool.Styles) == 0 {
		return fmt.Errorf("tool registration failed: name and styles are required")
	}
	c.tools = append(c.tools, tool)
	return nil
}

func (c *Contributions) RegisterEditor(ed blocktype.Editor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}
	return c.Editors.Register(ed)
}

// Seal ends the contribution phase and returns the collected menu items
// and tools.
func (c *Contributions) Seal() ([]blocktype.MenuItem, []blocktype.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
	return append([]blocktype.MenuItem(nil), c.menuItems...), append([]blocktype.Tool(nil), c.tools...)
}
