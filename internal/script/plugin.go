package script

import (
	"context"
	"fmt"

	"github.com/bethropolis/notebook/internal/plugin"
)

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin loads the scripts of a directory and contributes their menu
// items to the notebook.
type Plugin struct {
	Dir    string
	engine *Engine
}

// NewPlugin loads scripts from dir on Initialize.
func NewPlugin(dir string) *Plugin {
	return &Plugin{Dir: dir}
}

func (p *Plugin) Name() string { return "scripts" }

// Initialize registers the menu items of every script that loaded. Script
// failures are reported after the good scripts are registered.
func (p *Plugin) Initialize(api plugin.EditorAPI) error {
	p.engine = NewEngine(WithStatus(func(msg string) {
		api.SetStatusMessage("%s", msg)
	}))
	loadErr := p.engine.LoadDir(context.Background(), p.Dir)

	for _, item := range p.engine.MenuItems() {
		if err := api.RegisterMenuItem(item); err != nil {
			return fmt.Errorf("register script menu item: %w", err)
		}
	}
	return loadErr
}

func (p *Plugin) Shutdown() error {
	if p.engine != nil {
		p.engine.Close()
	}
	return nil
}

// Engine is nil before Initialize.
func (p *Plugin) Engine() *Engine { return p.engine }
