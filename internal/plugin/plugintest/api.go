// Package plugintest provides an in-memory EditorAPI for plugin tests.
package plugintest

import (
	"fmt"
	"sync"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/plugin"
)

// API records what plugins do through the EditorAPI.
type API struct {
	*plugin.Contributions
	Events *event.Manager
	Config map[string]map[string]any
	Path   string

	mu       sync.Mutex
	objects  []block.Object
	modified bool
	saves    int
	saveErr  error
	messages []string
}

var _ plugin.EditorAPI = (*API)(nil)

// New returns an API over empty registries.
func New() *API {
	reg, _ := blocktype.NewRegistry()
	eds, _ := blocktype.NewEditorRegistry()
	return &API{
		Contributions: plugin.NewContributions(reg, eds),
		Events:        event.NewManager(),
		Config:        map[string]map[string]any{},
	}
}

// SetDocument replaces the document and marks it modified.
func (a *API) SetDocument(objs []block.Object) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects = objs
	a.modified = true
}

// FailSaves makes SaveDocument return err.
func (a *API) FailSaves(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saveErr = err
}

// Saves counts successful saves.
func (a *API) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Messages returns status messages in order.
func (a *API) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// LastMessage returns the most recent status message.
func (a *API) LastMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.messages) == 0 {
		return ""
	}
	return a.messages[len(a.messages)-1]
}

func (a *API) Objects() []block.Object {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.objects
}

func (a *API) DocumentPath() string { return a.Path }

func (a *API) IsModified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modified
}

func (a *API) SaveDocument() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saveErr != nil {
		return a.saveErr
	}
	a.saves++
	a.modified = false
	return nil
}

func (a *API) DispatchEvent(t event.Type, data interface{}) { a.Events.Dispatch(t, data) }

func (a *API) SubscribeEvent(t event.Type, h event.Handler) { a.Events.Subscribe(t, h) }

func (a *API) SetStatusMessage(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, fmt.Sprintf(format, args...))
}

func (a *API) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	v, ok := a.Config[pluginName][key]
	return v, ok
}
