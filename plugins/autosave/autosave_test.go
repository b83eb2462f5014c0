package autosave

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/plugin/plugintest"
)

func newAPI(cfg map[string]any) *plugintest.API {
	api := plugintest.New()
	api.Path = "/tmp/notebook.yaml"
	api.Config["autosave"] = cfg
	return api
}

func TestDisabledByDefault(t *testing.T) {
	api := newAPI(nil)
	p := New()
	require.NoError(t, p.Initialize(api))
	api.SetDocument([]block.Object{})
	api.DispatchEvent(event.TypeSequenceCommitted, nil)
	require.NoError(t, p.Shutdown())
	assert.Zero(t, api.Saves())
}

func TestPeriodicSave(t *testing.T) {
	api := newAPI(map[string]any{"enabled": true, "interval": "10ms"})
	p := New()
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	api.SetDocument([]block.Object{})
	assert.Eventually(t, func() bool { return api.Saves() >= 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, api.IsModified())
}

func TestDelayedSaveAfterCommit(t *testing.T) {
	api := newAPI(map[string]any{"enabled": true, "interval": "1h", "delay": "10ms"})
	p := New()
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	api.SetDocument([]block.Object{})
	api.DispatchEvent(event.TypeSequenceCommitted, event.SequenceCommittedData{})
	assert.Eventually(t, func() bool { return api.Saves() == 1 }, time.Second, 5*time.Millisecond)
}

func TestShutdownFlushes(t *testing.T) {
	api := newAPI(map[string]any{"enabled": true, "interval": "bogus"})
	p := New().(*AutoSave)
	require.NoError(t, p.Initialize(api))
	assert.Equal(t, defaultInterval, p.interval, "invalid durations fall back to the default")

	api.SetDocument([]block.Object{})
	require.NoError(t, p.Shutdown())
	assert.Equal(t, 1, api.Saves())
}

func TestSaveSkipsWithoutPath(t *testing.T) {
	api := newAPI(map[string]any{"enabled": true, "interval": "1h"})
	api.Path = ""
	p := New()
	require.NoError(t, p.Initialize(api))
	api.SetDocument([]block.Object{})
	require.NoError(t, p.Shutdown())
	assert.Zero(t, api.Saves())
	assert.True(t, api.IsModified())
}

func TestSaveErrorKeepsModified(t *testing.T) {
	api := newAPI(map[string]any{"enabled": true, "interval": "1h"})
	api.FailSaves(errors.New("disk full"))
	p := New()
	require.NoError(t, p.Initialize(api))
	api.SetDocument([]block.Object{})
	require.NoError(t, p.Shutdown())
	assert.True(t, api.IsModified())
}
