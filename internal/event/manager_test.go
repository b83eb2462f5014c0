package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_DispatchOrderAndConsume(t *testing.T) {
	m := NewManager()
	var got []string
	m.Subscribe(TypeSequenceCommitted, func(e Event) bool {
		got = append(got, "first:"+e.Data.(SequenceCommittedData).Action)
		return false
	})
	m.Subscribe(TypeSequenceCommitted, func(Event) bool {
		got = append(got, "second")
		return true
	})
	m.Subscribe(TypeSequenceCommitted, func(Event) bool {
		got = append(got, "third")
		return false
	})
	m.Subscribe(TypeDispatchFailed, func(Event) bool {
		got = append(got, "failed")
		return false
	})

	m.Dispatch(TypeSequenceCommitted, SequenceCommittedData{Action: "block-delete"})
	assert.Equal(t, []string{"first:block-delete", "second"}, got)
}

func TestManager_PanickingHandler(t *testing.T) {
	m := NewManager()
	reached := false
	m.Subscribe(TypeAppReady, func(Event) bool { panic("boom") })
	m.Subscribe(TypeAppReady, func(Event) bool { reached = true; return false })

	assert.NotPanics(t, func() { m.Dispatch(TypeAppReady, AppReadyData{}) })
	assert.True(t, reached)
}

func TestManager_NilAndEmpty(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() { m.Dispatch(TypeAppQuit, nil) })
	assert.NotPanics(t, func() { NewManager().Dispatch(TypeAppQuit, nil) })
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "editor-opened", TypeEditorOpened.String())
	assert.Equal(t, "unknown", Type(99).String())
}
