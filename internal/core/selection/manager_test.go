package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	m := NewManager()
	assert.False(t, m.HasSelection())

	m.StartOrUpdate("a", 5, 4)
	m.StartOrUpdate("a", 4, 2)
	id, start, end, ok := m.Get()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
	assert.True(t, m.Contains("a", 4))
	assert.False(t, m.Contains("a", 5))
	assert.False(t, m.Contains("b", 3))

	m.StartOrUpdate("b", 0, 1)
	id, start, end, _ = m.Get()
	assert.Equal(t, "b", id)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, end)

	m.Clear()
	_, _, _, ok = m.Get()
	assert.False(t, ok)
}
