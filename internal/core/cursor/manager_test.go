package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/notebook/internal/types"
)

func TestPositionRoundTrip(t *testing.T) {
	text := "ab\nçde\n"
	cases := []struct {
		offset int
		pos    types.Position
	}{
		{0, types.Position{Line: 0, Col: 0}},
		{2, types.Position{Line: 0, Col: 2}},
		{3, types.Position{Line: 1, Col: 0}},
		{6, types.Position{Line: 1, Col: 3}},
		{7, types.Position{Line: 2, Col: 0}},
	}
	for _, c := range cases {
		assert.Equal(t, c.pos, PositionOf(text, c.offset), "offset %d", c.offset)
		assert.Equal(t, c.offset, OffsetOf(text, c.pos), "pos %v", c.pos)
	}
	assert.Equal(t, types.Position{Line: 2, Col: 0}, PositionOf(text, 99))
	assert.Equal(t, 2, OffsetOf(text, types.Position{Line: 0, Col: 40}))
}

func TestVertical(t *testing.T) {
	text := "abcd\nxy"
	off, ok := Vertical(text, 3, 1)
	assert.True(t, ok)
	assert.Equal(t, 7, off, "column clamps to the shorter line")

	_, ok = Vertical(text, 3, -1)
	assert.False(t, ok)
	_, ok = Vertical("single", 2, 1)
	assert.False(t, ok)
}

func TestLineBounds(t *testing.T) {
	text := "abc\ndefg"
	assert.Equal(t, 4, LineStart(text, 6))
	assert.Equal(t, 8, LineEnd(text, 6))
	assert.Equal(t, 3, LineEnd(text, 1))
}
