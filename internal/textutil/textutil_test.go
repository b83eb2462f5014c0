package textutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
)

func TestOffsets(t *testing.T) {
	s := "héllo"
	assert.Equal(t, 0, RuneIndexToByteOffset(s, 0))
	assert.Equal(t, 3, RuneIndexToByteOffset(s, 2))
	assert.Equal(t, len(s), RuneIndexToByteOffset(s, 5))
	assert.Equal(t, -1, RuneIndexToByteOffset(s, 6))

	assert.Equal(t, 2, ByteOffsetToRuneIndex(s, 3))
	assert.Equal(t, 1, ByteOffsetToRuneIndex(s, 2), "inside é counts to its start")
	assert.Equal(t, 5, ByteOffsetToRuneIndex(s, 100))
}

func TestWidthAndGraphemes(t *testing.T) {
	assert.Equal(t, 5, RuneLen("héllo"))
	assert.Equal(t, 1, Graphemes("🇩🇪"))
	assert.Equal(t, 4, Width("日本"))
	assert.Equal(t, "日…", Truncate("日本語", 3, "…"))
	assert.Equal(t, "abc", Truncate("abc", 3, "…"))
}

func TestWords(t *testing.T) {
	assert.Equal(t, 0, Words("   "))
	assert.Equal(t, 3, Words(" one two\tthree\n"))
}

func TestWordSpans(t *testing.T) {
	spans := WordSpans("héllo, don't 42 x'")
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Offset: 0, Length: 5, Text: "héllo"}, spans[0])
	assert.Equal(t, Span{Offset: 7, Length: 5, Text: "don't"}, spans[1])
	assert.Equal(t, Span{Offset: 16, Length: 1, Text: "x"}, spans[2])
	assert.Empty(t, WordSpans(" 12 -- "))
}

func TestClampStyles(t *testing.T) {
	styles := []block.InlineStyle{
		{Offset: 0, Length: 2, Style: "BOLD"},
		{Offset: 3, Length: 10, Style: "ITALIC"},
		{Offset: 9, Length: 1, Style: "UNDERLINE"},
		{Offset: 1, Length: 0, Style: "LINK"},
	}
	got := ClampStyles("abcde", styles)
	assert.Equal(t, []block.InlineStyle{
		{Offset: 0, Length: 2, Style: "BOLD"},
		{Offset: 3, Length: 2, Style: "ITALIC"},
	}, got)
}

func TestDebouncer(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.LastCalled().IsZero())

	d.Debounce(time.Hour, func() { calls.Add(1) })
	assert.True(t, d.Stop())
	assert.False(t, d.Stop())
}
