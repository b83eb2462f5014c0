// Package textutil holds the rune, grapheme and width helpers shared by the
// highlighter, the plugins and the terminal front end. Block text offsets
// are counted in runes throughout the notebook.
package textutil

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/notebook/internal/block"
)

// RuneIndexToByteOffset converts a rune index to a byte offset in s.
// Returns -1 if runeIndex is out of bounds.
func RuneIndexToByteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	byteOffset := 0
	currentRune := 0
	for byteOffset < len(s) {
		if currentRune == runeIndex {
			return byteOffset
		}
		_, size := utf8.DecodeRuneInString(s[byteOffset:])
		byteOffset += size
		currentRune++
	}
	if currentRune == runeIndex {
		return len(s)
	} // index at the very end is allowed
	return -1
}

// ByteOffsetToRuneIndex converts a byte offset to a rune index in s.
// An offset inside a multi-byte rune counts up to that rune's start.
func ByteOffsetToRuneIndex(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRuneInString(s[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		}
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}

// RuneLen is the length of s in runes.
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// Graphemes is the number of user-perceived characters in s.
func Graphemes(s string) int { return uniseg.GraphemeClusterCount(s) }

// Width is the number of terminal cells s occupies.
func Width(s string) int { return uniseg.StringWidth(s) }

// Truncate cuts s to at most width cells without splitting a grapheme
// cluster, appending tail when anything was dropped.
func Truncate(s string, width int, tail string) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	width -= uniseg.StringWidth(tail)
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width {
			break
		}
		sb.WriteString(gr.Str())
		used += w
	}
	return sb.String() + tail
}

// Words counts whitespace separated words.
func Words(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}

// Span is a run of text located by rune offset.
type Span struct {
	Offset int
	Length int
	Text   string
}

// WordSpans finds runs of letters, allowing inner apostrophes ("don't").
// Offsets are in runes.
func WordSpans(s string) []Span {
	runes := []rune(s)
	var spans []Span
	for i := 0; i < len(runes); {
		if !unicode.IsLetter(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && (unicode.IsLetter(runes[i]) ||
			(runes[i] == '\'' && i+1 < len(runes) && unicode.IsLetter(runes[i+1]))) {
			i++
		}
		spans = append(spans, Span{Offset: start, Length: i - start, Text: string(runes[start:i])})
	}
	return spans
}

// ClampStyles fits inline styles to text of the given rune length. Ranges
// that start past the end are dropped and ranges running over the end are
// shortened.
func ClampStyles(text string, styles []block.InlineStyle) []block.InlineStyle {
	n := RuneLen(text)
	out := make([]block.InlineStyle, 0, len(styles))
	for _, s := range styles {
		if s.Offset < 0 || s.Offset >= n || s.Length <= 0 {
			continue
		}
		if s.End() > n {
			s.Length = n - s.Offset
		}
		out = append(out, s)
	}
	return out
}

// Debouncer provides a way to debounce function calls.
type Debouncer struct {
	mutex      sync.Mutex
	timer      *time.Timer
	lastCalled time.Time
}

// Debounce calls fn after duration, canceling any pending call.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		d.lastCalled = time.Now()
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// LastCalled is when the debounced function last ran.
func (d *Debouncer) LastCalled() time.Time {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastCalled
}
