package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStyle_Fallbacks(t *testing.T) {
	th := &Theme{Name: "t", Styles: map[string]tcell.Style{
		"Default": tcell.StyleDefault.Foreground(tcell.ColorWhite),
		"code":    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	}}
	assert.Equal(t, tcell.StyleDefault.Foreground(tcell.ColorGreen), th.GetStyle("code.keyword"))
	assert.Equal(t, tcell.StyleDefault.Foreground(tcell.ColorWhite), th.GetStyle("inline.bold"))
	assert.True(t, th.Has("code.string"))
	assert.False(t, th.Has("inline.bold"))
}

func TestInlineStyleName(t *testing.T) {
	assert.Equal(t, "inline.bold", InlineStyleName("BOLD"))
	assert.Equal(t, "inline.highlight_green", InlineStyleName("HIGHLIGHT_GREEN"))
	assert.Equal(t, "code.keyword", InlineStyleName("CODE_KEYWORD"))
	for _, s := range []string{"BOLD", "ITALIC", "LINK", "SPELLING", "CODE_STRING"} {
		assert.True(t, NotebookDark.Has(InlineStyleName(s)), s)
	}
}

func TestOverlay(t *testing.T) {
	base := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	got := Overlay(base, tcell.StyleDefault.Italic(true).Background(tcell.ColorRed))
	fg, bg, attr := got.Decompose()
	assert.Equal(t, tcell.ColorWhite, fg)
	assert.Equal(t, tcell.ColorRed, bg)
	assert.NotZero(t, attr&tcell.AttrBold)
	assert.NotZero(t, attr&tcell.AttrItalic)
}

func TestManager_LoadsTomlThemes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.toml"), []byte(`
name = "Paper"
is_dark = false

[styles.Default]
fg = "#000000"
bg = "white"

[styles."block.heading"]
bold = true
underline = true

[styles.bad]
fg = "#12"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte(`name = `), 0o644))

	m := NewManager(dir)
	assert.Equal(t, []string{"Notebook Dark", "Paper"}, m.ListThemes())
	assert.Equal(t, "Notebook Dark", m.Current().Name)

	require.NoError(t, m.SetTheme("paper"))
	paper := m.Current()
	fg, bg, _ := paper.GetStyle("Default").Decompose()
	assert.Equal(t, tcell.NewHexColor(0x000000), fg)
	assert.Equal(t, tcell.ColorWhite, bg)

	hfg, _, attr := paper.GetStyle("block.heading").Decompose()
	assert.Equal(t, fg, hfg, "styles inherit from Default")
	assert.NotZero(t, attr&tcell.AttrUnderline)
	assert.False(t, paper.Has("bad"), "invalid styles are skipped")

	assert.Error(t, m.SetTheme("nope"))
}

func TestManager_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none"))
	assert.Equal(t, []string{"Notebook Dark"}, m.ListThemes())
}

func TestLoadThemeFromFile_Shorthands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warm.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
extends = "notebook dark"

[blocks.quote]
fg = "orange"
italic = false

[inline.STRIKETHROUGH]
strikethrough = true
dim = true

[styles."block.quote"]
fg = "#f0a"
`), 0o644))

	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warm", th.Name, "name defaults to the file name")
	assert.True(t, th.Has("code.keyword"), "extended themes keep the built-in styles")

	fg, _, _ := th.GetStyle("block.quote").Decompose()
	assert.Equal(t, tcell.NewHexColor(0xff00aa), fg, "[styles] wins over a shorthand")

	_, _, attr := th.GetStyle("inline.strikethrough").Decompose()
	assert.NotZero(t, attr&tcell.AttrStrikeThrough)
	assert.NotZero(t, attr&tcell.AttrDim)
}

func TestLoadThemeFromFile_UnknownParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.toml")
	require.NoError(t, os.WriteFile(path, []byte(`extends = "solarized"`), 0o644))
	_, err := LoadThemeFromFile(path)
	assert.Error(t, err)
}

func TestManager_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Paper"`), 0o644))

	m := NewManager(dir)
	require.NoError(t, m.SetTheme("Paper"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ink.toml"), []byte(`name = "Ink"`), 0o644))
	require.NoError(t, m.Reload())
	assert.Equal(t, []string{"Ink", "Notebook Dark", "Paper"}, m.ListThemes())
	assert.Equal(t, "Paper", m.Current().Name, "active theme survives a reload")

	require.NoError(t, os.Remove(path))
	require.NoError(t, m.Reload())
	assert.Equal(t, "Notebook Dark", m.Current().Name)
}
