package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/document"
	"github.com/bethropolis/notebook/plugins/wordcount"
)

const (
	id1 = "aaaaaaaaaaaaaaaaaaaaaaa1"
	id2 = "aaaaaaaaaaaaaaaaaaaaaaa2"
)

func obj(id, typ, text string) block.Object {
	return block.Object{
		ID:      id,
		BlockID: "aaaaaaaaaa",
		Type:    typ,
		Data:    block.Data{"text": text, "inlineStyles": []any{}},
		Props:   block.Props{},
	}
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Editor.Highlight = false
	cfg.Editor.Watch = false
	cfg.Scripts.Enabled = false
	return cfg
}

type fixture struct {
	t      *testing.T
	app    *App
	screen tcell.SimulationScreen
	path   string
}

// newFixture writes objs to a notebook file, unless objs is nil, and opens
// it on a simulation screen.
func newFixture(t *testing.T, cfg *config.Config, objs []block.Object) *fixture {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	path := ""
	if objs != nil {
		path = filepath.Join(t.TempDir(), "notes.yaml")
		require.NoError(t, document.Save(path, objs))
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := New(Options{Path: path, Config: cfg, Screen: screen})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &fixture{t: t, app: a, screen: screen, path: path}
}

func (f *fixture) press(k tcell.Key, r rune, mod tcell.ModMask) {
	f.app.handleEvent(tcell.NewEventKey(k, r, mod))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.press(tcell.KeyRune, r, tcell.ModNone)
	}
}

func (f *fixture) texts() []string {
	var out []string
	for _, b := range f.app.Host().Sequence() {
		out = append(out, b.Text())
	}
	return out
}

func (f *fixture) screenText() string {
	w, h := f.screen.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := f.screen.GetContent(x, y)
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *fixture) quitClosed() bool {
	select {
	case <-f.app.quit:
		return true
	default:
		return false
	}
}

func TestNew_LoadsAndDraws(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello"), obj(id2, blocks.Heading, "Title")})

	assert.Equal(t, []string{"hello", "Title"}, f.texts())
	assert.False(t, f.app.IsModified())

	f.app.draw()
	out := f.screenText()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "# Title")
}

func TestNew_BadDocument(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "notes.txt"), Config: testConfig(), Screen: tcell.NewSimulationScreen("UTF-8")})
	assert.Error(t, err)
}

func TestTypingThenSave(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	f.typeText("x")
	assert.Equal(t, []string{"xhello"}, f.texts())
	assert.True(t, f.app.IsModified())

	f.press(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	assert.False(t, f.app.IsModified())

	loaded, err := document.Load(f.path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "xhello", loaded[0].Data["text"])
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	f.typeText("ab")
	assert.Equal(t, []string{"abhello"}, f.texts())

	require.NoError(t, f.app.Undo())
	assert.Equal(t, []string{"ahello"}, f.texts())
	require.NoError(t, f.app.Undo())
	assert.Equal(t, []string{"hello"}, f.texts())
	assert.ErrorIs(t, f.app.Undo(), ErrNothingToUndo)

	require.NoError(t, f.app.Redo())
	assert.Equal(t, []string{"ahello"}, f.texts())

	f.press(tcell.KeyCtrlR, 0, tcell.ModCtrl)
	assert.Equal(t, []string{"abhello"}, f.texts())
	assert.ErrorIs(t, f.app.Redo(), ErrNothingToRedo)
}

func TestSaveAs_UnnamedNotebook(t *testing.T) {
	f := newFixture(t, nil, nil)
	assert.ErrorIs(t, f.app.Save(), ErrNoPath)

	f.press(tcell.KeyEnter, 0, tcell.ModNone)
	f.typeText("a")
	assert.Equal(t, []string{"a"}, f.texts())

	path := filepath.Join(t.TempDir(), "new.json")
	require.NoError(t, f.app.SaveAs(path))
	assert.Equal(t, path, f.app.DocumentPath())
	assert.False(t, f.app.IsModified())

	loaded, err := document.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a", loaded[0].Data["text"])

	assert.Error(t, f.app.SaveAs(filepath.Join(t.TempDir(), "new.txt")))
}

func TestReload(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})
	f.typeText("x")

	require.NoError(t, document.Save(f.path, []block.Object{obj(id2, blocks.Heading, "from disk")}))
	require.NoError(t, f.app.Reload())

	assert.Equal(t, []string{"from disk"}, f.texts())
	assert.False(t, f.app.IsModified())
	assert.ErrorIs(t, f.app.Undo(), ErrNothingToUndo)
}

func TestExternalChange(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	f.app.onExternalChange([]block.Object{obj(id2, blocks.Paragraph, "outside")})
	assert.Equal(t, []string{"outside"}, f.texts())
	assert.False(t, f.app.IsModified())

	f.typeText("x")
	f.app.onExternalChange([]block.Object{obj(id1, blocks.Paragraph, "ignored")})
	assert.Equal(t, []string{"xoutside"}, f.texts(), "local changes are kept")
	msg, ok := f.app.statusBar.Message()
	require.True(t, ok)
	assert.Contains(t, msg, "changed on disk")
}

func TestQuit(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})
	f.typeText("x")

	f.app.Quit(false)
	assert.False(t, f.quitClosed())

	f.app.Quit(true)
	assert.True(t, f.quitClosed())
}

func TestRun_ForceQuit(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	done := make(chan error, 1)
	go func() { done <- f.app.Run() }()
	f.screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Ctrl+Q")
	}
}

func TestCommands(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	f.press(tcell.KeyCtrlG, 0, tcell.ModCtrl)
	f.typeText("type heading")
	f.press(tcell.KeyEnter, 0, tcell.ModNone)

	seq := f.app.Host().Sequence()
	require.Len(t, seq, 1)
	assert.Equal(t, blocks.Heading, seq[0].Type())
	assert.Equal(t, "hello", seq[0].Text())

	f.press(tcell.KeyCtrlG, 0, tcell.ModCtrl)
	f.typeText("plugins")
	f.press(tcell.KeyEnter, 0, tcell.ModNone)
	msg, ok := f.app.statusBar.Message()
	require.True(t, ok)
	assert.Contains(t, msg, "wordcount")
}

func TestPluginContributions(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	var names []string
	for _, item := range f.app.Host().MenuItems(blocks.Paragraph) {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, wordcount.MenuName)

	var tools []string
	for _, tool := range f.app.Host().Tools() {
		tools = append(tools, tool.Name)
	}
	assert.Contains(t, tools, "spelling")

	cfg := testConfig()
	cfg.Plugins["wordcount"] = map[string]any{"enabled": false}
	f = newFixture(t, cfg, []block.Object{obj(id1, blocks.Paragraph, "hello")})
	for _, item := range f.app.Host().MenuItems(blocks.Paragraph) {
		assert.NotEqual(t, wordcount.MenuName, item.Name)
	}
}

func TestDefaultBlockType(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.DefaultBlockType = blocks.Heading
	f := newFixture(t, cfg, nil)

	f.press(tcell.KeyEnter, 0, tcell.ModNone)
	seq := f.app.Host().Sequence()
	require.Len(t, seq, 1)
	assert.Equal(t, blocks.Heading, seq[0].Type())

	cfg = testConfig()
	cfg.Editor.DefaultBlockType = "nope"
	_, err := New(Options{Config: cfg, Screen: tcell.NewSimulationScreen("UTF-8")})
	assert.Error(t, err)
}

func TestReadOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.ReadOnly = true
	f := newFixture(t, cfg, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	f.typeText("x")
	assert.Equal(t, []string{"hello"}, f.texts())
	assert.False(t, f.app.IsModified())

	f.app.draw()
	assert.Contains(t, strings.ToLower(f.screenText()), "read-only")
}

func TestThemes(t *testing.T) {
	f := newFixture(t, nil, []block.Object{obj(id1, blocks.Paragraph, "hello")})

	assert.Error(t, f.app.SetTheme("missing"))
	require.NoError(t, f.app.SetTheme("notebook dark"))
	assert.Equal(t, "Notebook Dark", f.app.GetTheme().Name)
	assert.Contains(t, f.app.ListThemes(), "Notebook Dark")
}
