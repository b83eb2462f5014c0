package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notebookYAML = `blocks:
  - id: aaaaaaaaaaaaaaaaaaaaaaa1
    blockid: aaaaaaaaaa
    type: heading
    data:
      text: Title
      inlineStyles: []
  - id: aaaaaaaaaaaaaaaaaaaaaaa2
    blockid: aaaaaaaaab
    type: paragraph
    data:
      text: Body text
      inlineStyles: []
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command with a config file that does not exist,
// so the user's config never leaks into a test.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	base := []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "--loglevel", "error", "--logfile", "-"}
	rootCmd.SetArgs(append(args, base...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	path := writeFile(t, "notes.yaml", notebookYAML)

	out, err := run(t, "render", path, "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody text\n", out)
}

func TestRender_BadFile(t *testing.T) {
	_, err := run(t, "render", filepath.Join(t.TempDir(), "notes.txt"))
	require.Error(t, err)
	assert.True(t, isPrinted(err))
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.yaml", notebookYAML)
	bad := writeFile(t, "bad.json", `[{"id":"aaaaaaaaaaaaaaaaaaaaaaa1","blockid":"aaaaaaaaaa","type":"headng","data":{"text":""}}]`)

	out, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.yaml: 2 blocks")

	out, err = run(t, "check", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "bad.json")
	assert.Contains(t, out, "did you mean heading?")
	assert.Contains(t, err.Error(), "1 of 2 files failed")
}
