package lang

import (
	"fmt"
	"io/fs"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/notebook/internal/logger"
)

// QueryFS is the filesystem holding queries/<name>/highlights.scm files.
var QueryFS fs.FS

// Language is a grammar a code block can be highlighted with.
type Language struct {
	// Name is the display name, also accepted as a lookup key.
	Name string

	TreeSitterLang *sitter.Language

	// Aliases are the other names a code block may give in its
	// "language" field, e.g. "golang" or "js".
	Aliases []string

	// QueryPath is the directory under queries/.
	QueryPath string
}

// Query loads the highlight query source for this language.
func (l *Language) Query() ([]byte, error) {
	if QueryFS == nil {
		return nil, fmt.Errorf("no query filesystem set for %s", l.Name)
	}
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for %s", l.Name)
	}
	path := fmt.Sprintf("queries/%s/highlights.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, path)
	if err != nil {
		return nil, fmt.Errorf("load query for %s: %w", l.Name, err)
	}
	logger.DebugTagf("highlight", "loaded %s for %s (%d bytes)", path, l.Name, len(query))
	return query, nil
}
