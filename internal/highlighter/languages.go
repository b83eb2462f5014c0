package highlighter

import (
	"embed"
	"sync"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"

	"github.com/bethropolis/notebook/internal/highlighter/lang"
	"github.com/bethropolis/notebook/internal/logger"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

var registerOnce sync.Once

// RegisterLanguages installs the built-in grammars. Safe to call more than
// once.
func RegisterLanguages() {
	registerOnce.Do(func() {
		if lang.QueryFS == nil {
			lang.QueryFS = embeddedQueries
		}

		lang.Register(&lang.Language{
			Name:           "Go",
			TreeSitterLang: gosrc.GetLanguage(),
			Aliases:        []string{"golang"},
			QueryPath:      "go",
		})
		lang.Register(&lang.Language{
			Name:           "Python",
			TreeSitterLang: pythonsrc.GetLanguage(),
			Aliases:        []string{"py"},
			QueryPath:      "python",
		})
		lang.Register(&lang.Language{
			Name:           "JavaScript",
			TreeSitterLang: jssrc.GetLanguage(),
			Aliases:        []string{"js", "node"},
			QueryPath:      "javascript",
		})

		logger.DebugTagf("highlight", "registered %d languages", len(lang.All()))
	})
}
