package lang

import (
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/notebook/internal/logger"
)

var registry struct {
	sync.RWMutex
	languages []*Language
	byName    map[string]*Language
}

// Register adds a language under its name and aliases, case-insensitively.
// A later registration of the same key wins.
func Register(lang *Language) {
	registry.Lock()
	defer registry.Unlock()

	if registry.byName == nil {
		registry.byName = make(map[string]*Language)
	}
	registry.languages = append(registry.languages, lang)
	for _, key := range append([]string{lang.Name}, lang.Aliases...) {
		key = strings.ToLower(key)
		if existing, ok := registry.byName[key]; ok && existing != lang {
			logger.Warnf("language key %s already registered to %s, overriding with %s", key, existing.Name, lang.Name)
		}
		registry.byName[key] = lang
	}
	logger.DebugTagf("highlight", "registered language %s (aliases %v)", lang.Name, lang.Aliases)
}

// Get returns the language registered under name, or nil.
func Get(name string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[strings.ToLower(strings.TrimSpace(name))]
}

// Names lists every accepted lookup key, sorted.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.byName))
	for k := range registry.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// All returns the registered languages in registration order.
func All() []*Language {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]*Language, len(registry.languages))
	copy(out, registry.languages)
	return out
}
