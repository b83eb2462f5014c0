package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const tagKey = "tag" // attribute key carrying the record's tag

// debugFilter traces every filtering decision to stderr. Enabled with
// SetFilterDebug, meant for diagnosing a config that drops too much.
var debugFilter bool

// SetFilterDebug toggles filter tracing.
func SetFilterDebug(on bool) { debugFilter = on }

func debugFilterf(format string, args ...interface{}) {
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[logger] "+format+"\n", args...)
	}
}

// filteringHandler wraps a base slog.Handler and drops records by tag,
// source package and source file.
type filteringHandler struct {
	base slog.Handler
	cfg  *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{base: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.base.Handle(ctx, r)
	}

	pkg, file, hasSource := recordSource(r)
	if !h.cfg.packages.allows(pkg, hasSource) {
		debugFilterf("dropped %q: package %s", r.Message, pkg)
		return nil
	}
	if !h.cfg.files.allows(file, hasSource) {
		debugFilterf("dropped %q: file %s", r.Message, file)
		return nil
	}

	tag, hasTag := recordTag(r)
	// When specific tags are enabled, untagged records are dropped too.
	if !hasTag && h.cfg.tags.enabled != nil {
		debugFilterf("dropped %q: untagged", r.Message)
		return nil
	}
	if !h.cfg.tags.allows(tag, hasTag) {
		debugFilterf("dropped %q: tag %s", r.Message, tag)
		return nil
	}
	return h.base.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.base.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.base.WithGroup(name), h.cfg)
}

// recordSource resolves the caller's package directory and file name.
func recordSource(r slog.Record) (pkg, file string, ok bool) {
	if r.PC == 0 {
		return "", "", false
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

func recordTag(r slog.Record) (tag string, ok bool) {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag, ok = a.Value.String(), true
			return false
		}
		return true
	})
	return tag, ok
}
