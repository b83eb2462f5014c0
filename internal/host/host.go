// Package host owns the committed notebook state. It runs every change
// through the reducer on a single worker goroutine, commits the result,
// flushes deferred effects against live refs and tells the outside world
// when the serialised sequence changed.
package host

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/effect"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/reducer"
)

var (
	ErrClosed   = errors.New("host closed")
	ErrReadOnly = errors.New("notebook is read-only")
	ErrNoEditor = errors.New("no editor open")
)

// Renderer is called synchronously on every commit, before effects run,
// so the UI can draw the sequence and register a FocusController per
// block in refs.
type Renderer interface {
	Render(seq block.Sequence, refs *effect.RefMap)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(seq block.Sequence, refs *effect.RefMap)

func (f RendererFunc) Render(seq block.Sequence, refs *effect.RefMap) { f(seq, refs) }

// Options configure a Host. Registry is required.
type Options struct {
	Registry  *blocktype.Registry
	Tools     []blocktype.Tool
	MenuItems []blocktype.MenuItem
	Editors   *blocktype.EditorRegistry

	InitProps  func() block.Props
	NewID      func() string
	NewBlockID func() string

	// Initial is the controlled value the host starts from.
	Initial []block.Object

	Renderer Renderer
	// OnChange receives the serialised sequence whenever a commit makes
	// it differ from the last value known outside. It runs on the worker
	// and must not call Dispatch synchronously.
	OnChange func([]block.Object)
	Events   *event.Manager

	ReadOnly  bool
	QueueSize int
	// DefaultType is created by CreateFirstBlock. Empty means the first
	// registered type.
	DefaultType string
}

// Host is the controlled-state container around the reducer.
type Host struct {
	opts    Options
	reducer *reducer.Reducer
	refs    *effect.RefMap
	events  *event.Manager

	mu     sync.RWMutex
	seq    block.Sequence
	known  []block.Object // last value supplied from or emitted to outside
	editor *EditorState

	jobs      chan job
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type job struct {
	ctx    context.Context
	name   string
	run    func(ctx context.Context) error
	result chan error
}

// New validates opts.Initial, starts the worker and returns the host.
func New(opts Options) (*Host, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("host: %w: registry is required", blocktype.ErrInvalidDefinition)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Events == nil {
		opts.Events = event.NewManager()
	}

	h := &Host{
		opts:   opts,
		refs:   effect.NewRefMap(),
		events: opts.Events,
		jobs:   make(chan job, opts.QueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	seq, err := h.build(opts.Initial)
	if err != nil {
		return nil, fmt.Errorf("host: initial value: %w", err)
	}
	h.seq = seq
	h.known = cloneObjects(opts.Initial)

	h.reducer = reducer.New(reducer.Env{
		Registry:   opts.Registry,
		Tools:      opts.Tools,
		MenuItems:  opts.MenuItems,
		Editors:    opts.Editors,
		Opener:     h,
		Refs:       h.refs,
		InitProps:  opts.InitProps,
		NewID:      opts.NewID,
		NewBlockID: opts.NewBlockID,
	})

	go h.work()
	h.render(seq)
	return h, nil
}

func (h *Host) work() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			return
		case j := <-h.jobs:
			if err := j.ctx.Err(); err != nil {
				j.result <- err
				continue
			}
			j.result <- h.run(j)
		}
	}
}

// run executes one job. A panic anywhere in it is returned as an error.
func (h *Host) run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %w", j.name, panicError(r))
			logger.Errorf("host: %v", err)
		}
	}()
	return j.run(j.ctx)
}

func panicError(r any) error {
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)
	return fmt.Errorf("%w: %v\n%s", reducer.ErrHookPanic, r, stack[:n])
}

// submit queues fn on the worker and waits for it to finish.
func (h *Host) submit(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, name: name, run: fn, result: make(chan error, 1)}
	select {
	case <-h.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case h.jobs <- j:
	}
	select {
	case err := <-j.result:
		return err
	case <-h.done:
		return ErrClosed
	}
}

// Dispatch applies act and commits the result. Dispatches are processed
// one at a time in arrival order, each reading the state the previous
// one committed. On error nothing is committed and no effect runs.
func (h *Host) Dispatch(ctx context.Context, act blocktype.Action) error {
	if act == nil {
		return fmt.Errorf("dispatch: %w: nil action", reducer.ErrUnknownAction)
	}
	return h.submit(ctx, string(act.Kind()), func(ctx context.Context) error {
		return h.apply(ctx, act)
	})
}

// apply runs on the worker.
func (h *Host) apply(ctx context.Context, act blocktype.Action) error {
	if h.opts.ReadOnly && act.Kind() != blocktype.KindMoveFocus {
		return h.fail(act, ErrReadOnly)
	}
	effects := effect.NewQueue()
	next, err := h.reduce(ctx, act, effects)
	if err != nil {
		effects.Discard()
		return h.fail(act, err)
	}
	h.commit(next, effects)
	h.events.Dispatch(event.TypeSequenceCommitted, event.SequenceCommittedData{
		Action:   string(act.Kind()),
		Sequence: next,
	})
	return nil
}

// reduce runs the reducer. A panicking hook or menu action becomes an
// ErrHookPanic error.
func (h *Host) reduce(ctx context.Context, act blocktype.Action, effects *effect.Queue) (next block.Sequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, panicError(r)
		}
	}()
	return h.reducer.Reduce(ctx, h.Sequence(), act, effects)
}

func (h *Host) fail(act blocktype.Action, err error) error {
	logger.WarnTagf("host", "dispatch %s rejected: %v", act.Kind(), err)
	h.events.Dispatch(event.TypeDispatchFailed, event.DispatchFailedData{Action: string(act.Kind()), Err: err})
	return fmt.Errorf("dispatch %s: %w", act.Kind(), err)
}

// commit installs next: render, drop stale refs, run effects, then
// notify if the serialised value moved away from the known one.
func (h *Host) commit(next block.Sequence, effects *effect.Queue) {
	h.mu.Lock()
	h.seq = next
	h.mu.Unlock()

	h.render(next)
	if n := h.refs.Prune(next); n > 0 {
		logger.DebugTagf("host", "pruned %d stale refs", n)
	}
	if effects != nil {
		effects.Flush(effect.Context{Sequence: next, Refs: h.refs, Registry: h.opts.Registry})
	}
	h.closeStaleEditor(next)
	h.notify(next)
}

func (h *Host) render(seq block.Sequence) {
	if h.opts.Renderer != nil {
		h.opts.Renderer.Render(seq, h.refs)
	}
}

func (h *Host) notify(seq block.Sequence) {
	objs := seq.Objects()
	h.mu.Lock()
	if block.EqualObjects(objs, h.known) {
		h.mu.Unlock()
		return
	}
	h.known = cloneObjects(objs)
	h.mu.Unlock()

	if h.opts.OnChange != nil {
		h.opts.OnChange(objs)
	}
}

// Sync reconciles the host with an externally supplied value. The whole
// value is validated first and rejected as a unit; when it is
// structurally equal to the committed sequence nothing is replaced.
func (h *Host) Sync(ctx context.Context, objs []block.Object) error {
	return h.submit(ctx, "sync", func(context.Context) error {
		seq, err := h.build(objs)
		if err != nil {
			logger.WarnTagf("host", "external value rejected: %v", err)
			return fmt.Errorf("sync: %w", err)
		}

		h.mu.Lock()
		h.known = cloneObjects(objs)
		same := block.EqualObjects(h.seq.Objects(), objs)
		if !same {
			h.seq = seq
		}
		h.mu.Unlock()

		if same {
			return nil
		}
		logger.DebugTagf("host", "adopted external value of %d blocks", len(seq))
		h.render(seq)
		h.refs.Prune(seq)
		h.closeStaleEditor(seq)
		h.events.Dispatch(event.TypeExternalSync, event.ExternalSyncData{Sequence: seq})
		return nil
	})
}

// build constructs blocks from objs, requiring registered types.
func (h *Host) build(objs []block.Object) (block.Sequence, error) {
	seq, err := block.FromObjects(objs)
	if err != nil {
		return nil, err
	}
	var errs []error
	for i, b := range seq {
		if _, err := h.opts.Registry.Lookup(b.Type()); err != nil {
			errs = append(errs, fmt.Errorf("block %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return seq, nil
}

// CreateFirstBlock adds a block of the default type when the notebook
// is empty.
func (h *Host) CreateFirstBlock(ctx context.Context) error {
	return h.submit(ctx, "create-first-block", func(ctx context.Context) error {
		if len(h.Sequence()) > 0 {
			return nil
		}
		typ := h.opts.DefaultType
		if typ == "" {
			first, ok := h.opts.Registry.First()
			if !ok {
				return fmt.Errorf("create first block: %w: registry is empty", blocktype.ErrUnknownBlockType)
			}
			typ = first.Type
		}
		return h.apply(ctx, blocktype.CreateNewBlock{BlockType: typ})
	})
}

// Sequence returns the committed sequence. Blocks are values, so the
// caller may keep it.
func (h *Host) Sequence() block.Sequence {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seq.Clone()
}

// Objects returns the committed sequence in serialised form.
func (h *Host) Objects() []block.Object {
	return h.Sequence().Objects()
}

// Refs is the id to FocusController map the renderer maintains.
func (h *Host) Refs() *effect.RefMap { return h.refs }

// Events is the bus the host publishes to.
func (h *Host) Events() *event.Manager { return h.events }

// Registry returns the block type registry.
func (h *Host) Registry() *blocktype.Registry { return h.opts.Registry }

// Tools returns the inline tools.
func (h *Host) Tools() []blocktype.Tool { return h.opts.Tools }

// MenuItems returns the menu of the block with the given type: the
// type's own items followed by the shared ones.
func (h *Host) MenuItems(typ string) []blocktype.MenuItem {
	var items []blocktype.MenuItem
	if def, err := h.opts.Registry.Lookup(typ); err == nil {
		items = append(items, def.MenuItems...)
	}
	return append(items, h.opts.MenuItems...)
}

// ReadOnly reports whether mutations are refused.
func (h *Host) ReadOnly() bool { return h.opts.ReadOnly }

// Close stops the worker. Queued work that has not started fails with
// ErrClosed.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		close(h.quit)
		<-h.done
	})
	return nil
}

func cloneObjects(objs []block.Object) []block.Object {
	if objs == nil {
		return nil
	}
	out := make([]block.Object, len(objs))
	for i, o := range objs {
		o.Data = o.Data.Clone()
		o.Props = o.Props.Clone()
		out[i] = o
	}
	return out
}
