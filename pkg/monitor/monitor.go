package monitor

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// State reports whether a monitor is watching for changes.
type State int

const (
	StateIdle State = iota
	StateMonitoring
)

// String returns a log-friendly token for the state.
func (s State) String() string {
	if s == StateMonitoring {
		return "monitoring"
	}
	return "idle"
}

// Callback receives the freshly resolved asset behind a change event.
// It runs on the source's delivery goroutine and must not block.
type Callback func(*asset.ScriptAsset)

// Options configure a [Monitor].
type Options struct {
	// Kind filters events; handles of any other kind are ignored.
	// Defaults to registry.KindBlueprint.
	Kind registry.Kind

	// Logger receives resolution failures and debug traces. Defaults to
	// a silent logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills in defaults for unset fields.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Kind == "" {
		o.Kind = registry.KindBlueprint
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Monitor connects an event source to a callback. It holds exactly one
// registration with its source, identified by a random owner token, and
// guarantees the callback is never registered twice no matter how often
// [Monitor.Start] is called.
//
// The zero value is not usable; call [New].
type Monitor struct {
	src   Source
	repo  registry.Repository
	kind  registry.Kind
	log   *log.Logger
	owner string

	mu    sync.Mutex
	state State
}

// New creates an idle monitor over the given source and repository.
func New(src Source, repo registry.Repository, opts Options) (*Monitor, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no event source to monitor")
	}
	if repo == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no repository to resolve assets against")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Monitor{
		src:   src,
		repo:  repo,
		kind:  opts.Kind,
		log:   opts.Logger,
		owner: uuid.NewString(),
	}, nil
}

// Start subscribes cb to asset changes and enters the monitoring state.
//
// Start on an already-monitoring monitor replaces the callback: the
// previous subscriptions are withdrawn before the new ones are
// registered, so the last caller wins and events are never delivered
// twice.
func (m *Monitor) Start(cb Callback) error {
	if cb == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no callback to deliver changes to")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.src.UnsubscribeAll(m.owner)

	resolve := m.resolveHandler(cb)
	for _, class := range []EventClass{AssetAdded, AssetModified} {
		if err := m.src.Subscribe(class, m.owner, resolve); err != nil {
			m.src.UnsubscribeAll(m.owner)
			m.state = StateIdle
			return errors.Wrap(errors.ErrCodeWatchFailed, err, "failed to subscribe to %s events", class)
		}
	}
	// Removals are observed but not forwarded; see the package comment.
	if err := m.src.Subscribe(AssetRemoved, m.owner, m.noteRemoval); err != nil {
		m.src.UnsubscribeAll(m.owner)
		m.state = StateIdle
		return errors.Wrap(errors.ErrCodeWatchFailed, err, "failed to subscribe to removal events")
	}

	m.state = StateMonitoring
	m.log.Debug("monitoring started", "kind", m.kind)
	return nil
}

// Stop withdraws the subscription and returns to the idle state.
// Stopping an idle monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateIdle {
		return
	}
	m.src.UnsubscribeAll(m.owner)
	m.state = StateIdle
	m.log.Debug("monitoring stopped")
}

// State reports whether the monitor is currently watching for changes.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// resolveHandler turns change events into callback invocations. Events
// for other kinds are dropped; a handle that no longer resolves is
// logged and skipped, since assets can vanish between event and lookup.
func (m *Monitor) resolveHandler(cb Callback) Handler {
	return func(e Event) {
		if e.Handle.Kind != m.kind {
			return
		}
		a, err := m.repo.Resolve(context.Background(), e.Handle)
		if err != nil {
			m.log.Warn("failed to resolve changed asset", "path", e.Handle.Path, "err", err)
			return
		}
		m.log.Debug("asset changed", "path", e.Handle.Path, "event", e.Class)
		cb(a)
	}
}

func (m *Monitor) noteRemoval(e Event) {
	m.log.Debug("asset removed", "path", e.Handle.Path)
}
