package monitor

import (
	"sync"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// EventClass identifies what happened to an asset.
type EventClass int

const (
	AssetAdded EventClass = iota
	AssetModified
	AssetRemoved
)

// String returns a log-friendly token for the event class.
func (c EventClass) String() string {
	switch c {
	case AssetAdded:
		return "added"
	case AssetModified:
		return "modified"
	case AssetRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a single change to an asset. The handle is a
// reference, not a snapshot: by the time a consumer resolves it, the
// asset may already have changed again or disappeared.
type Event struct {
	Class  EventClass
	Handle registry.Handle
}

// Handler consumes events. Handlers run on the delivering source's
// goroutine, one event at a time, and must not block.
type Handler func(Event)

// Source delivers asset change events to subscribers. Subscriptions are
// grouped under an owner token so a component can withdraw everything it
// registered in one call.
type Source interface {
	// Subscribe registers h for events of the given class.
	Subscribe(class EventClass, owner string, h Handler) error

	// UnsubscribeAll drops every subscription held by owner. Unknown
	// owners are a no-op.
	UnsubscribeAll(owner string)
}

// Bus is an in-memory [Source]. Events enter through [Bus.Publish] and
// fan out synchronously to every handler subscribed to their class.
// Delivery is serialized: a second Publish waits until the first has
// finished with all handlers. Handler order across owners is
// unspecified.
//
// The zero value is not usable; call [NewBus].
type Bus struct {
	mu   sync.RWMutex
	pub  sync.Mutex
	subs map[EventClass]map[string][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventClass]map[string][]Handler)}
}

// Subscribe registers h for events of the given class under owner.
func (b *Bus) Subscribe(class EventClass, owner string, h Handler) error {
	if h == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot subscribe a nil handler")
	}
	if owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cannot subscribe without an owner token")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	owners, ok := b.subs[class]
	if !ok {
		owners = make(map[string][]Handler)
		b.subs[class] = owners
	}
	owners[owner] = append(owners[owner], h)
	return nil
}

// UnsubscribeAll drops every subscription held by owner.
func (b *Bus) UnsubscribeAll(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, owners := range b.subs {
		delete(owners, owner)
	}
}

// Publish delivers e to every handler subscribed to its class. Handlers
// registered or removed while Publish runs do not affect the in-flight
// delivery.
func (b *Bus) Publish(e Event) {
	b.pub.Lock()
	defer b.pub.Unlock()

	b.mu.RLock()
	var handlers []Handler
	for _, hs := range b.subs[e.Class] {
		handlers = append(handlers, hs...)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
