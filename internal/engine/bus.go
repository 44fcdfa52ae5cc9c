package engine

import (
	"io"

	"github.com/charmbracelet/log"
)

// maxPublishDepth bounds re-entrant publishes. A handler may publish during
// dispatch; past this depth the event is dropped and logged rather than
// overflowing the stack.
const maxPublishDepth = 32

// Handler processes a single event. Handlers run synchronously on the
// publishing call stack, in subscription order.
type Handler func(Event)

// Subscription identifies a single bus subscription for later removal.
type Subscription struct {
	topic Topic
	id    uint64
}

// binding is one registered handler on a topic.
type binding struct {
	id    uint64
	owner any
	once  bool
	fn    Handler
}

// Bus is a synchronous, in-process publish/subscribe dispatcher. It is the
// only inter-module communication channel; modules never hold references to
// each other. The bus follows the session's cooperative single-turn model
// and must not be shared across goroutines.
type Bus struct {
	handlers map[Topic][]binding
	nextID   uint64
	depth    int
	logger   *log.Logger
}

// NewBus creates an empty bus. A nil logger disables fault logging.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus{
		handlers: make(map[Topic][]binding),
		logger:   logger,
	}
}

// Subscribe registers a handler for a topic. The optional owner groups
// subscriptions for bulk removal via UnsubscribeAll.
func (b *Bus) Subscribe(topic Topic, fn Handler, owner any) Subscription {
	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], binding{
		id:    b.nextID,
		owner: owner,
		fn:    fn,
	})
	return Subscription{topic: topic, id: b.nextID}
}

// SubscribeOnce registers a handler that is removed immediately after its
// first invocation, whether the handler succeeds or panics.
func (b *Bus) SubscribeOnce(topic Topic, fn Handler) Subscription {
	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], binding{
		id:   b.nextID,
		once: true,
		fn:   fn,
	})
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes a single subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	list := b.handlers[sub.topic]
	for i, bd := range list {
		if bd.id == sub.id {
			b.handlers[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll removes every subscription registered with the given owner
// across all topics.
func (b *Bus) UnsubscribeAll(owner any) {
	if owner == nil {
		return
	}
	for topic, list := range b.handlers {
		kept := list[:0:0]
		for _, bd := range list {
			if bd.owner != owner {
				kept = append(kept, bd)
			}
		}
		b.handlers[topic] = kept
	}
}

// Publish delivers the event to all currently-registered handlers for its
// topic, synchronously and in subscription order. A handler that panics is
// logged as a non-fatal handler fault and does not abort dispatch to the
// remaining handlers.
func (b *Bus) Publish(ev Event) {
	if b.depth >= maxPublishDepth {
		b.logger.Warn("bus: publish depth cap reached, dropping event",
			"topic", ev.EventTopic(), "depth", b.depth)
		return
	}

	topic := ev.EventTopic()
	list := b.handlers[topic]
	if len(list) == 0 {
		return
	}

	// Snapshot so handlers can subscribe/unsubscribe during dispatch
	// without affecting this delivery.
	snapshot := make([]binding, len(list))
	copy(snapshot, list)

	b.depth++
	for _, bd := range snapshot {
		if bd.once {
			b.Unsubscribe(Subscription{topic: topic, id: bd.id})
		}
		b.invoke(topic, bd, ev)
	}
	b.depth--
}

// invoke runs one handler with panic isolation.
func (b *Bus) invoke(topic Topic, bd binding, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bus: event handler panic",
				"topic", topic, "panic", r)
		}
	}()
	bd.fn(ev)
}
