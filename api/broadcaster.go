package api

import (
	"sync"
)

// EventType distinguishes the three kinds of event a TinyVM session
// publishes to its WebSocket subscribers.
type EventType string

const (
	// EventTypeRegisters accompanies every step/run: the register/flag
	// snapshot and the session's coarse execution state right after it.
	EventTypeRegisters EventType = "registers"
	// EventTypeOutput accompanies one prn write.
	EventTypeOutput EventType = "output"
	// EventTypeExecution marks a breakpoint hit, halt, or fault —
	// transitions a client cares about independent of the per-step
	// register stream.
	EventTypeExecution EventType = "execution"
)

// RegistersEvent is an EventTypeRegisters payload.
type RegistersEvent struct {
	State     string            `json:"state"`
	Registers RegistersResponse `json:"registers"`
}

// OutputEvent is an EventTypeOutput payload: one prn write.
type OutputEvent struct {
	Content string `json:"content"`
}

// ExecutionEvent is an EventTypeExecution payload.
type ExecutionEvent struct {
	State string `json:"state"`
	Eip   int32  `json:"eip"`
	Error string `json:"error,omitempty"`
}

// BroadcastEvent is one message sent to WebSocket subscribers. Exactly
// one of Registers/Output/Execution is populated, selected by Type.
type BroadcastEvent struct {
	Type      EventType       `json:"type"`
	SessionID string          `json:"sessionId"`
	Registers *RegistersEvent `json:"registers,omitempty"`
	Output    *OutputEvent    `json:"output,omitempty"`
	Execution *ExecutionEvent `json:"execution,omitempty"`
}

// Subscription is a client's subscription to events, optionally
// filtered to one session ID and/or a set of event types.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans TinyVM session events out to every matching
// WebSocket subscription. Delivery is best-effort: a slow or
// unsubscribed client never blocks the session that published the
// event.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a Broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					// subscriber too slow; drop rather than block the session
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe creates a subscription, filtered to sessionID (empty =
// every session) and eventTypes (empty = every type).
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	eventTypeMap := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		eventTypeMap[et] = true
	}

	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: eventTypeMap,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.register <- sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

func (b *Broadcaster) broadcastEvent(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
		// broadcaster itself is backed up; drop rather than block the caller
	}
}

// BroadcastRegisters publishes a post-step/run register snapshot.
func (b *Broadcaster) BroadcastRegisters(sessionID string, state string, registers RegistersResponse) {
	b.broadcastEvent(BroadcastEvent{
		Type:      EventTypeRegisters,
		SessionID: sessionID,
		Registers: &RegistersEvent{State: state, Registers: registers},
	})
}

// BroadcastOutput publishes one prn write.
func (b *Broadcaster) BroadcastOutput(sessionID, content string) {
	b.broadcastEvent(BroadcastEvent{
		Type:      EventTypeOutput,
		SessionID: sessionID,
		Output:    &OutputEvent{Content: content},
	})
}

// BroadcastExecution publishes a breakpoint hit, halt, or fault. err
// may be nil (a clean halt or a breakpoint stop carries no error).
func (b *Broadcaster) BroadcastExecution(sessionID, state string, eip int32, err error) {
	ev := &ExecutionEvent{State: state, Eip: eip}
	if err != nil {
		ev.Error = err.Error()
	}
	b.broadcastEvent(BroadcastEvent{
		Type:      EventTypeExecution,
		SessionID: sessionID,
		Execution: ev,
	})
}

// Close shuts down the broadcaster and closes every subscription.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
