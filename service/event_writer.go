package service

import (
	"bytes"
	"io"
	"sync"
)

// OutputBroadcaster receives one event per line of prn output, keyed by
// session ID. api.Broadcaster implements it over a fan-out channel (the
// API wires it in through a small adapter); the debugger passes nil.
type OutputBroadcaster interface {
	BroadcastOutput(sessionID, content string)
}

// EventEmittingWriter buffers prn output and republishes each write to
// an OutputBroadcaster, so a running Session's output reaches both its
// local buffer and any subscribed API/debugger clients.
type EventEmittingWriter struct {
	buffer      *bytes.Buffer
	broadcaster OutputBroadcaster
	sessionID   string
	mu          sync.Mutex
}

// NewEventEmittingWriter wraps buffer, broadcasting each write under
// sessionID. broadcaster may be nil, in which case writes only
// accumulate in buffer.
func NewEventEmittingWriter(buffer *bytes.Buffer, broadcaster OutputBroadcaster, sessionID string) *EventEmittingWriter {
	return &EventEmittingWriter{buffer: buffer, broadcaster: broadcaster, sessionID: sessionID}
}

func (w *EventEmittingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.buffer.Write(p)
	if err == nil && n > 0 && w.broadcaster != nil {
		w.broadcaster.BroadcastOutput(w.sessionID, string(p))
	}
	return n, err
}

// Drain returns the buffer's contents so far and clears it.
func (w *EventEmittingWriter) Drain() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.buffer.String()
	w.buffer.Reset()
	return out
}

var _ io.Writer = (*EventEmittingWriter)(nil)
