package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event is one auditable coordinator action: a session stored or cleared, an
// admin token decision, a guard redirect, a cross-context reaction.
type Event struct {
	Timestamp  time.Time      `json:"ts"`
	EventType  string         `json:"event"`
	IdentityID string         `json:"identity_id,omitempty"`
	Origin     string         `json:"origin,omitempty"`
	Path       string         `json:"path,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Sink receives audit events from the dispatcher. Write must not block for
// long; slow sinks back-pressure the dispatcher goroutine, not callers.
type Sink interface {
	Write(Event)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Write(Event) {}

// ChannelSink forwards events to a buffered channel, dropping when full.
// Useful for tests and for hosts that fan events into their own pipeline.
type ChannelSink struct {
	ch chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelSink{ch: make(chan Event, buffer)}
}

func (s *ChannelSink) Write(ev Event) {
	select {
	case s.ch <- ev:
	default:
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// JSONWriterSink writes one JSON object per line to w. Writes are
// serialized; w does not need to be concurrency-safe.
type JSONWriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{w: w}
}

func (s *JSONWriterSink) Write(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(append(data, '\n'))
}
