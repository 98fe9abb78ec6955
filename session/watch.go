package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event is one raw change notification: which logical key changed, what it
// held before and after, and which context wrote it. Deliveries preserve the
// writer's per-key mutation order; nothing is promised across unrelated keys.
type Event struct {
	Origin   string `json:"origin"`
	Key      string `json:"key"`
	OldValue string `json:"old"`
	NewValue string `json:"new"`
}

// Cleared reports whether the write emptied the key.
func (e Event) Cleared() bool {
	return e.NewValue == ""
}

// MarshalZerologObject logs the event without its values; old and new may
// hold session claims and stay out of log output.
func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("origin", e.Origin).
		Str("key", e.Key).
		Bool("cleared", e.Cleared())
}

const watchBuffer = 64

// Watcher is a subscription to the origin's event channel with the local
// handle's own writes filtered out: a context never observes itself.
type Watcher struct {
	pubsub *redis.PubSub

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// Watch subscribes to the origin's event channel. The returned [Watcher]
// delivers sibling-context events on Events until Close is called or the
// subscription dies, at which point the channel is closed.
//
// The subscription is confirmed before Watch returns, so a write issued by
// another context after Watch returns is guaranteed to be observed.
func (s *Store) Watch(ctx context.Context) (*Watcher, error) {
	pubsub := s.rdb.Subscribe(ctx, s.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	w := &Watcher{
		pubsub: pubsub,
		events: make(chan Event, watchBuffer),
		done:   make(chan struct{}),
	}
	go w.run(pubsub.Channel(), s.origin)
	return w, nil
}

func (w *Watcher) run(ch <-chan *redis.Message, origin string) {
	defer close(w.events)
	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			continue
		}
		if ev.Origin == origin {
			continue
		}
		select {
		case w.events <- ev:
		case <-w.done:
			return
		}
	}
}

// Events returns the delivery channel. It is closed when the Watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close tears the subscription down. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.pubsub.Close()
	})
	return err
}
