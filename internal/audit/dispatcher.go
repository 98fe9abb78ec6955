package audit

import (
	"sync"
	"sync/atomic"
)

// Config controls the dispatch buffer between coordinator operations and the
// configured sink.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher decouples event producers from the sink: Emit enqueues, a single
// goroutine drains. A nil *Dispatcher is valid and inert, so callers never
// branch on whether audit is enabled.
type Dispatcher struct {
	sink    Sink
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	dropIf  bool
	dropped atomic.Uint64
}

// NewDispatcher returns nil when cfg.Enabled is false or sink is nil.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled || sink == nil {
		return nil
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = 1024
	}

	d := &Dispatcher{
		sink:   sink,
		ch:     make(chan Event, size),
		done:   make(chan struct{}),
		dropIf: cfg.DropIfFull,
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.ch {
		d.sink.Write(ev)
	}
}

// Emit enqueues ev. With DropIfFull it never blocks; otherwise it waits for
// buffer space so no event is lost.
func (d *Dispatcher) Emit(ev Event) {
	if d == nil {
		return
	}

	if d.dropIf {
		select {
		case d.ch <- ev:
		default:
			d.dropped.Add(1)
		}
		return
	}

	d.ch <- ev
}

// Close stops intake and waits until buffered events reach the sink.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.ch)
	})
	<-d.done
}

// Dropped reports how many events were discarded under DropIfFull.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
