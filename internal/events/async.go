package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"xaalis/internal/log"
)

const DefaultBufferSize = 256

var (
	ErrBufferFull      = errors.New("event buffer full")
	ErrPublisherClosed = errors.New("publisher closed")
)

// Async hands events to a single background goroutine so callers never wait
// on the wrapped publisher. When the buffer is full the event is dropped.
type Async struct {
	inner  Publisher
	logger *log.Logger
	queue  chan queued
	done   chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	dropped atomic.Int64
	failed  atomic.Int64
}

type queued struct {
	ctx context.Context
	ev  Event
}

var _ Publisher = (*Async)(nil)

func NewAsync(inner Publisher, size int, logger *log.Logger) *Async {
	if inner == nil {
		inner = Nop{}
	}
	if size <= 0 {
		size = DefaultBufferSize
	}
	if logger == nil {
		logger = log.FromSlog(nil, log.ComponentEvents)
	}
	a := &Async{
		inner:  inner,
		logger: logger,
		queue:  make(chan queued, size),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues ev and returns immediately.
func (a *Async) Publish(ctx context.Context, ev Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrPublisherClosed
	}
	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), ev: ev}:
		return nil
	default:
		a.dropped.Add(1)
		return fmt.Errorf("%s: %w", ev.Type, ErrBufferFull)
	}
}

func (a *Async) run() {
	defer close(a.done)
	for item := range a.queue {
		if err := a.inner.Publish(item.ctx, item.ev); err != nil {
			a.failed.Add(1)
			a.logger.WarnContext(item.ctx, "Failed to deliver event",
				log.FieldOperation, log.OpPublish,
				log.FieldEventType, string(item.ev.Type),
				log.FieldError, err)
		}
	}
}

// Close stops accepting events and waits until the queued ones are delivered
// or ctx expires.
func (a *Async) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports events dropped on a full buffer and deliveries that failed.
func (a *Async) Stats() (dropped, failed int64) {
	return a.dropped.Load(), a.failed.Load()
}
