// Package uiloop provides the single goroutine that owns presentation and
// map camera state. Work arriving from network goroutines is posted here
// instead of touching that state directly.
package uiloop

import (
	"log/slog"
	"sync"
)

type Loop struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	go l.run()
}

// Post queues fn behind all previously posted work. The queue is unbounded so
// that closures running on the loop may post more work without deadlocking.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Flush blocks until everything posted before the call has run.
func (l *Loop) Flush() {
	ran := make(chan struct{})
	if !l.Post(func() { close(ran) }) {
		<-l.done
		return
	}
	<-ran
}

// Close stops accepting work, runs what is already queued, and waits for the loop to exit.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		closed := l.closed
		l.mu.Unlock()

		for _, fn := range batch {
			l.exec(fn)
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-l.wake
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ui loop task panicked", "panic", r)
		}
	}()
	fn()
}
