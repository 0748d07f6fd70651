package tui

import (
	"errors"
	"sync"

	"github.com/nerrad567/relaybank/internal/controller"
)

// Sender queues events for the controller. controller.Controller implements it.
type Sender interface {
	Send(ev controller.Event) error
}

// Logger is the logging interface used by the front-end.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// forwarder hands events to the controller in order. push never blocks:
// render calls from the controller wait on the bubbletea goroutine.
type forwarder struct {
	sender Sender
	logger Logger

	mu      sync.Mutex
	queue   []controller.Event
	stopped bool
	wake    chan struct{}
	done    chan struct{}
}

func newForwarder(sender Sender, logger Logger) *forwarder {
	f := &forwarder{
		sender: sender,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go f.run()
	return f
}

// push queues ev. Events pushed after Close are dropped.
func (f *forwarder) push(ev controller.Event) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.queue = append(f.queue, ev)
	if _, ok := ev.(controller.Close); ok {
		f.stopped = true
	}
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *forwarder) run() {
	defer close(f.done)
	for range f.wake {
		f.mu.Lock()
		batch := f.queue
		f.queue = nil
		stopped := f.stopped
		f.mu.Unlock()

		for _, ev := range batch {
			if err := f.sender.Send(ev); err != nil {
				if errors.Is(err, controller.ErrClosed) {
					return
				}
				f.logger.Warn("event not delivered", "error", err)
			}
		}
		if stopped {
			return
		}
	}
}
