package remote

import "sync"

// outbox holds the latest payload per topic until the publisher takes it.
type outbox struct {
	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	last    map[string][]byte
	wake    chan struct{}
}

func newOutbox() *outbox {
	return &outbox{
		pending: make(map[string][]byte),
		last:    make(map[string][]byte),
		wake:    make(chan struct{}, 1),
	}
}

// put replaces any pending payload for topic.
func (o *outbox) put(topic string, payload []byte) {
	o.mu.Lock()
	if _, queued := o.pending[topic]; !queued {
		o.order = append(o.order, topic)
	}
	o.pending[topic] = payload
	o.last[topic] = payload
	o.mu.Unlock()
	o.signal()
}

// requeue queues the last payload of every topic again.
func (o *outbox) requeue() {
	o.mu.Lock()
	for topic, payload := range o.last {
		if _, queued := o.pending[topic]; !queued {
			o.order = append(o.order, topic)
		}
		o.pending[topic] = payload
	}
	o.mu.Unlock()
	o.signal()
}

type message struct {
	topic   string
	payload []byte
}

// take removes and returns everything pending, oldest topic first.
func (o *outbox) take() []message {
	o.mu.Lock()
	defer o.mu.Unlock()

	msgs := make([]message, 0, len(o.order))
	for _, topic := range o.order {
		msgs = append(msgs, message{topic: topic, payload: o.pending[topic]})
	}
	o.pending = make(map[string][]byte)
	o.order = nil
	return msgs
}

func (o *outbox) signal() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}
