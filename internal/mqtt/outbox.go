package mqtt

import (
	"log"
	"sync"
)

// message is a serialized MQTT publish held for replay after reconnection.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox keeps the most recent messages published while disconnected.
// When full, the oldest message is dropped.
type outbox struct {
	mu      sync.Mutex
	msgs    []message
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit}
}

func (o *outbox) add(m message) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.msgs) == o.limit {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
		}
		o.dropped++
		copy(o.msgs, o.msgs[1:])
		o.msgs = o.msgs[:len(o.msgs)-1]
	}
	o.msgs = append(o.msgs, m)
}

// take returns queued messages oldest first and empties the outbox.
func (o *outbox) take() ([]message, int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	msgs, dropped := o.msgs, o.dropped
	o.msgs, o.dropped = nil, 0
	return msgs, dropped
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}
