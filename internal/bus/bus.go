package bus

import "sync"

// Topic names carried by the hub. Each sentence kind publishes a raw-text
// topic and a typed-record topic.
const (
	TopicFixRaw  = "fix/raw"
	TopicFixData = "fix/data"
	TopicNavRaw  = "nav/raw"
	TopicNavData = "nav/data"
)

// Message is one published event.
type Message struct {
	Topic   string
	Payload any
}

// Bus is an in-process broadcast channel: every subscriber to a topic
// receives every message published on it. Publishing never blocks; a
// subscriber whose buffer is full misses that message.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// Subscriber receives messages on C for the topics it was registered with.
type Subscriber struct {
	C chan Message

	bus    *Bus
	topics map[string]struct{}
	once   sync.Once
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a subscriber for the given topics with the given
// channel buffer. No topics means all topics.
func (b *Bus) Subscribe(buffer int, topics ...string) *Subscriber {
	s := &Subscriber{
		C:   make(chan Message, buffer),
		bus: b,
	}
	if len(topics) > 0 {
		s.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			s.topics[t] = struct{}{}
		}
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Close removes the subscriber and closes its channel. Safe to call more
// than once.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.C)
	})
}

// Publish delivers the message to every matching subscriber without ever
// blocking the caller.
func (b *Bus) Publish(topic string, payload any) {
	msg := Message{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if s.topics != nil {
			if _, ok := s.topics[topic]; !ok {
				continue
			}
		}
		select {
		case s.C <- msg:
		default:
			// Subscriber too slow, skip
		}
	}
}
