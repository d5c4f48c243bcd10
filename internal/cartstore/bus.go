package cartstore

import "sync"

// Topics mirror the storefront's cross-component notifications.
const (
	TopicCartUpdated  = "cartUpdated"
	TopicStockUpdated = "stockUpdated"
	TopicAuthChanged  = "authStateChanged"
)

type Event struct {
	Topic   string
	CartKey string
}

type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe bus. Publishes are
// fire-and-forget broadcasts: every subscriber of the topic runs, in
// subscription order, and a publish with no subscribers is not an error.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[topic] = append(b.subs[topic], handler)
}

func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[event.Topic]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
