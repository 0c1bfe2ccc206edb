package utilities

import "sync"

// EventResponseSubmitted carries the id of a response that was just
// submitted.
const EventResponseSubmitted = "response_submitted"

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	pending  sync.WaitGroup
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

// Publish runs every handler of event in its own goroutine. A panicking
// handler is logged and does not affect the others.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.pending.Add(1)
		go func(h EventHandler) {
			defer eb.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					Error("handler for %s panicked: %v", event, r)
				}
			}()
			h(data)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.pending.Wait()
}

// Global instance
var GlobalEventBus = NewEventBus()
