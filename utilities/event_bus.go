package utilities

import "sync"

// Events published on the global bus.
const (
	EventAuthStateChanged = "auth_state_changed"
	EventPlanUpdated      = "plan_updated"
	EventWorkoutCompleted = "workout_completed"
)

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
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

// Publish invokes the handlers synchronously, in subscription order. The
// client is single-threaded UI code; async dispatch here would let a
// sign-out handler race the screen that triggered it.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[event]...)
	eb.mu.RUnlock()
	for _, handler := range handlers {
		handler(data)
	}
}

// Global instance
var GlobalEventBus = NewEventBus()
