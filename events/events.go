package events

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// EventHandler defines a function type where its input type is the generic type. A non-nil error returned by a
// handler stops publishing and is returned to the publisher.
type EventHandler[T any] func(T) error

// globalEventHandlers maps event type names to handlers invoked whenever any EventEmitter publishes an event of that
// type.
var globalEventHandlers = make(map[reflect.Type][]any)

// globalEventHandlersLock guards globalEventHandlers.
var globalEventHandlersLock sync.Mutex

// SubscribeAny adds an EventHandler that is triggered when any EventEmitter publishes an event of type T.
// Note: a handler subscribed here lives for the remainder of the program.
func SubscribeAny[T any](callback EventHandler[T]) {
	eventType := reflect.TypeOf((*T)(nil)).Elem()

	globalEventHandlersLock.Lock()
	defer globalEventHandlersLock.Unlock()
	globalEventHandlers[eventType] = append(globalEventHandlers[eventType], callback)
}

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type (generic)
// is published. The zero value is ready for use and an EventEmitter is safe for concurrent use.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter.
	subscriptions []EventHandler[T]

	// lock guards subscriptions.
	lock sync.Mutex
}

// Publish emits the provided event by calling every EventHandler subscribed to this emitter, followed by the global
// handlers for the event type. The first handler error aborts publishing and is returned.
func (e *EventEmitter[T]) Publish(event T) error {
	e.lock.Lock()
	subscriptions := append([]EventHandler[T](nil), e.subscriptions...)
	e.lock.Unlock()

	for _, subscription := range subscriptions {
		if err := subscription(event); err != nil {
			return errors.WithStack(err)
		}
	}

	eventType := reflect.TypeOf((*T)(nil)).Elem()
	globalEventHandlersLock.Lock()
	callbacks := append([]any(nil), globalEventHandlers[eventType]...)
	globalEventHandlersLock.Unlock()

	for _, callback := range callbacks {
		if err := callback.(EventHandler[T])(event); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.subscriptions = append(e.subscriptions, callback)
}

// SubscriberCount returns the number of handlers subscribed directly to this emitter.
func (e *EventEmitter[T]) SubscriberCount() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.subscriptions)
}
