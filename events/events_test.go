package events

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestEventPublishingAndSubscribing creates EventEmitter objects, subscribes EventHandler callbacks to them, and
// ensures that the events are received by the emitter's own handlers and by global handlers for the event type.
func TestEventPublishingAndSubscribing(t *testing.T) {
	type sessionOpened struct{ id int }
	type sessionClosed struct{ id int }

	var opened EventEmitter[sessionOpened]
	var closed EventEmitter[sessionClosed]
	var openedIDs []int
	var openedCount, closedCount, globalOpenedCount int

	opened.Subscribe(func(event sessionOpened) error {
		openedCount++
		openedIDs = append(openedIDs, event.id)
		return nil
	})
	closed.Subscribe(func(event sessionClosed) error {
		closedCount++
		return nil
	})
	SubscribeAny(func(event sessionOpened) error {
		globalOpenedCount++
		return nil
	})
	assert.EqualValues(t, 1, opened.SubscriberCount())

	// A second emitter of the same type only reaches the global handler
	var otherOpened EventEmitter[sessionOpened]
	for i := 0; i < 3; i++ {
		assert.NoError(t, opened.Publish(sessionOpened{id: i}))
	}
	assert.NoError(t, otherOpened.Publish(sessionOpened{id: 7}))
	assert.NoError(t, closed.Publish(sessionClosed{id: 0}))

	assert.EqualValues(t, 3, openedCount)
	assert.EqualValues(t, []int{0, 1, 2}, openedIDs)
	assert.EqualValues(t, 1, closedCount)
	assert.EqualValues(t, 4, globalOpenedCount)
}

// TestPublishStopsOnError ensures that a failing handler stops publishing and surfaces its error.
func TestPublishStopsOnError(t *testing.T) {
	type solveFinished struct{}

	var emitter EventEmitter[solveFinished]
	var laterCalled bool
	emitter.Subscribe(func(solveFinished) error {
		return errors.New("handler failed")
	})
	emitter.Subscribe(func(solveFinished) error {
		laterCalled = true
		return nil
	})

	err := emitter.Publish(solveFinished{})
	assert.EqualError(t, err, "handler failed")
	assert.False(t, laterCalled)
}
