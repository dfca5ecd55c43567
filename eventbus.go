package ecs

import (
	"errors"
	"reflect"

	"github.com/rs/zerolog"
)

// Event is the marker interface every published value must satisfy.
// BaseEvent gives a concrete type this trivially:
//
//	type DamageEvent struct {
//	    ecs.BaseEvent
//	    Amount float64
//	}
type Event interface {
	isECSEvent()
}

// BaseEvent is embedded by concrete event types to satisfy Event.
type BaseEvent struct{}

func (BaseEvent) isECSEvent() {}

// EventHandler processes one delivered event. A non-nil error aborts
// dispatch to the remaining subscribers for that event (PublishSync); when
// raised during DrainOnce it is logged and joined into DrainOnce's return
// value, but does not stop delivery of the remaining queued events.
type EventHandler func(Event) error

// SubscriptionID identifies one Subscribe call so it can later be removed
// with Unsubscribe. Go function values have no usable identity comparison,
// unlike the handler-object identity the bus's subscribe/unsubscribe
// contract was originally built on, so subscriptions are tracked by this
// opaque, monotonically increasing id instead.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler EventHandler
}

// EventBus is a double-buffered publish/subscribe dispatcher. PublishSync
// delivers immediately, in subscription order. PublishAsync enqueues onto a
// "next" queue; DrainOnce swaps "next" into "current" and delivers it, so an
// event published during a drain (e.g. by a handler publishing another
// event) lands in the following DrainOnce rather than the one in progress.
type EventBus struct {
	subscribers map[reflect.Type][]subscription
	nextID      SubscriptionID

	current []Event
	next    []Event

	logger zerolog.Logger
}

func newEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{subscribers: make(map[reflect.Type][]subscription), logger: logger}
}

// Subscribe registers handler for events of the same concrete type as
// sample, returning an id Unsubscribe can later use to remove it.
func (b *EventBus) Subscribe(sample Event, handler EventHandler) SubscriptionID {
	rt := reflect.TypeOf(sample)
	b.nextID++
	id := b.nextID
	b.subscribers[rt] = append(b.subscribers[rt], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes the subscription id registered for sample's type. It
// returns SubscriptionNotFoundError if no such subscription exists.
func (b *EventBus) Unsubscribe(sample Event, id SubscriptionID) error {
	rt := reflect.TypeOf(sample)
	subs := b.subscribers[rt]
	for i, s := range subs {
		if s.id == id {
			b.subscribers[rt] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return &SubscriptionNotFoundError{EventType: rt, ID: id}
}

// PublishSync delivers event to every current subscriber of its type
// immediately, in subscription order. A handler's error aborts dispatch for
// this event: the remaining subscribers are not invoked and the error
// propagates to the caller.
func (b *EventBus) PublishSync(event Event) error {
	rt := reflect.TypeOf(event)
	for _, s := range b.subscribers[rt] {
		if err := s.handler(event); err != nil {
			return err
		}
	}
	return nil
}

// PublishAsync enqueues event for delivery on the next DrainOnce.
func (b *EventBus) PublishAsync(event Event) {
	b.next = append(b.next, event)
}

// DrainOnce swaps the queue accumulated by PublishAsync calls since the
// last drain into the active delivery queue, then delivers each event to
// its subscribers in FIFO order, as PublishSync does (so a handler error
// aborts only that event's dispatch, not the remaining queued events).
// Events published during this drain (via PublishAsync) go into the queue
// for the following DrainOnce, never the one in progress. The first
// handler error encountered during the drain is logged; every event's
// error, if any, is joined into the returned error.
func (b *EventBus) DrainOnce() error {
	b.current, b.next = b.next, nil
	var errs []error
	for _, event := range b.current {
		if err := b.PublishSync(event); err != nil {
			if len(errs) == 0 {
				b.logger.Error().
					Err(err).
					Str("event_type", reflect.TypeOf(event).String()).
					Msg("ecs: event handler failed during async drain")
			}
			errs = append(errs, err)
		}
	}
	b.current = nil
	return errors.Join(errs...)
}
