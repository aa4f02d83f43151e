// Package events provides the in-process publish/subscribe bus that backs
// real-time delivery of message, conversation, notification and presence
// events. Subscribers register a stateless filter predicate; there is no
// ordering guarantee across subscribers and no replay after a disconnect.
package events

import (
	"log"
	"sync"
)

// Event names published by the resolvers.
const (
	MessageCreated      = "messageCreated"
	NewConversation     = "newConversation"
	NotificationChanged = "notificationCreatedOrDeleted"
	UserOnline          = "isUserOnline"
)

// Event is one published occurrence. Payload is the GraphQL-shaped object
// the write path produced.
type Event struct {
	Name    string
	Payload any
}

// FilterFunc decides whether a subscriber receives an event. It must be a
// pure predicate over the event payload and the subscriber's identity.
type FilterFunc func(Event) bool

// Subscription is one live subscriber. Events arrive on C until Close.
type Subscription struct {
	C      chan Event
	id     int
	bus    *Bus
	filter FilterFunc
}

// Close detaches the subscription from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.id)
}

// Bus fans events out to all matching subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]*Subscription
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

// Subscribe registers a subscriber with the given channel buffer and filter.
// A nil filter receives everything.
func (b *Bus) Subscribe(buffer int, filter FilterFunc) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscription{
		C:      make(chan Event, buffer),
		id:     b.next,
		bus:    b,
		filter: filter,
	}
	b.subs[b.next] = sub
	b.next++
	return sub
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.C)
	}
}

// Publish delivers the event to every subscriber whose filter matches.
// Delivery is non-blocking: a subscriber whose buffer is full misses the
// event, matching the no-replay contract.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(ev) {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			log.Printf("events: dropping %s for slow subscriber", ev.Name)
		}
	}
}
