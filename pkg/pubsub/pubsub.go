package pubsub

import (
	"fmt"
	"sync"
)

const StandingsTopicPrefix = "standings-"

func StandingsTopic(year int) string {
	return fmt.Sprintf("%s%d", StandingsTopicPrefix, year)
}

// PubSub fans out messages per topic. Every subscription holds at most one
// pending message; a subscriber that falls behind only misses intermediate
// messages and always receives the latest one.
type PubSub[T any] struct {
	mu   sync.Mutex
	subs map[string][]chan T
}

func NewPubSub[T any]() *PubSub[T] {
	return &PubSub[T]{
		subs: make(map[string][]chan T),
	}
}

func (ps *PubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T, 1)
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

// Unsubscribe closes ch and stops delivering to it.
func (ps *PubSub[T]) Unsubscribe(topic string, ch <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	subs := ps.subs[topic]
	for i, sub := range subs {
		if sub == ch {
			close(sub)
			ps.subs[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(ps.subs[topic]) == 0 {
		delete(ps.subs, topic)
	}
}

func (ps *PubSub[T]) Publish(topic string, data T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, ch := range ps.subs[topic] {
		select {
		case ch <- data:
		default:
			// drop the stale message, then deliver
			select {
			case <-ch:
			default:
			}
			ch <- data
		}
	}
}

// Subscribers returns how many subscriptions topic has.
func (ps *PubSub[T]) Subscribers(topic string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.subs[topic])
}
