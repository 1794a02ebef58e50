/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrRelayClosed = errors.New("relay is not running")

// Subscriber is one consumer of the live channel. Its first event is always
// the snapshot taken when it was registered.
type Subscriber struct {
	ID   uuid.UUID
	send chan Event
}

// Events is closed when the subscriber is unsubscribed, dropped, or the
// relay stops.
func (s *Subscriber) Events() <-chan Event {
	return s.send
}

// Relay appends published messages to the history and delivers them to
// every registered subscriber from a single dispatch loop, so each
// subscriber sees messages in append order.
type Relay struct {
	log     zerolog.Logger
	history *History

	// mu makes append and enqueue one step, keeping queue order equal to
	// history order.
	mu    sync.Mutex
	queue chan Message

	register chan *Subscriber
	unreg    chan *Subscriber
	clients  map[*Subscriber]bool

	bufferSize int
	done       chan struct{}
}

func NewRelay(log zerolog.Logger, history *History, queueSize, bufferSize int) *Relay {
	if queueSize < 1 {
		queueSize = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}

	return &Relay{
		log:        log.With().Str("topic", Topic).Logger(),
		history:    history,
		queue:      make(chan Message, queueSize),
		register:   make(chan *Subscriber),
		unreg:      make(chan *Subscriber),
		clients:    make(map[*Subscriber]bool),
		bufferSize: bufferSize,
		done:       make(chan struct{}),
	}
}

// Topic names the single channel every event is published on.
func (r *Relay) Topic() string {
	return Topic
}

// Run owns the subscriber set until ctx is cancelled. It must be started
// exactly once.
func (r *Relay) Run(ctx context.Context) {
	defer close(r.done)

	for {
		select {
		case s := <-r.register:
			r.clients[s] = true
			subscribersGauge.Inc()

			// The channel is new and has room for at least one event.
			s.send <- newSnapshotEvent(r.history.Snapshot())

			r.log.Debug().
				Str("subscriber", s.ID.String()).
				Int("subscribers", len(r.clients)).
				Msg("subscriber registered")

		case s := <-r.unreg:
			if _, ok := r.clients[s]; ok {
				r.remove(s)

				r.log.Debug().
					Str("subscriber", s.ID.String()).
					Int("subscribers", len(r.clients)).
					Msg("subscriber left")
			}

		case m := <-r.queue:
			r.dispatch(m)

		case <-ctx.Done():
			for s := range r.clients {
				r.remove(s)
			}

			r.log.Debug().Msg("relay stopped")

			return
		}
	}
}

func (r *Relay) dispatch(m Message) {
	evt := newMessageEvent(m)

	for s := range r.clients {
		select {
		case s.send <- evt:
		default:
			r.remove(s)
			droppedTotal.Inc()

			r.log.Warn().
				Str("subscriber", s.ID.String()).
				Uint64("position", m.Position).
				Msg("subscriber too slow, dropped")
		}
	}
}

func (r *Relay) remove(s *Subscriber) {
	delete(r.clients, s)
	close(s.send)
	subscribersGauge.Dec()
}

// Publish appends m to the history and queues it for delivery. The stored
// copy, with its position, is returned. A failed append is never broadcast
// and a successful one always is.
func (r *Relay) Publish(m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-r.done:
		return Message{}, ErrRelayClosed
	default:
	}

	stored, err := r.history.Append(m)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}

	publishedTotal.Inc()

	select {
	case r.queue <- stored:
	case <-r.done:
	}

	return stored, nil
}

// Subscribe registers a new subscriber. Every message dispatched after
// Subscribe returns is delivered to it.
func (r *Relay) Subscribe(ctx context.Context) (*Subscriber, error) {
	s := &Subscriber{
		ID:   uuid.New(),
		send: make(chan Event, r.bufferSize),
	}

	select {
	case r.register <- s:
		return s, nil
	case <-r.done:
		return nil, ErrRelayClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Relay) Unsubscribe(s *Subscriber) {
	select {
	case r.unreg <- s:
	case <-r.done:
	}
}

// Snapshot returns every message published so far, in append order.
func (r *Relay) Snapshot() []Message {
	return r.history.Snapshot()
}
