/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chat

import (
	"errors"
	"sync"
)

var ErrHistoryFull = errors.New("history limit reached")

// History is the append-only log of every message accepted in the room.
// It lives for the lifetime of the process.
type History struct {
	mu       sync.RWMutex
	messages []Message
	limit    int
}

// NewHistory returns an empty log. A limit of 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{
		limit: limit,
	}
}

// Append stores m at the end of the log and returns the stored copy with
// its position filled in.
func (h *History) Append(m Message) (Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit > 0 && len(h.messages) >= h.limit {
		return Message{}, ErrHistoryFull
	}

	m.Position = uint64(len(h.messages))
	h.messages = append(h.messages, m)

	return m, nil
}

// Snapshot returns a copy of the log in append order.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)

	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.messages)
}
