/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package conversation

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Seednode/moodroom/chat"
)

// Timeline is a client's local copy of the room. It only grows, and holds
// each message once no matter how many times it arrives through the
// snapshot and the live channel.
type Timeline struct {
	messages []chat.Message
	seen     map[uint64]struct{}
}

func NewTimeline() *Timeline {
	return &Timeline{
		seen: make(map[uint64]struct{}),
	}
}

// Add merges messages into the timeline, keeping history order. It
// reports whether anything new was added.
func (t *Timeline) Add(messages ...chat.Message) bool {
	fresh := lo.Filter(lo.UniqBy(messages, func(m chat.Message) uint64 {
		return m.Position
	}), func(m chat.Message, _ int) bool {
		_, ok := t.seen[m.Position]
		return !ok
	})
	if len(fresh) == 0 {
		return false
	}

	for _, m := range fresh {
		t.seen[m.Position] = struct{}{}
	}

	t.messages = append(t.messages, fresh...)

	if !sort.SliceIsSorted(t.messages, t.less) {
		sort.SliceStable(t.messages, t.less)
	}

	return true
}

func (t *Timeline) less(i, j int) bool {
	return t.messages[i].Position < t.messages[j].Position
}

// Apply merges a live-channel event.
func (t *Timeline) Apply(evt chat.Event) bool {
	switch evt.Type {
	case chat.EventSnapshot:
		return t.Add(evt.Messages...)
	case chat.EventNewMessage:
		if evt.Chat == nil {
			return false
		}
		return t.Add(*evt.Chat)
	default:
		return false
	}
}

// Messages returns a copy of the timeline in history order.
func (t *Timeline) Messages() []chat.Message {
	out := make([]chat.Message, len(t.messages))
	copy(out, t.messages)

	return out
}

func (t *Timeline) Len() int {
	return len(t.messages)
}
