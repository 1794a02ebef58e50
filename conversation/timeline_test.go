package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/moodroom/chat"
)

func TestTimeline_DeduplicatesSnapshotAndLive(t *testing.T) {
	tl := NewTimeline()

	// A live message raced ahead of the snapshot that also contains it.
	live := chat.Message{Position: 1, Text: "second"}
	require.True(t, tl.Apply(chat.Event{Type: chat.EventNewMessage, Chat: &live}))

	changed := tl.Apply(chat.Event{
		Type: chat.EventSnapshot,
		Messages: []chat.Message{
			{Position: 0, Text: "first"},
			{Position: 1, Text: "second"},
		},
	})
	require.True(t, changed)

	msgs := tl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestTimeline_RepeatIsNoop(t *testing.T) {
	tl := NewTimeline()
	m := chat.Message{Position: 0, Text: "once"}

	assert.True(t, tl.Add(m))
	assert.False(t, tl.Add(m))
	assert.False(t, tl.Add(m, m))
	assert.Equal(t, 1, tl.Len())
}

func TestTimeline_IgnoresUnknownEvents(t *testing.T) {
	tl := NewTimeline()

	assert.False(t, tl.Apply(chat.Event{Type: "presence"}))
	assert.False(t, tl.Apply(chat.Event{Type: chat.EventNewMessage}))
	assert.Zero(t, tl.Len())
}
