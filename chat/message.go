/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package chat holds the room's message record, its append-only history
// and the relay that fans new messages out to subscribers.
package chat

// Topic is the single named channel every participant subscribes to.
const Topic = "chat-room"

// Event types carried on the live channel.
const (
	EventSnapshot   = "snapshot"
	EventNewMessage = "new-message"
)

// Message is one accepted chat line. It is fully populated by the time it is
// appended and never changes afterwards.
type Message struct {
	Position  uint64 `json:"position"`  // insertion index in the history
	Author    string `json:"author"`    // raw author, may be empty
	Text      string `json:"text"`      // message body, may be empty
	Timestamp int64  `json:"timestamp"` // client clock, ms since epoch
	Sentiment int    `json:"sentiment"` // signed score assigned at ingestion
}

// Event is a single frame on the live channel.
type Event struct {
	Type     string    `json:"type"`               // "snapshot" or "new-message"
	Topic    string    `json:"topic"`              // always Topic
	Chat     *Message  `json:"chat,omitempty"`     // new-message
	Messages []Message `json:"messages,omitempty"` // snapshot
}

func newMessageEvent(m Message) Event {
	return Event{
		Type:  EventNewMessage,
		Topic: Topic,
		Chat:  &m,
	}
}

func newSnapshotEvent(messages []Message) Event {
	if messages == nil {
		messages = []Message{}
	}

	return Event{
		Type:     EventSnapshot,
		Topic:    Topic,
		Messages: messages,
	}
}
