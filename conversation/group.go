/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package conversation turns the room's flat message sequence into display
// blocks: speaker headers with a colored identity and a mood glyph,
// followed by message bubbles.
package conversation

import (
	"github.com/Seednode/moodroom/chat"
)

const anonymous = "Anonymous"

type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

type Kind int

const (
	Header Kind = iota
	Bubble
)

// Mood glyphs, chosen by the sign of a message's sentiment.
const (
	GlyphHappy   = "\U0001F600"
	GlyphSad     = "\U0001F620"
	GlyphNeutral = "\U0001F610"
)

// Block is one display unit. Headers carry Label, Color and Glyph; bubbles
// carry Text. Both carry Side.
type Block struct {
	Kind  Kind
	Side  Side
	Label string
	Color string
	Glyph string
	Text  string
}

// Label is the name shown for author.
func Label(author string) string {
	if author == "" {
		return anonymous
	}

	return author
}

// Glyph returns the mood glyph for a sentiment score.
func Glyph(sentiment int) string {
	switch {
	case sentiment > 0:
		return GlyphHappy
	case sentiment < 0:
		return GlyphSad
	default:
		return GlyphNeutral
	}
}

// gapMinutes is ceil(ms / 60000) in integer arithmetic.
func gapMinutes(ms int64) int64 {
	const minute = 60 * 1000

	if ms > 0 {
		return (ms + minute - 1) / minute
	}

	return ms / minute
}

// Group derives render blocks for messages as seen by self. A header is
// emitted for the first message, on a change of speaker, and whenever the
// gap to the previous message rounds up to a nonzero number of minutes.
// Message 0 is compared against itself.
func Group(messages []chat.Message, self string) []Block {
	blocks := make([]Block, 0, len(messages)*2)

	for i, m := range messages {
		previous := messages[max(0, i-1)]

		side := Left
		if m.Author == self {
			side = Right
		}

		isFirst := i == 0
		sameSpeaker := m.Author == previous.Author
		gap := gapMinutes(m.Timestamp - previous.Timestamp)

		if isFirst || !sameSpeaker || gap != 0 {
			label := Label(m.Author)

			blocks = append(blocks, Block{
				Kind:  Header,
				Side:  side,
				Label: label,
				Color: StyleColor(label),
				Glyph: Glyph(m.Sentiment),
			})
		}

		blocks = append(blocks, Block{
			Kind: Bubble,
			Side: side,
			Text: m.Text,
		})
	}

	return blocks
}
