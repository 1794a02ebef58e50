/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package conversation

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#565f89")).
			Padding(0, 1)

	selfBubbleStyle = bubbleStyle.
			BorderForeground(lipgloss.Color("#7aa2f7"))
)

func position(side Side) lipgloss.Position {
	if side == Right {
		return lipgloss.Right
	}

	return lipgloss.Left
}

// Render lays blocks out for a terminal of the given width, right-aligning
// the viewer's own messages.
func Render(blocks []Block, width int) string {
	if width < 20 {
		width = 20
	}

	maxBubble := width * 3 / 4

	lines := lo.Map(blocks, func(b Block, _ int) string {
		switch b.Kind {
		case Header:
			label := headerStyle.
				Foreground(lipgloss.Color(b.Color)).
				Render(b.Label + " " + b.Glyph)

			return lipgloss.PlaceHorizontal(width, position(b.Side), label)
		default:
			style := bubbleStyle
			if b.Side == Right {
				style = selfBubbleStyle
			}

			text := b.Text
			if lipgloss.Width(text) > maxBubble {
				text = lipgloss.NewStyle().Width(maxBubble).Render(text)
			}

			return lipgloss.PlaceHorizontal(width, position(b.Side), style.Render(text))
		}
	})

	return strings.Join(lines, "\n")
}
