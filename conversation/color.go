/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package conversation

import "unicode/utf16"

// Palette is the fixed set of identity colors. Its order is part of the
// contract: the same label maps to the same entry on every client.
var Palette = [12]string{
	"#e21400", "#91580f", "#f8a700", "#f78b00",
	"#58dc00", "#287b00", "#a8f07a", "#4ae8c4",
	"#3b88eb", "#3824aa", "#a700ff", "#d300e7",
}

// StyleColor maps a display label to a palette color using a 32-bit
// rolling hash over the label's UTF-16 code units.
func StyleColor(label string) string {
	var hash int32 = 7

	for _, c := range utf16.Encode([]rune(label)) {
		hash = int32(c) + (hash << 5) - hash
	}

	idx := hash % int32(len(Palette))
	if idx < 0 {
		idx = -idx
	}

	return Palette[idx]
}
