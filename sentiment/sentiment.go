/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package sentiment scores message text. Positive scores are favourable,
// negative unfavourable, zero neutral.
package sentiment

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Scorer assigns a signed sentiment score to text.
type Scorer interface {
	Score(ctx context.Context, text string) (int, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, text string) (int, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (int, error) {
	return f(ctx, text)
}

//go:embed afinn.txt
var afinn string

// ParseLexicon reads "term<TAB>score" lines. Blank lines and lines starting
// with # are skipped.
func ParseLexicon(r io.Reader) (map[string]int, error) {
	entries := make(map[string]int)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		term, value, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}

		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		entries[normalize(term)] = score
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Default returns a Lexicon built from the embedded word list.
func Default() (*Lexicon, error) {
	entries, err := ParseLexicon(strings.NewReader(afinn))
	if err != nil {
		return nil, fmt.Errorf("embedded lexicon: %w", err)
	}

	return NewLexicon(entries)
}

// normalize lowercases text and reduces every run of characters that are
// not letters, digits or apostrophes to a single space.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	space := true
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			space = false
		case r == '\'' || r == '’':
			b.WriteRune('\'')
			space = false
		default:
			if !space {
				b.WriteRune(' ')
				space = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}
