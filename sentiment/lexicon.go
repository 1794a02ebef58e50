/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package sentiment

import (
	"context"
	"errors"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

var ErrEmptyLexicon = errors.New("lexicon has no entries")

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"don't":   true,
	"dont":    true,
	"doesn't": true,
	"isn't":   true,
	"wasn't":  true,
	"can't":   true,
	"won't":   true,
}

// Lexicon scores text by summing the values of known terms. Terms only
// match on word boundaries, and a negator directly before a term flips its
// sign.
type Lexicon struct {
	matcher *goahocorasick.Machine
	scores  map[string]int
}

// NewLexicon builds the matcher for entries. Terms are normalized the same
// way as scored text, so multi-word terms are allowed.
func NewLexicon(entries map[string]int) (*Lexicon, error) {
	scores := make(map[string]int, len(entries))
	for term, score := range entries {
		term = normalize(term)
		if term == "" {
			continue
		}
		scores[term] = score
	}

	if len(scores) == 0 {
		return nil, ErrEmptyLexicon
	}

	terms := make([]string, 0, len(scores))
	for term := range scores {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	// Padding each term with spaces anchors matches to word boundaries.
	patterns := make([][]rune, len(terms))
	for i, term := range terms {
		patterns[i] = []rune(" " + term + " ")
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}

	return &Lexicon{matcher: m, scores: scores}, nil
}

func (l *Lexicon) Score(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	normalized := normalize(text)
	if normalized == "" {
		return 0, nil
	}

	content := []rune(" " + normalized + " ")

	total := 0
	for _, term := range l.matcher.MultiPatternSearch(content, false) {
		word := strings.TrimSpace(string(term.Word))

		score, ok := l.scores[word]
		if !ok {
			continue
		}

		if negators[previousWord(content, term.Pos)] {
			score = -score
		}

		total += score
	}

	return total, nil
}

// previousWord returns the word ending just before the space at pos.
func previousWord(content []rune, pos int) string {
	before := strings.TrimSpace(string(content[:pos]))
	if i := strings.LastIndexByte(before, ' '); i >= 0 {
		return before[i+1:]
	}

	return before
}
