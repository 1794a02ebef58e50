package sentiment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicon_Score(t *testing.T) {
	lex, err := NewLexicon(map[string]int{
		"good":          3,
		"bad":           -3,
		"love":          3,
		"does not work": -3,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"unknown words", "the quick brown fox", 0},
		{"positive", "This is GOOD!", 3},
		{"negative", "bad, bad day", -6},
		{"mixed", "good food, bad service", 0},
		{"negated", "not good", -3},
		{"negated with apostrophe", "I don't love it", -3},
		{"word boundary", "goodbye badger", 0},
		{"phrase", "it does not work", -3},
		{"punctuation only", "?!...", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lex.Score(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexicon_Cancelled(t *testing.T) {
	lex, err := NewLexicon(map[string]int{"good": 3})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lex.Score(ctx, "good")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewLexicon_Empty(t *testing.T) {
	_, err := NewLexicon(map[string]int{" ": 1})
	require.ErrorIs(t, err, ErrEmptyLexicon)
}

func TestDefault(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	ctx := context.Background()

	happy, err := lex.Score(ctx, "What a wonderful, happy day")
	require.NoError(t, err)
	assert.Positive(t, happy)

	sad, err := lex.Score(ctx, "this is awful and I hate it")
	require.NoError(t, err)
	assert.Negative(t, sad)

	neutral, err := lex.Score(ctx, "the meeting is at noon")
	require.NoError(t, err)
	assert.Zero(t, neutral)
}

func TestDefault_EverydayWords(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	ctx := context.Background()

	for _, text := range []string{
		"congratulations on the new job",
		"thrilled to be here",
		"that was hilarious",
		"thanks, super helpful",
		"this looks promising, well done",
	} {
		got, err := lex.Score(ctx, text)
		require.NoError(t, err)
		assert.Positive(t, got, text)
	}

	for _, text := range []string{
		"so frustrated with this build",
		"the deploy failed again",
		"I'm exhausted and stressed",
		"what a ridiculous mess",
		"sorry, my mistake",
	} {
		got, err := lex.Score(ctx, text)
		require.NoError(t, err)
		assert.Negative(t, got, text)
	}
}

func TestParseLexicon(t *testing.T) {
	entries, err := ParseLexicon(strings.NewReader("# comment\n\nGood\t3\nthumbs up\t2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"good": 3, "thumbs up": 2}, entries)

	_, err = ParseLexicon(strings.NewReader("good 3\n"))
	require.Error(t, err)

	_, err = ParseLexicon(strings.NewReader("good\tthree\n"))
	require.Error(t, err)
}
