package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordleclone/internal/game"
)

var wordList = []string{"APPLE", "CRANE", "ADIEU", "PLANT", "ALOFT", "SLATE", "ABBEY", "TRAIN", "ANGLE"}

func mustParse(t *testing.T, green, yellow, gray string) Constraints {
	t.Helper()
	c, err := ParseConstraints(green, yellow, gray)
	require.NoError(t, err)
	return c
}

func TestFilterUnconstrainedReturnsAll(t *testing.T) {
	c := mustParse(t, "_____", "", "")
	assert.True(t, c.Unconstrained())
	assert.Equal(t, wordList, Filter(wordList, c))
	assert.Equal(t, []string{"CRANE"}, Filter([]string{"CRANE", "TOOLONG", "ABC"}, c))
}

func TestFilterFixedFirstLetter(t *testing.T) {
	got := Filter(wordList, mustParse(t, "A____", "", ""))
	assert.Equal(t, []string{"APPLE", "ADIEU", "ALOFT", "ABBEY", "ANGLE"}, got)
	for _, w := range got {
		assert.Equal(t, byte('A'), w[0])
	}
}

func TestFilterCombined(t *testing.T) {
	// A fixed at 0, must contain L and E, no P.
	got := Filter(wordList, mustParse(t, "a", "le", "p"))
	assert.Equal(t, []string{"ANGLE"}, got)
}

func TestFilterExclude(t *testing.T) {
	got := Filter(wordList, mustParse(t, "", "", "EA"))
	assert.Empty(t, got)

	got = Filter(wordList, mustParse(t, "", "", "E"))
	assert.Equal(t, []string{"PLANT", "ALOFT", "TRAIN"}, got)
}

func TestFilterContradictionMatchesNothing(t *testing.T) {
	got := Filter(wordList, mustParse(t, "", "A", "A"))
	assert.Empty(t, got)
}

func TestFilterIdempotent(t *testing.T) {
	c := mustParse(t, "__A__", "N", "")
	once := Filter(wordList, c)
	twice := Filter(once, c)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"CRANE", "PLANT", "TRAIN"}, once)
}

func TestParseConstraints(t *testing.T) {
	c := mustParse(t, "a.p?", "x, y!", "  z ")
	assert.Equal(t, "A_P__", c.Pattern())
	assert.Equal(t, "XY", c.MustContain.String())
	assert.Equal(t, "Z", c.MustExclude.String())

	_, err := ParseConstraints("ABCDEF", "", "")
	assert.ErrorIs(t, err, ErrPatternLength)
}

func TestMatchesRejectsWrongLength(t *testing.T) {
	var c Constraints
	assert.False(t, c.Matches("APPLES"))
	assert.True(t, c.Matches("APPLE"))
}

func TestFromEvaluations(t *testing.T) {
	target := game.MustGuess("CRANE")
	rows := []game.EvaluationResult{
		game.Evaluate(game.MustGuess("TRAIN"), target),
		game.Evaluate(game.MustGuess("ANGLE"), target),
		game.Evaluate(game.MustGuess("ARRAY"), target),
	}
	c := FromEvaluations(rows...)

	assert.Equal(t, "_RA_E", c.Pattern())
	assert.True(t, c.MustContain.Has('N'))
	assert.True(t, c.MustExclude.Has('T'))
	assert.True(t, c.MustExclude.Has('G'))
	assert.True(t, c.MustExclude.Has('Y'))
	// ARRAY scores its second R and A absent; both letters are known to be in the word.
	assert.False(t, c.MustExclude.Has('R'))
	assert.False(t, c.MustExclude.Has('A'))

	assert.Equal(t, []string{"CRANE"}, Filter(wordList, c))
}
