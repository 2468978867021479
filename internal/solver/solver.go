// internal/solver/solver.go
//
// Candidate filtering for the solver screen.
// A candidate survives when it satisfies every constraint at once:
//   - fixed (green) letters at their positions,
//   - every must-contain (yellow) letter somewhere,
//   - none of the must-exclude (gray) letters anywhere.
//
// Results keep the word list's order. Contradictory inputs (a letter that is
// both required and excluded) are not detected; they just match nothing.
package solver

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/robalobadob/wordleclone/internal/game"
)

var ErrPatternLength = errors.New("green pattern longer than 5 letters")

// LetterSet is a set of uppercase letters.
type LetterSet [26]bool

// NewLetterSet collects the letters of s, ignoring anything else.
func NewLetterSet(s string) LetterSet {
	var ls LetterSet
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			ls[r-'A'] = true
		}
	}
	return ls
}

// Has reports whether c is in the set.
func (ls LetterSet) Has(c byte) bool {
	return c >= 'A' && c <= 'Z' && ls[c-'A']
}

// Add returns the set with c included.
func (ls LetterSet) Add(c byte) LetterSet {
	if c >= 'A' && c <= 'Z' {
		ls[c-'A'] = true
	}
	return ls
}

// Empty reports whether no letter is set.
func (ls LetterSet) Empty() bool {
	return !lo.Contains(ls[:], true)
}

func (ls LetterSet) String() string {
	var b strings.Builder
	for i, ok := range ls {
		if ok {
			b.WriteByte(byte('A' + i))
		}
	}
	return b.String()
}

// Constraints is the solver input. A zero Fixed slot is unconstrained.
type Constraints struct {
	Fixed       [game.WordLength]byte
	MustContain LetterSet
	MustExclude LetterSet
}

// ParseConstraints builds Constraints from the three solver inputs:
// green is a positional pattern such as "A_P__" (blank, '_', '.', '?' and
// any other non-letter mean unconstrained); yellow and gray are free text
// of which only letters count.
func ParseConstraints(green, yellow, gray string) (Constraints, error) {
	var c Constraints
	if utf8.RuneCountInString(green) > game.WordLength {
		return c, ErrPatternLength
	}
	i := 0
	for _, r := range strings.ToUpper(green) {
		if r >= 'A' && r <= 'Z' {
			c.Fixed[i] = byte(r)
		}
		i++
	}
	c.MustContain = NewLetterSet(yellow)
	c.MustExclude = NewLetterSet(gray)
	return c, nil
}

// FromEvaluations derives constraints from scored rows: correct letters are
// fixed, present letters required, and absent letters excluded unless the
// same letter was scored correct or present elsewhere.
func FromEvaluations(rows ...game.EvaluationResult) Constraints {
	var c Constraints
	var seen LetterSet
	for _, row := range rows {
		for i, cell := range row {
			switch cell.Status {
			case game.Correct:
				c.Fixed[i] = cell.Letter
				seen = seen.Add(cell.Letter)
			case game.MisplacedButPresent:
				c.MustContain = c.MustContain.Add(cell.Letter)
				seen = seen.Add(cell.Letter)
			}
		}
	}
	for _, row := range rows {
		for _, cell := range row {
			if cell.Status == game.Absent && !seen.Has(cell.Letter) {
				c.MustExclude = c.MustExclude.Add(cell.Letter)
			}
		}
	}
	return c
}

// Pattern renders the fixed letters as "A_P__".
func (c Constraints) Pattern() string {
	b := []byte(strings.Repeat("_", game.WordLength))
	for i, f := range c.Fixed {
		if f != 0 {
			b[i] = f
		}
	}
	return string(b)
}

// Unconstrained reports whether the constraints accept every word.
func (c Constraints) Unconstrained() bool {
	return c.Fixed == [game.WordLength]byte{} && c.MustContain.Empty() && c.MustExclude.Empty()
}

// Matches reports whether word (uppercase, 5 letters) satisfies c.
func (c Constraints) Matches(word string) bool {
	if len(word) != game.WordLength {
		return false
	}
	var present LetterSet
	for i := 0; i < game.WordLength; i++ {
		ch := word[i]
		if f := c.Fixed[i]; f != 0 && ch != f {
			return false
		}
		if c.MustExclude.Has(ch) {
			return false
		}
		present = present.Add(ch)
	}
	for i, need := range c.MustContain {
		if need && !present[i] {
			return false
		}
	}
	return true
}

// Filter returns every word satisfying c, in input order.
func Filter(words []string, c Constraints) []string {
	if c.Unconstrained() {
		return lo.Filter(words, func(w string, _ int) bool {
			return len(w) == game.WordLength
		})
	}
	return lo.Filter(words, func(w string, _ int) bool {
		return c.Matches(w)
	})
}
