// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - LetterStatus: per-letter classification of a guess.
//   - Guess / EvaluationResult: a submitted word and its scored row.
//   - Phase: playing → won/lost progression.

package game

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	// WordLength is the number of letters in every guess and target.
	WordLength = 5
	// MaxGuesses is the number of rows on the board.
	MaxGuesses = 6
)

var (
	ErrInvalidLength  = errors.New("guess must be 5 letters")
	ErrInvalidLetters = errors.New("guess must contain only letters A-Z")
)

// LetterStatus is the evaluation of a single letter.
// Values are ordered by strength so that the keyboard can keep the
// strongest status seen for a letter with a plain comparison.
type LetterStatus uint8

const (
	Unknown             LetterStatus = iota // no guess made for this slot yet
	Absent                                  // not in the target, or all copies already used
	MisplacedButPresent                     // in the target at another position
	Correct                                 // right letter, right position
)

// String returns the wire form of the status.
func (s LetterStatus) String() string {
	switch s {
	case Absent:
		return "absent"
	case MisplacedButPresent:
		return "present"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// MarshalText lets LetterStatus appear as a string in JSON.
func (s LetterStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Guess is a normalized 5-letter uppercase word.
type Guess [WordLength]byte

// ParseGuess trims and uppercases s and checks it is exactly five ASCII letters.
func ParseGuess(s string) (Guess, error) {
	var g Guess
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != WordLength {
		return g, ErrInvalidLength
	}
	for i := 0; i < WordLength; i++ {
		if !isLetter(s[i]) {
			return g, ErrInvalidLetters
		}
		g[i] = s[i]
	}
	return g, nil
}

// MustGuess is ParseGuess for literals; it panics on invalid input.
func MustGuess(s string) Guess {
	g, err := ParseGuess(s)
	if err != nil {
		panic("game: " + err.Error() + ": " + s)
	}
	return g
}

func (g Guess) String() string { return string(g[:]) }

// Cell is one tile of the board.
type Cell struct {
	Letter byte // 0 when the tile is empty
	Status LetterStatus
}

// MarshalJSON renders the cell as {"letter":"A","status":"correct"}.
func (c Cell) MarshalJSON() ([]byte, error) {
	letter := ""
	if c.Letter != 0 {
		letter = string(rune(c.Letter))
	}
	return json.Marshal(struct {
		Letter string       `json:"letter"`
		Status LetterStatus `json:"status"`
	}{letter, c.Status})
}

// EvaluationResult is one scored row, aligned with the guess.
type EvaluationResult [WordLength]Cell

// Word returns the letters of the row.
func (r EvaluationResult) Word() string {
	var b [WordLength]byte
	for i, c := range r {
		b[i] = c.Letter
	}
	return string(b[:])
}

// Solved reports whether every cell is Correct.
func (r EvaluationResult) Solved() bool {
	for _, c := range r {
		if c.Status != Correct {
			return false
		}
	}
	return true
}

// Phase is the progression state of a game.
type Phase uint8

const (
	Playing Phase = iota
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// MarshalText lets Phase appear as a string in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether no further input is accepted.
func (p Phase) Terminal() bool { return p != Playing }

// idx maps an uppercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'A') }

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
