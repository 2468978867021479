// internal/game/engine.go
//
// Game progression for a single Wordle board.
// Responsibilities:
//   - Hold the board as an immutable State value (arrays only, so copies never alias).
//   - Apply logical key events (letter, delete, submit) with a pure reducer.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Validation failures on submit return an error and leave the state untouched;
//     callers surface them as transient messages.
//   - The dictionary is consulted through the Dictionary interface so the
//     reducer stays independent of how the word list is loaded.
package game

import (
	"errors"
	"strings"
)

var (
	ErrIncompleteGuess = errors.New("incomplete guess")
	ErrNotInWordList   = errors.New("not in word list")
	ErrUnknownKey      = errors.New("unknown key")
)

// Dictionary answers whether a normalized uppercase word may be guessed.
// A nil Dictionary accepts nothing.
type Dictionary interface {
	Contains(word string) bool
}

// EventKind enumerates the logical keys.
type EventKind uint8

const (
	KeyLetter EventKind = iota
	KeyDelete
	KeySubmit
)

// Event is one logical key press.
type Event struct {
	Kind   EventKind
	Letter byte // set for KeyLetter only, uppercase
}

// Letter builds a letter event; lowercase input is accepted.
func Letter(c byte) Event {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return Event{Kind: KeyLetter, Letter: c}
}

// Delete builds a delete-last-letter event.
func Delete() Event { return Event{Kind: KeyDelete} }

// Submit builds a submit event.
func Submit() Event { return Event{Kind: KeySubmit} }

// ParseKey maps a textual key name to an event.
// Accepted: a single letter, ENTER/SUBMIT/↵, BACKSPACE/DELETE/DEL/⌫.
func ParseKey(s string) (Event, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	switch k {
	case "ENTER", "SUBMIT", "↵":
		return Submit(), nil
	case "BACKSPACE", "DELETE", "DEL", "⌫":
		return Delete(), nil
	}
	if len(k) == 1 && isLetter(k[0]) {
		return Letter(k[0]), nil
	}
	return Event{}, ErrUnknownKey
}

// State is the whole board. It is a value: Apply returns a new State and
// never mutates its argument.
type State struct {
	Target Guess
	Board  [MaxGuesses]EvaluationResult
	Row    int // rows submitted so far; also the row being typed while Playing
	Col    int // letters typed in the current row
	Phase  Phase
	Keys   KeyStates
}

// New starts a fresh game for target.
func New(target Guess) State {
	return State{Target: target}
}

// Current returns the letters typed in the active row.
func (s State) Current() string {
	if s.Phase.Terminal() || s.Row >= MaxGuesses {
		return ""
	}
	var b strings.Builder
	for i := 0; i < s.Col; i++ {
		b.WriteByte(s.Board[s.Row][i].Letter)
	}
	return b.String()
}

// Submitted returns the scored rows in order.
func (s State) Submitted() []EvaluationResult {
	return append([]EvaluationResult(nil), s.Board[:s.Row]...)
}

// Outcome reports whether the game is over, whether it was won, and how
// many guesses were used.
func (s State) Outcome() (won bool, guesses int, done bool) {
	return s.Phase == Won, s.Row, s.Phase.Terminal()
}

// Apply is the reducer: it returns the state that results from ev.
// Input in a terminal phase is ignored.
func Apply(s State, ev Event, dict Dictionary) (State, error) {
	if s.Phase.Terminal() {
		return s, nil
	}
	switch ev.Kind {
	case KeyLetter:
		if !isLetter(ev.Letter) || s.Col >= WordLength {
			return s, nil
		}
		s.Board[s.Row][s.Col] = Cell{Letter: ev.Letter}
		s.Col++
		return s, nil

	case KeyDelete:
		if s.Col == 0 {
			return s, nil
		}
		s.Col--
		s.Board[s.Row][s.Col] = Cell{}
		return s, nil

	case KeySubmit:
		return submit(s, dict)
	}
	return s, ErrUnknownKey
}

// ApplyAll folds a sequence of events, stopping at the first error. On error
// it returns the state reached before the rejected event.
func ApplyAll(s State, dict Dictionary, evs ...Event) (State, error) {
	for _, ev := range evs {
		next, err := Apply(s, ev, dict)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

// TypeWord returns the events that type word and submit it.
func TypeWord(word string) []Event {
	evs := make([]Event, 0, len(word)+1)
	for i := 0; i < len(word); i++ {
		evs = append(evs, Letter(word[i]))
	}
	return append(evs, Submit())
}

func submit(s State, dict Dictionary) (State, error) {
	if s.Col != WordLength {
		return s, ErrIncompleteGuess
	}
	var guess Guess
	for i := range guess {
		guess[i] = s.Board[s.Row][i].Letter
	}
	if dict == nil || !dict.Contains(guess.String()) {
		return s, ErrNotInWordList
	}

	row := Evaluate(guess, s.Target)
	s.Board[s.Row] = row
	s.Keys = s.Keys.Merge(row)
	s.Row++
	s.Col = 0

	switch {
	case row.Solved():
		s.Phase = Won
	case s.Row >= MaxGuesses:
		s.Phase = Lost
	}
	return s, nil
}
