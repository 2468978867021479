// internal/game/evaluate.go
//
// Guess scoring.
// Responsibilities:
//   - Score a guess against the target, duplicates included.
//
// Notes:
//   - Exact matches always win over misplaced ones for the same letter.

package game

// Evaluate scores guess against target using the two-pass Wordle algorithm.
//
// Pass 1 marks exact matches and consumes their letters from the target's
// frequency table. Pass 2 runs only afterwards, so a duplicate letter earlier
// in the guess can never take a slot that a later exact match needs.
func Evaluate(guess, target Guess) EvaluationResult {
	var res EvaluationResult
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		res[i] = Cell{Letter: guess[i], Status: Absent}
		counts[idx(target[i])]++
	}

	// First pass: hits.
	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			res[i].Status = Correct
			counts[idx(guess[i])]--
		}
	}

	// Second pass: presents from whatever frequency is left.
	for i := 0; i < WordLength; i++ {
		if res[i].Status == Correct {
			continue
		}
		if j := idx(guess[i]); counts[j] > 0 {
			res[i].Status = MisplacedButPresent
			counts[j]--
		}
	}
	return res
}

// KeyStates is the on-screen keyboard: the strongest status seen per letter.
type KeyStates [26]LetterStatus

// Get returns the status for an uppercase letter; Unknown for anything else.
func (k KeyStates) Get(c byte) LetterStatus {
	if !isLetter(c) {
		return Unknown
	}
	return k[idx(c)]
}

// Merge folds a scored row into the keyboard. A letter only ever moves up
// Unknown → Absent → MisplacedButPresent → Correct.
func (k KeyStates) Merge(r EvaluationResult) KeyStates {
	for _, c := range r {
		if !isLetter(c.Letter) {
			continue
		}
		if j := idx(c.Letter); c.Status > k[j] {
			k[j] = c.Status
		}
	}
	return k
}

// Map returns the letters with a known status, keyed by the letter as a string.
func (k KeyStates) Map() map[string]LetterStatus {
	out := make(map[string]LetterStatus)
	for i, s := range k {
		if s != Unknown {
			out[string(rune('A'+i))] = s
		}
	}
	return out
}
