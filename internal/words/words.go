// internal/words/words.go
//
// Provides the dictionary for the game engine and the solver.
//
// Responsibilities:
//   - Parse the word-list resource (one word per line, any case).
//   - Keep an immutable, ordered, deduplicated List with O(1) membership.
//   - Load from a file (WORDS_FILE) or fall back to the embedded assets/words.txt.
//   - Load once in the background at startup (LoadAsync).
//   - Supply RandomTarget for new games.
//
// Constraints:
//   • Words must be 5 alphabetic letters; anything else is skipped.
//   • Words are normalized to uppercase.
//   • The first occurrence of a duplicate keeps its position.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordleclone/assets"
	"github.com/robalobadob/wordleclone/internal/game"
)

var ErrEmpty = errors.New("words: list is empty")

// List is an immutable word list. The zero value is an empty list.
type List struct {
	words []string
	set   map[string]struct{}
}

// New builds a List from raw words, applying the same normalization as Parse.
func New(raw []string) *List {
	norm := lo.FilterMap(raw, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		return w, len(w) == game.WordLength && isAlpha(w)
	})
	words := lo.Uniq(norm)
	return &List{
		words: words,
		set:   lo.SliceToMap(words, func(w string) (string, struct{}) { return w, struct{}{} }),
	}
}

// Parse reads one word per line from r.
func Parse(r io.Reader) (*List, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: scan: %w", err)
	}
	return New(raw), nil
}

// Load reads the list from path, or from the embedded default when path is
// empty. An empty result is an error: the game cannot start without targets.
func Load(path string) (*List, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path != "" {
		rc, err = os.Open(path)
	} else {
		rc, err = assets.Words()
	}
	if err != nil {
		return nil, fmt.Errorf("words: open: %w", err)
	}
	defer rc.Close()

	l, err := Parse(rc)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, ErrEmpty
	}
	src := path
	if src == "" {
		src = "embedded:" + assets.WordsFile
	}
	log.Info().Str("source", src).Int("words", l.Len()).Msg("word list loaded")
	return l, nil
}

// Result is delivered once by LoadAsync.
type Result struct {
	List *List
	Err  error
}

// LoadAsync runs Load in a goroutine. The returned channel yields exactly one
// Result and is then closed. There is no retry.
func LoadAsync(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		l, err := Load(path)
		if err == nil {
			err = ctx.Err()
		}
		out <- Result{List: l, Err: err}
	}()
	return out
}

// Len returns the number of words.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Contains reports whether w (any case) is in the list.
func (l *List) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[strings.ToUpper(w)]
	return ok
}

// At returns the i-th word in insertion order.
func (l *List) At(i int) string { return l.words[i] }

// Words returns a copy of the words in insertion order.
func (l *List) Words() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.words...)
}

// RandomTarget returns a cryptographically random word from the list.
func (l *List) RandomTarget() (game.Guess, error) {
	if l.Len() == 0 {
		return game.Guess{}, ErrEmpty
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.words))))
	if err != nil {
		return game.Guess{}, fmt.Errorf("words: random: %w", err)
	}
	return game.MustGuess(l.words[n.Int64()]), nil
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
