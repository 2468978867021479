// internal/session/boot.go
//
// Startup gate for the word list.
// Responsibilities:
//   - Wait for the background load and turn any failure into ErrLoadFailed.

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/wordleclone/internal/words"
)

var ErrLoadFailed = errors.New("word list unavailable")

// Boot waits for the one-shot word-list load started by words.LoadAsync.
// A failure is final: the caller cannot start a game and should exit.
func Boot(ctx context.Context, pending <-chan words.Result) (*words.List, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, ctx.Err())
	case res, ok := <-pending:
		if !ok {
			return nil, ErrLoadFailed
		}
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, res.Err)
		}
		return res.List, nil
	}
}
