package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordleclone/internal/game"
	"github.com/robalobadob/wordleclone/internal/session"
	"github.com/robalobadob/wordleclone/internal/solver"
	"github.com/robalobadob/wordleclone/internal/words"
)

const playHelp = `Type letters or a whole word. Commands:
  enter  submit the current row
  back   delete the last letter
  hint   list words still consistent with the board
  new    start over with a new word
  quit   leave`

func newPlayCmd(a *app) *cobra.Command {
	var answer string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game on the terminal",
		Long:  "Play a game on the terminal.\n\n" + playHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			list, err := a.wordList(ctx)
			if err != nil {
				return err
			}
			st, err := a.statsStore(ctx)
			if err != nil {
				return err
			}
			target, err := pickTarget(list, answer)
			if err != nil {
				return err
			}
			g := session.New(list, target, session.Options{
				PlayerID:   a.player,
				Stats:      st,
				MessageTTL: a.cfg.Game.MessageTTL.Std(),
			})
			defer g.Close()
			return repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), g, list)
		},
	}
	cmd.Flags().StringVar(&answer, "answer", "", "play a fixed word instead of a random one")
	return cmd
}

func pickTarget(list *words.List, answer string) (game.Guess, error) {
	if answer == "" {
		return list.RandomTarget()
	}
	target, err := game.ParseGuess(answer)
	if err != nil {
		return game.Guess{}, err
	}
	if !list.Contains(target.String()) {
		return game.Guess{}, fmt.Errorf("answer %s: %w", target, game.ErrNotInWordList)
	}
	return target, nil
}

func repl(ctx context.Context, in io.Reader, out io.Writer, g *session.Game, list *words.List) error {
	fmt.Fprintln(out, playHelp)
	render(out, g.Snapshot())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		wasOver := g.State().Phase.Terminal()
		var (
			snap session.Snapshot
			err  error
		)
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "hint":
			printHint(out, g.State(), list)
			continue
		case "new":
			target, err := list.RandomTarget()
			if err != nil {
				return err
			}
			g.Restart(target)
			render(out, g.Snapshot())
			continue
		case "enter":
			snap, err = g.Key(ctx, game.Submit())
		case "back":
			snap, err = g.Key(ctx, game.Delete())
		default:
			if _, perr := game.ParseGuess(line); perr == nil {
				snap, err = g.Guess(ctx, line)
			} else {
				snap = g.Snapshot()
				for _, ev := range typed(line) {
					if snap, err = g.Key(ctx, ev); err != nil {
						break
					}
				}
			}
		}
		if err != nil && session.Message(err) == "" {
			return err
		}
		render(out, snap)
		if snap.State.Terminal() && !wasOver {
			printResult(out, snap)
		}
	}
	return sc.Err()
}

// typed turns free text into letter events; anything else is dropped.
func typed(s string) []game.Event {
	var evs []game.Event
	for _, c := range []byte(strings.ToUpper(s)) {
		if c >= 'A' && c <= 'Z' {
			evs = append(evs, game.Letter(c))
		}
	}
	return evs
}

func render(out io.Writer, snap session.Snapshot) {
	fmt.Fprintln(out)
	for i, row := range snap.Board {
		switch {
		case i < snap.Row:
			fmt.Fprintln(out, "  "+formatRow(row))
		case i == snap.Row && !snap.State.Terminal():
			fmt.Fprintln(out, "  "+formatTyping(snap.Current))
		default:
			fmt.Fprintln(out, "  "+strings.Repeat(" . ", game.WordLength))
		}
	}
	fmt.Fprintln(out)
	for _, line := range []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"} {
		var b strings.Builder
		for _, c := range []byte(line) {
			b.WriteString(formatCell(c, snap.Keys[string(rune(c))]))
		}
		fmt.Fprintln(out, "  "+b.String())
	}
	if snap.Message != "" {
		fmt.Fprintf(out, "\n  %s\n", snap.Message)
	}
}

// formatCell marks correct letters [X], misplaced (X) and absent ones in lowercase.
func formatCell(c byte, st game.LetterStatus) string {
	switch st {
	case game.Correct:
		return "[" + string(rune(c)) + "]"
	case game.MisplacedButPresent:
		return "(" + string(rune(c)) + ")"
	case game.Absent:
		return " " + strings.ToLower(string(rune(c))) + " "
	}
	return " " + string(rune(c)) + " "
}

func formatRow(row game.EvaluationResult) string {
	var b strings.Builder
	for _, cell := range row {
		b.WriteString(formatCell(cell.Letter, cell.Status))
	}
	return b.String()
}

func formatTyping(current string) string {
	var b strings.Builder
	for i := 0; i < game.WordLength; i++ {
		if i < len(current) {
			b.WriteString(" " + current[i:i+1] + " ")
		} else {
			b.WriteString(" _ ")
		}
	}
	return b.String()
}

func printHint(out io.Writer, st game.State, list *words.List) {
	c := solver.FromEvaluations(st.Submitted()...)
	matches := solver.Filter(list.Words(), c)
	fmt.Fprintf(out, "  %d candidates", len(matches))
	if len(matches) > 0 {
		fmt.Fprintf(out, ": %s", strings.Join(matches[:min(len(matches), 10)], " "))
	}
	fmt.Fprintln(out)
}

func printResult(out io.Writer, snap session.Snapshot) {
	if snap.State == game.Won {
		fmt.Fprintf(out, "\n  Solved in %d/%d.\n", snap.Row, game.MaxGuesses)
	} else {
		fmt.Fprintf(out, "\n  Out of guesses. The word was %s.\n", snap.Target)
	}
	if snap.Stats != nil {
		writeStats(out, *snap.Stats)
	}
	fmt.Fprintln(out, "  Type 'new' for another word or 'quit' to leave.")
}
