package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordleclone/internal/solver"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		green, yellow, gray string
		limit               int
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "List words that match the given clues",
		Example: `  wordle solve --green A_P__ --yellow E --gray XYZ
  wordle solve --green __ain --gray tdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.wordList(cmd.Context())
			if err != nil {
				return err
			}
			c, err := solver.ParseConstraints(green, yellow, gray)
			if err != nil {
				return err
			}
			matches := solver.Filter(list.Words(), c)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %d matches\n", c.Pattern(), len(matches))
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if len(matches) > 0 {
				fmt.Fprintln(out, strings.Join(matches, "\n"))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&green, "green", "", "known letters by position, '_' for unknown (e.g. A_P__)")
	f.StringVar(&yellow, "yellow", "", "letters that must appear somewhere")
	f.StringVar(&gray, "gray", "", "letters that must not appear")
	f.IntVar(&limit, "limit", 0, "print at most this many words (0 = all)")
	return cmd
}

func newWordsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Show the size of the word list, or every word with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.wordList(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if all {
				fmt.Fprintln(out, strings.Join(list.Words(), "\n"))
				return nil
			}
			fmt.Fprintf(out, "%d words\n", list.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "print every word")
	return cmd
}
