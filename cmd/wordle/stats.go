package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordleclone/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the player's statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.statsStore(cmd.Context())
			if err != nil {
				return err
			}
			s, err := st.Load(cmd.Context(), a.player)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func writeStats(out io.Writer, s stats.Stats) {
	best := "-"
	if s.BestTimeSeconds != nil {
		best = fmt.Sprintf("%ds", *s.BestTimeSeconds)
	}
	fmt.Fprintf(out, "  Played: %d  Win %%: %d  Streak: %d  Max streak: %d\n",
		s.GamesPlayed, s.WinPercent(), s.CurrentStreak, s.MaxStreak)
	fmt.Fprintf(out, "  Best time: %s  Average time: %ds\n", best, s.AverageTime())

	peak := 1
	for _, n := range s.WinDistribution {
		peak = max(peak, n)
	}
	for i, n := range s.WinDistribution {
		bar := strings.Repeat("#", n*20/peak)
		fmt.Fprintf(out, "  %d | %-20s %d\n", i+1, bar, n)
	}
}
