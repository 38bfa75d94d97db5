package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/archfile"
	"github.com/alfredjeanlab/archscore/internal/client"
)

var scoreCmd = &cobra.Command{
	Use:     "score <architecture-file>",
	Short:   "Score an architecture: dashboard, heatmap, tier and warnings",
	GroupID: "scoring",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := archfile.Load(args[0])
		if err != nil {
			return err
		}

		res, err := scoreClient.Score(cmd.Context(), arch)
		if err != nil {
			return fmt.Errorf("scoring architecture: %w", err)
		}

		failUnder, _ := cmd.Flags().GetFloat64("fail-under")
		return reportScore(cmd.OutOrStdout(), res, jsonOutput, failUnder)
	},
}

func init() {
	scoreCmd.Flags().Float64("fail-under", 0, "exit non-zero when the aggregate score is below this value")
}

// reportScore prints res in the chosen format, then applies the failUnder
// threshold regardless of format. A zero threshold disables the check.
func reportScore(w io.Writer, res *client.ScoreResult, asJSON bool, failUnder float64) error {
	if asJSON {
		if err := printJSON(w, res); err != nil {
			return err
		}
	} else {
		printScore(w, res)
	}
	if failUnder > 0 && res.AggregateScore < failUnder {
		return fmt.Errorf("aggregate score %.1f is below %.1f", res.AggregateScore, failUnder)
	}
	return nil
}
