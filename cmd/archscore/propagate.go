package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/archfile"
)

var propagateCmd = &cobra.Command{
	Use:     "propagate <architecture-file> --node <id>",
	Short:   "Show the breadth-first propagation wave from a node",
	GroupID: "scoring",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, _ := cmd.Flags().GetString("node")

		arch, err := archfile.Load(args[0])
		if err != nil {
			return err
		}

		res, err := scoreClient.Propagation(cmd.Context(), arch.Edges, nodeID)
		if err != nil {
			return fmt.Errorf("propagating from %s: %w", nodeID, err)
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, res)
		}
		printHops(w, res.PropagationHops)
		fmt.Fprintf(w, "\nTotal delay: %dms\n", res.TotalDelayMs)
		return nil
	},
}

func init() {
	propagateCmd.Flags().String("node", "", "id of the edited node (required)")
	_ = propagateCmd.MarkFlagRequired("node")
}
