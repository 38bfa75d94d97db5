package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/archfile"
)

var recalcCmd = &cobra.Command{
	Use:     "recalc <architecture-file> --node <id>",
	Short:   "Recalculate the nodes reached from an edited node",
	GroupID: "scoring",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodeID, _ := cmd.Flags().GetString("node")

		arch, err := archfile.Load(args[0])
		if err != nil {
			return err
		}

		ev, err := scoreClient.Recalculate(cmd.Context(), arch, nodeID)
		if err != nil {
			return fmt.Errorf("recalculating from %s: %w", nodeID, err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ev)
		}
		printRecalculation(cmd.OutOrStdout(), ev)
		return nil
	},
}

func init() {
	recalcCmd.Flags().String("node", "", "id of the edited node (required)")
	_ = recalcCmd.MarkFlagRequired("node")
}
