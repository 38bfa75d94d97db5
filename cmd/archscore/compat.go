package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/ui"
)

var compatCmd = &cobra.Command{
	Use:     "compat <source-component> <target-component>",
	Short:   "Check whether one component may connect to another",
	GroupID: "scoring",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := scoreClient.Compatibility(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("checking compatibility: %w", err)
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, res)
		}
		if res.IsCompatible {
			fmt.Fprintf(w, "%s -> %s: compatible\n", args[0], args[1])
			return nil
		}
		fmt.Fprintf(w, "%s -> %s: %s\n  %s\n", args[0], args[1], ui.RenderError("incompatible"), res.Reason)
		return nil
	},
}
