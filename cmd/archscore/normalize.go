package main

import (
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/archfile"
)

var normalizeCmd = &cobra.Command{
	Use:     "normalize <architecture-file>",
	Short:   "Validate an architecture file and print it with generated ids",
	GroupID: "scoring",
	Args:    cobra.ExactArgs(1),
	// Normalizing needs no library or server.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := archfile.Load(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), arch)
		}
		return archfile.Encode(cmd.OutOrStdout(), arch)
	},
}
