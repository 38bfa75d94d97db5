package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/model"
)

var componentsCmd = &cobra.Command{
	Use:     "components",
	Short:   "List library components",
	GroupID: "library",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		comps, err := scoreClient.ListComponents(cmd.Context(), model.ComponentCategory(category))
		if err != nil {
			return fmt.Errorf("listing components: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), comps)
		}
		printComponentList(cmd.OutOrStdout(), comps)
		return nil
	},
}

var componentCmd = &cobra.Command{
	Use:     "component <id>",
	Short:   "Show one component with its variants and compatibility rules",
	GroupID: "library",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comp, err := scoreClient.GetComponent(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting component %s: %w", args[0], err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), comp)
		}
		printComponent(cmd.OutOrStdout(), comp)
		return nil
	},
}

var tiersCmd = &cobra.Command{
	Use:     "tiers",
	Short:   "List achievement tiers and their requirements",
	GroupID: "library",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tiers, err := scoreClient.ListTiers(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing tiers: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), tiers)
		}
		printTiers(cmd.OutOrStdout(), tiers)
		return nil
	},
}

func init() {
	componentsCmd.Flags().String("category", "", "only list components in this category")
}
