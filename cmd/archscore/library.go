package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Short:   "Inspect, validate, export and publish component catalogs",
	GroupID: "library",
}

var libraryInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the active component library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := scoreClient.Library(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading library: %w", err)
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, info)
		}
		fmt.Fprintf(w, "Source:         %s\n", info.Source)
		fmt.Fprintf(w, "Schema version: %s\n", info.SchemaVersion)
		fmt.Fprintf(w, "Components:     %d\n", info.Components)
		fmt.Fprintf(w, "Tiers:          %d\n", info.Tiers)
		return nil
	},
}

// The remaining subcommands work on catalog documents directly and never
// talk to a server.

var libraryValidateCmd = &cobra.Command{
	Use:               "validate [location]",
	Short:             "Load a catalog and report schema or validation errors",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary(cmd.Context(), args)
		if err != nil {
			return err
		}
		defer library.CloseSource(lib.Source())

		cat := lib.Catalog()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (schema %s, %d components, %d tiers)\n",
			lib.Source(), cat.SchemaVersion, len(cat.Components), len(cat.Tiers))
		return nil
	},
}

var libraryExportCmd = &cobra.Command{
	Use:               "export [location]",
	Short:             "Print a catalog as TOML, YAML or JSON",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		lib, err := openLibrary(cmd.Context(), args)
		if err != nil {
			return err
		}
		defer library.CloseSource(lib.Source())

		data, err := library.Encode(lib.Catalog(), library.Format(format))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var libraryPublishCmd = &cobra.Command{
	Use:   "publish <destination>",
	Short: "Copy the active catalog to a file, s3:// or postgres:// destination",
	Long: `Copy the catalog named by --library to a destination.

The catalog is validated before it is written. Destinations use the same
syntax as --library: a file path, s3://bucket/key, or a postgres:// URL.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		lib, err := openLibrary(ctx, nil)
		if err != nil {
			return err
		}
		defer library.CloseSource(lib.Source())

		pub, err := library.ParsePublisher(ctx, args[0], s3Options())
		if err != nil {
			return err
		}
		defer library.CloseSource(pub)

		if err := pub.Publish(ctx, lib.Catalog()); err != nil {
			return fmt.Errorf("publishing to %s: %w", pub, err)
		}
		logger.Info("catalog published", "from", lib.Source().String(), "to", pub.String())
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %s\n", lib.Source(), pub)
		return nil
	},
}

// openLibrary loads the catalog at args[0], or at the configured --library
// location when no argument is given.
func openLibrary(ctx context.Context, args []string) (*library.Library, error) {
	loc := cfg.Library
	if len(args) > 0 {
		loc = args[0]
	}
	src, err := library.ParseSource(ctx, loc, s3Options())
	if err != nil {
		return nil, err
	}
	lib := library.New(src, library.WithLogger(logger), library.WithFetchTimeout(cfg.LoadTimeout))

	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()
	if err := lib.Load(ctx); err != nil {
		library.CloseSource(src)
		return nil, err
	}
	return lib, nil
}

func init() {
	libraryExportCmd.Flags().String("format", string(library.FormatTOML), "output format: toml, yaml or json")

	libraryCmd.AddCommand(libraryInfoCmd)
	libraryCmd.AddCommand(libraryValidateCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryPublishCmd)
}
