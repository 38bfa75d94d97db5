package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/client"
	"github.com/alfredjeanlab/archscore/internal/config"
	"github.com/alfredjeanlab/archscore/internal/library"
	"github.com/alfredjeanlab/archscore/internal/ui"
)

var (
	libraryLoc string
	remoteURL  string
	authToken  string
	jsonOutput bool
	noColor    bool
	dotenvPath string

	cfg         *config.Config
	logger      *slog.Logger
	scoreClient client.ScoreClient
)

func defaultRemote() string {
	return os.Getenv("ARCHSCORE_REMOTE")
}

// setup loads configuration and builds the logger. Flags set on the command
// line override their environment counterparts.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotenv(dotenvPath); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("library") {
		c.Library = libraryLoc
	}
	if cmd.Flags().Changed("token") {
		c.AuthToken = authToken
	}
	cfg = c

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if noColor || !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	return nil
}

func s3Options() library.S3Options {
	return library.S3Options{Region: cfg.S3Region, Endpoint: cfg.S3Endpoint}
}

// newLibrary resolves the configured catalog location into a Library.
func newLibrary(ctx context.Context) (*library.Library, error) {
	src, err := library.ParseSource(ctx, cfg.Library, s3Options())
	if err != nil {
		return nil, err
	}
	return library.New(src, library.WithLogger(logger), library.WithFetchTimeout(cfg.LoadTimeout)), nil
}

var rootCmd = &cobra.Command{
	Use:           "archscore <command>",
	Short:         "Score software architectures against a component library",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		if remoteURL != "" {
			scoreClient = client.NewHTTPClient(remoteURL, cfg.AuthToken)
			return nil
		}
		lib, err := newLibrary(cmd.Context())
		if err != nil {
			return err
		}
		scoreClient = client.NewLocalClient(lib, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if scoreClient != nil {
			scoreClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&libraryLoc, "library", library.BuiltinName, "component library: builtin, a file or directory, s3://bucket/key, or postgres://")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", defaultRemote(), "archscore server URL; empty scores locally")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token for --remote (default $ARCHSCORE_AUTH_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "env-file", ".env", "dotenv file to read before the environment")

	rootCmd.AddGroup(
		&cobra.Group{ID: "scoring", Title: "Scoring:"},
		&cobra.Group{ID: "library", Title: "Library:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Scoring
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(recalcCmd)
	rootCmd.AddCommand(propagateCmd)
	rootCmd.AddCommand(compatCmd)
	rootCmd.AddCommand(normalizeCmd)

	// Library
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(componentCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(libraryCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError("Error:"), err)
		os.Exit(1)
	}
}
