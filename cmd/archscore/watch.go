package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream scoring events from NATS",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Watching talks to NATS only.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		natsURL, _ := cmd.Flags().GetString("nats-url")
		if natsURL == "" {
			natsURL = cfg.NATSURL
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS server: set --nats-url or ARCHSCORE_NATS_URL")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchNATS(ctx, natsURL, topic, cmd.OutOrStdout())
	},
}

// watchNATS prints every event on topic until ctx is done.
func watchNATS(ctx context.Context, natsURL, topic string, w io.Writer) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	defer cancel()

	logger.Info("watching events", "nats_url", natsURL, "topic", topic)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := printEvent(w, msg); err != nil {
				logger.Warn("skipping event", "topic", msg.Topic, "err", err)
			}
		}
	}
}

func printEvent(w io.Writer, msg events.Message) error {
	ev, err := events.Decode(msg.Topic, msg.Data)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(w, map[string]any{"topic": msg.Topic, "event": ev})
	}

	switch e := ev.(type) {
	case *events.RecalculationCompleted:
		fmt.Fprintf(w, "%s %s recalculated %d nodes from %s (%dms)",
			e.At.Format("15:04:05"), ui.RenderAccent(e.ID), len(e.AffectedNodes), e.ChangedNodeID, e.TotalDelayMs)
		if len(e.Placeholders) > 0 {
			fmt.Fprintf(w, " %s", ui.RenderMuted(fmt.Sprintf("%d unresolved", len(e.Placeholders))))
		}
		fmt.Fprintln(w)
	case *events.ScoreComputed:
		tier := "none"
		if e.Tier != nil {
			tier = e.Tier.Name
		}
		fmt.Fprintf(w, "%s %s scored %d nodes: %.1f, tier %s, %d warnings\n",
			e.At.Format("15:04:05"), ui.RenderAccent(e.ID), e.Nodes, e.AggregateScore, tier, e.Warnings)
	case *events.LibraryLoaded:
		fmt.Fprintf(w, "%s library loaded from %s (schema %s, %d components, %d tiers)\n",
			e.At.Format("15:04:05"), e.Source, e.SchemaVersion, e.Components, e.Tiers)
	}
	return nil
}

func init() {
	watchCmd.Flags().String("topic", events.TopicAll, "NATS subject to watch")
	watchCmd.Flags().String("nats-url", "", "NATS server URL (default $ARCHSCORE_NATS_URL)")
}
