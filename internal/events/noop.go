package events

import (
	"context"
	"log/slog"
)

// NoopPublisher discards events. It is used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }

// MultiPublisher fans an event out to several publishers and returns the
// first error.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, topic string, event any) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, topic, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiPublisher) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogPublisher writes each event's topic to a logger at Info.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, topic string, event any) error {
	attrs := []any{"topic", topic}
	switch e := event.(type) {
	case *RecalculationCompleted:
		attrs = append(attrs, "id", e.ID, "changed_node_id", e.ChangedNodeID, "affected", len(e.AffectedNodes))
	case ScoreComputed:
		attrs = append(attrs, "id", e.ID, "nodes", e.Nodes, "aggregate_score", e.AggregateScore)
	case LibraryLoaded:
		attrs = append(attrs, "source", e.Source, "components", e.Components)
	}
	p.Logger.Info("event", attrs...)
	return nil
}

func (LogPublisher) Close() error { return nil }
