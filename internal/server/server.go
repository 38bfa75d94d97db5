package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/idgen"
	"github.com/alfredjeanlab/archscore/internal/library"
	"github.com/alfredjeanlab/archscore/internal/model"
)

// ScoreServer serves recalculation and scoring over HTTP and reports its
// readiness over the gRPC health protocol.
type ScoreServer struct {
	lib       *library.Library
	publisher events.Publisher
	stream    *eventStream
	health    *health.Server
	metrics   *Metrics
	logger    *slog.Logger
	orchOpts  []engine.Option
	now       func() time.Time
}

// Option configures a ScoreServer.
type Option func(*ScoreServer)

// WithLogger sets the server logger. It is also handed to every orchestrator.
func WithLogger(l *slog.Logger) Option {
	return func(s *ScoreServer) { s.logger = l }
}

// WithMetrics sets the collector set requests are recorded in.
func WithMetrics(m *Metrics) Option {
	return func(s *ScoreServer) { s.metrics = m }
}

// WithOrchestratorOptions appends options applied to every orchestrator the
// server builds.
func WithOrchestratorOptions(opts ...engine.Option) Option {
	return func(s *ScoreServer) { s.orchOpts = append(s.orchOpts, opts...) }
}

// NewScoreServer returns a ScoreServer resolving components through lib and
// emitting events to p.
func NewScoreServer(lib *library.Library, p events.Publisher, opts ...Option) *ScoreServer {
	s := &ScoreServer{
		lib:       lib,
		publisher: p,
		health:    health.NewServer(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.stream = newEventStream(s.metrics)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Metrics returns the server's collector set.
func (s *ScoreServer) Metrics() *Metrics {
	return s.metrics
}

// LoadLibrary loads the component library, marks the server as serving and
// emits a library loaded event.
func (s *ScoreServer) LoadLibrary(ctx context.Context) error {
	if err := s.lib.Load(ctx); err != nil {
		return err
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	cat := s.lib.Catalog()
	s.publish(ctx, events.TopicLibraryLoaded, events.LibraryLoaded{
		Source:        s.lib.Source().String(),
		SchemaVersion: cat.SchemaVersion,
		Components:    len(cat.Components),
		Tiers:         len(cat.Tiers),
		At:            s.now().UTC(),
	})
	return nil
}

// LoadLibraryRetry calls LoadLibrary until it succeeds or ctx ends. Failed
// attempts are logged and retried after a wait that starts at initial and
// doubles up to maxWait.
func (s *ScoreServer) LoadLibraryRetry(ctx context.Context, initial, maxWait time.Duration) error {
	wait := initial
	for attempt := 1; ; attempt++ {
		err := s.LoadLibrary(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("library load failed",
			"source", s.lib.Source().String(), "attempt", attempt, "retry_in", wait, "err", err)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait = min(wait*2, maxWait)
	}
}

// Shutdown marks the server as not serving.
func (s *ScoreServer) Shutdown() {
	s.health.Shutdown()
}

func (s *ScoreServer) orchestrator() *engine.Orchestrator {
	opts := append([]engine.Option{engine.WithLogger(s.logger)}, s.orchOpts...)
	return engine.NewOrchestrator(s.lib, opts...)
}

// publish emits an event to the publisher and to stream clients.
// Both are best-effort; failures are logged but do not block the caller.
func (s *ScoreServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.toStream(topic, event)
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

// recalculate runs one propagation pass for an edit of changedNodeID.
func (s *ScoreServer) recalculate(ctx context.Context, arch *model.Architecture, changedNodeID string) (*events.RecalculationCompleted, error) {
	if !s.lib.Loaded() {
		return nil, library.ErrNotLoaded
	}
	id, err := idgen.RecalculationID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	res := s.orchestrator().Run(arch.Nodes, arch.Edges, changedNodeID)

	affected := make([]string, len(res.PropagationHops))
	for i, h := range res.PropagationHops {
		affected[i] = h.NodeID
	}
	ev := &events.RecalculationCompleted{
		ID:            id,
		ChangedNodeID: changedNodeID,
		At:            s.now().UTC(),
		AffectedNodes: affected,
		Placeholders:  placeholders(res.Metrics),
		TotalDelayMs:  res.TotalDelayMs,
		Result:        res,
	}
	s.metrics.observeRecalculation("recalculate", len(affected), len(ev.Placeholders))

	s.publish(ctx, events.TopicRecalculationCompleted, ev)
	return ev, nil
}

// scoreResponse is a full architecture report tagged with its event id.
type scoreResponse struct {
	ID string `json:"id"`
	*engine.Report
}

// score recalculates and scores a whole architecture.
func (s *ScoreServer) score(ctx context.Context, arch *model.Architecture) (*scoreResponse, error) {
	if !s.lib.Loaded() {
		return nil, library.ErrNotLoaded
	}
	id, err := idgen.RecalculationID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	report := engine.Score(s.orchestrator(), arch.Nodes, arch.Edges, s.lib.Tiers())
	s.metrics.observeRecalculation("score", len(report.Nodes), len(report.Placeholders()))

	ev := events.ScoreComputed{
		ID:             id,
		At:             s.now().UTC(),
		Nodes:          len(report.Nodes),
		AggregateScore: report.AggregateScore,
		Warnings:       len(report.Warnings),
	}
	if report.Tier != nil {
		ev.Tier = report.Tier.Current
	}
	s.publish(ctx, events.TopicScoreComputed, ev)

	return &scoreResponse{ID: id, Report: report}, nil
}

// compatibility looks up both components and checks source against target.
func (s *ScoreServer) compatibility(sourceID, targetID string) (model.CompatibilityResult, error) {
	if !s.lib.Loaded() {
		return model.CompatibilityResult{}, library.ErrNotLoaded
	}
	source, ok := s.lib.GetComponent(sourceID)
	if !ok {
		return model.CompatibilityResult{}, notFoundError(sourceID)
	}
	target, ok := s.lib.GetComponent(targetID)
	if !ok {
		return model.CompatibilityResult{}, notFoundError(targetID)
	}
	return engine.CheckCompatibility(source, target), nil
}

// notFoundError names a component id absent from the library.
type notFoundError string

func (e notFoundError) Error() string { return fmt.Sprintf("component %q not found", string(e)) }

func placeholders(metrics map[string]model.RecalculatedMetrics) []string {
	r := engine.Report{Nodes: metrics}
	return r.Placeholders()
}
