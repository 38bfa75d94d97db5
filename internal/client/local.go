package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/idgen"
	"github.com/alfredjeanlab/archscore/internal/library"
	"github.com/alfredjeanlab/archscore/internal/model"
)

// LocalClient implements ScoreClient in-process against a library.
// The library is loaded lazily on first use.
type LocalClient struct {
	lib    *library.Library
	logger *slog.Logger
}

// NewLocalClient returns a client scoring against lib.
func NewLocalClient(lib *library.Library, logger *slog.Logger) *LocalClient {
	return &LocalClient{lib: lib, logger: logger}
}

// Close releases the library source when it holds resources.
func (c *LocalClient) Close() error {
	return library.CloseSource(c.lib.Source())
}

func (c *LocalClient) loaded(ctx context.Context) error {
	return c.lib.Load(ctx)
}

func (c *LocalClient) Library(ctx context.Context) (*LibraryInfo, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	cat := c.lib.Catalog()
	return &LibraryInfo{
		Source:        c.lib.Source().String(),
		SchemaVersion: cat.SchemaVersion,
		Components:    len(cat.Components),
		Tiers:         len(cat.Tiers),
	}, nil
}

func (c *LocalClient) ListComponents(ctx context.Context, category model.ComponentCategory) ([]model.Component, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	var comps []*model.Component
	if category != "" {
		if !category.IsValid() {
			return nil, fmt.Errorf("invalid category %s", category)
		}
		comps = c.lib.ComponentsByCategory(category)
	} else {
		comps = c.lib.Components()
	}
	out := make([]model.Component, len(comps))
	for i, comp := range comps {
		out[i] = *comp
	}
	return out, nil
}

func (c *LocalClient) GetComponent(ctx context.Context, id string) (*model.Component, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	comp, ok := c.lib.GetComponent(id)
	if !ok {
		return nil, fmt.Errorf("component %q: %w", id, ErrNotFound)
	}
	return comp, nil
}

func (c *LocalClient) ListTiers(ctx context.Context) ([]model.TierDefinition, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	return c.lib.Tiers(), nil
}

func (c *LocalClient) orchestrator() *engine.Orchestrator {
	return engine.NewOrchestrator(c.lib, engine.WithLogger(c.logger))
}

func (c *LocalClient) Recalculate(ctx context.Context, arch *model.Architecture, changedNodeID string) (*events.RecalculationCompleted, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	id, err := idgen.RecalculationID()
	if err != nil {
		return nil, err
	}

	res := c.orchestrator().Run(arch.Nodes, arch.Edges, changedNodeID)
	affected := make([]string, len(res.PropagationHops))
	for i, h := range res.PropagationHops {
		affected[i] = h.NodeID
	}
	report := engine.Report{Nodes: res.Metrics}
	return &events.RecalculationCompleted{
		ID:            id,
		ChangedNodeID: changedNodeID,
		At:            time.Now().UTC(),
		AffectedNodes: affected,
		Placeholders:  report.Placeholders(),
		TotalDelayMs:  res.TotalDelayMs,
		Result:        res,
	}, nil
}

// Propagation needs no library.
func (c *LocalClient) Propagation(_ context.Context, edges []model.Edge, changedNodeID string) (*PropagationResult, error) {
	hops := engine.PropagationHops(changedNodeID, edges)
	res := &PropagationResult{ChangedNodeID: changedNodeID, PropagationHops: hops}
	if n := len(hops); n > 0 {
		res.TotalDelayMs = hops[n-1].DelayMs
	}
	return res, nil
}

func (c *LocalClient) Score(ctx context.Context, arch *model.Architecture) (*ScoreResult, error) {
	if err := c.loaded(ctx); err != nil {
		return nil, err
	}
	id, err := idgen.RecalculationID()
	if err != nil {
		return nil, err
	}
	report := engine.Score(c.orchestrator(), arch.Nodes, arch.Edges, c.lib.Tiers())
	return &ScoreResult{ID: id, Report: *report}, nil
}

func (c *LocalClient) Compatibility(ctx context.Context, sourceID, targetID string) (*model.CompatibilityResult, error) {
	source, err := c.GetComponent(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := c.GetComponent(ctx, targetID)
	if err != nil {
		return nil, err
	}
	res := engine.CheckCompatibility(source, target)
	return &res, nil
}

func (c *LocalClient) Health(ctx context.Context) (string, error) {
	if err := c.loaded(ctx); err != nil {
		return "", err
	}
	return "ok (library loaded)", nil
}
