// Package client provides a transport-agnostic interface for the archscore
// service, an HTTP/JSON implementation that talks to a running server, and a
// local implementation that scores in-process against a loaded library.
package client

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/model"
)

// ErrNotFound is reported when a requested component does not exist.
var ErrNotFound = errors.New("not found")

// ScoreClient is the interface every archscore CLI command uses. It is
// implemented by HTTPClient for --remote and by LocalClient otherwise.
type ScoreClient interface {
	// Library
	Library(ctx context.Context) (*LibraryInfo, error)
	ListComponents(ctx context.Context, category model.ComponentCategory) ([]model.Component, error)
	GetComponent(ctx context.Context, id string) (*model.Component, error)
	ListTiers(ctx context.Context) ([]model.TierDefinition, error)

	// Scoring
	Recalculate(ctx context.Context, arch *model.Architecture, changedNodeID string) (*events.RecalculationCompleted, error)
	Propagation(ctx context.Context, edges []model.Edge, changedNodeID string) (*PropagationResult, error)
	Score(ctx context.Context, arch *model.Architecture) (*ScoreResult, error)
	Compatibility(ctx context.Context, sourceID, targetID string) (*model.CompatibilityResult, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// LibraryInfo summarizes the loaded component library.
type LibraryInfo struct {
	Source        string `json:"source"`
	SchemaVersion string `json:"schema_version"`
	Components    int    `json:"components"`
	Tiers         int    `json:"tiers"`
}

// PropagationResult is the breadth-first wave for one edit.
type PropagationResult struct {
	ChangedNodeID   string                 `json:"changed_node_id"`
	PropagationHops []model.PropagationHop `json:"propagation_hops"`
	TotalDelayMs    int64                  `json:"total_delay_ms"`
}

// ScoreResult is a full architecture report tagged with its id.
type ScoreResult struct {
	ID string `json:"id"`
	engine.Report
}

type recalculateRequest struct {
	Nodes         []model.Node `json:"nodes"`
	Edges         []model.Edge `json:"edges"`
	ChangedNodeID string       `json:"changed_node_id"`
}

type propagationRequest struct {
	Edges         []model.Edge `json:"edges"`
	ChangedNodeID string       `json:"changed_node_id"`
}

type scoreRequest struct {
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

type compatibilityRequest struct {
	SourceComponentID string `json:"source_component_id"`
	TargetComponentID string `json:"target_component_id"`
}
