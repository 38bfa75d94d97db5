package engine

import (
	"log/slog"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// ConnectedNode is the neighbor context handed to a NodeRecalcFunc.
type ConnectedNode struct {
	NodeID   string
	Category model.ComponentCategory
	Metrics  []model.MetricValue
}

// NodeInput is everything a NodeRecalcFunc sees about one affected node.
type NodeInput struct {
	Node      model.Node
	Category  model.ComponentCategory
	Metrics   []model.MetricValue
	Connected []ConnectedNode
}

// NodeRecalcFunc computes the final metrics and overall score of one node.
// It must be deterministic for the orchestrator to be.
type NodeRecalcFunc func(in NodeInput) ([]model.MetricValue, float64)

// DefaultNodeRecalc returns the effective metrics unchanged and their mean.
func DefaultNodeRecalc(in NodeInput) ([]model.MetricValue, float64) {
	return in.Metrics, OverallScore(in.Metrics)
}

// Orchestrator runs one recalculation pass for a single edit.
type Orchestrator struct {
	lib        ComponentLookup
	logger     *slog.Logger
	nodeRecalc NodeRecalcFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used to report unresolved components.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithNodeRecalc replaces the node-level recalculation step.
func WithNodeRecalc(fn NodeRecalcFunc) Option {
	return func(o *Orchestrator) { o.nodeRecalc = fn }
}

// NewOrchestrator returns an Orchestrator resolving components through lib.
func NewOrchestrator(lib ComponentLookup, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		lib:        lib,
		logger:     slog.Default(),
		nodeRecalc: DefaultNodeRecalc,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// pass holds state scoped to a single Run call.
type pass struct {
	o       *Orchestrator
	nodes   map[string]*model.Node
	adj     Adjacency
	effects map[string]nodeEffect
}

type nodeEffect struct {
	category model.ComponentCategory
	metrics  []model.MetricValue
	resolved bool
}

// Run recalculates every node reachable from changedNodeID.
// Affected ids with no matching node are reported in PropagationHops but get
// no metrics entry.
func (o *Orchestrator) Run(nodes []model.Node, edges []model.Edge, changedNodeID string) *model.RecalculationResult {
	p := o.newPass(nodes, edges)
	hops := p.adj.hops(changedNodeID)

	ids := make([]string, len(hops))
	for i, h := range hops {
		ids[i] = h.NodeID
	}
	res := &model.RecalculationResult{
		Metrics:         p.recalculate(ids),
		PropagationHops: hops,
	}
	if n := len(hops); n > 0 {
		res.TotalDelayMs = hops[n-1].DelayMs
	}
	return res
}

// RecalculateAll recalculates every node regardless of connectivity.
// The result has no propagation hops.
func (o *Orchestrator) RecalculateAll(nodes []model.Node, edges []model.Edge) *model.RecalculationResult {
	p := o.newPass(nodes, edges)
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return &model.RecalculationResult{
		Metrics:         p.recalculate(ids),
		PropagationHops: []model.PropagationHop{},
	}
}

func (o *Orchestrator) newPass(nodes []model.Node, edges []model.Edge) *pass {
	return &pass{
		o:       o,
		nodes:   model.NodeIndex(nodes),
		adj:     BuildAdjacency(edges),
		effects: make(map[string]nodeEffect),
	}
}

func (p *pass) recalculate(ids []string) map[string]model.RecalculatedMetrics {
	out := make(map[string]model.RecalculatedMetrics, len(ids))
	for _, id := range ids {
		n, ok := p.nodes[id]
		if !ok {
			continue
		}
		eff := p.effect(n)

		in := NodeInput{Node: *n, Category: eff.category, Metrics: eff.metrics}
		for _, nid := range p.adj.Neighbors(id) {
			nn, ok := p.nodes[nid]
			if !ok {
				continue
			}
			ne := p.effect(nn)
			in.Connected = append(in.Connected, ConnectedNode{NodeID: nid, Category: ne.category, Metrics: ne.metrics})
		}

		metrics, score := p.o.nodeRecalc(in)
		if metrics == nil {
			metrics = []model.MetricValue{}
		}
		out[id] = model.RecalculatedMetrics{
			NodeID:       id,
			ComponentID:  n.ComponentID,
			Metrics:      metrics,
			OverallScore: score,
			Placeholder:  !eff.resolved,
		}
	}
	return out
}

// effect returns the cached effective metrics of n, computing them on first use.
func (p *pass) effect(n *model.Node) nodeEffect {
	if e, ok := p.effects[n.ID]; ok {
		return e
	}

	c, ok := p.o.lib.GetComponent(n.ComponentID)
	if !ok {
		p.o.logger.Warn("component unresolved", "node_id", n.ID, "component_id", n.ComponentID)
		c = nil
	}
	e := nodeEffect{
		category: NodeCategory(n, c),
		metrics:  EffectiveMetrics(c, n.ActiveVariantID),
		resolved: c != nil,
	}
	p.effects[n.ID] = e
	return e
}

// NodeCategory is the node's own category if set, else its component's.
func NodeCategory(n *model.Node, c *model.Component) model.ComponentCategory {
	if n.Category != "" {
		return n.Category
	}
	if c != nil {
		return c.Category
	}
	return ""
}
