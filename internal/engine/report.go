package engine

import (
	"sort"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// Report is the full scoring of an architecture snapshot.
type Report struct {
	Nodes          map[string]model.RecalculatedMetrics `json:"nodes"`
	CategoryScores []model.CategoryScore                `json:"category_scores"`
	AggregateScore float64                              `json:"aggregate_score"`
	NodeHeatmap    map[string]model.HeatmapStatus       `json:"node_heatmap"`
	EdgeHeatmap    map[string]model.HeatmapStatus       `json:"edge_heatmap"`
	Facts          GraphFacts                           `json:"facts"`
	Tier           *model.TierResult                    `json:"tier"`
	Warnings       []EdgeWarning                        `json:"warnings"`
}

// Placeholders returns the sorted ids of nodes whose component did not resolve.
func (r *Report) Placeholders() []string {
	var ids []string
	for id, rm := range r.Nodes {
		if rm.Placeholder {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Score recalculates every node of the architecture and derives the
// dashboard, heatmap, tier and compatibility results from it.
func Score(o *Orchestrator, nodes []model.Node, edges []model.Edge, tiers []model.TierDefinition) *Report {
	res := o.RecalculateAll(nodes, edges)

	scores := CategoryScores(res.Metrics)
	nodeHeat := ArchitectureHeatmap(NodeScores(res.Metrics))
	facts := BuildFacts(o.lib, nodes, scores)

	warnings := CheckArchitecture(o.lib, nodes, edges)
	if warnings == nil {
		warnings = []EdgeWarning{}
	}

	return &Report{
		Nodes:          res.Metrics,
		CategoryScores: scores,
		AggregateScore: AggregateScore(scores),
		NodeHeatmap:    nodeHeat,
		EdgeHeatmap:    EdgeHeatmap(edges, nodeHeat),
		Facts:          facts,
		Tier:           EvaluateTiers(tiers, facts),
		Warnings:       warnings,
	}
}
