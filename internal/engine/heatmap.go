package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// Heatmap thresholds. Each band includes its lower bound.
const (
	WarningThreshold    = 6.0
	BottleneckThreshold = 4.0
)

// HeatmapStatus classifies an overall score.
func HeatmapStatus(score float64) model.HeatmapStatus {
	switch {
	case score >= WarningThreshold:
		return model.StatusHealthy
	case score >= BottleneckThreshold:
		return model.StatusWarning
	default:
		return model.StatusBottleneck
	}
}

// ArchitectureHeatmap classifies every node score.
func ArchitectureHeatmap(scores map[string]float64) map[string]model.HeatmapStatus {
	out := make(map[string]model.HeatmapStatus, len(scores))
	for id, s := range scores {
		out[id] = HeatmapStatus(s)
	}
	return out
}

// NodeScores extracts the overall score of every recalculated node.
func NodeScores(computed map[string]model.RecalculatedMetrics) map[string]float64 {
	out := make(map[string]float64, len(computed))
	for id, rm := range computed {
		out[id] = rm.OverallScore
	}
	return out
}

// EdgeHeatmapStatus returns the more severe of two endpoint statuses.
// An empty status counts as healthy.
func EdgeHeatmapStatus(source, target model.HeatmapStatus) model.HeatmapStatus {
	worst := model.StatusHealthy
	for _, s := range []model.HeatmapStatus{source, target} {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}

// EdgeHeatmap reduces node statuses to a status per edge id.
func EdgeHeatmap(edges []model.Edge, nodes map[string]model.HeatmapStatus) map[string]model.HeatmapStatus {
	out := make(map[string]model.HeatmapStatus, len(edges))
	for _, e := range edges {
		out[e.ID] = EdgeHeatmapStatus(nodes[e.SourceNodeID], nodes[e.TargetNodeID])
	}
	return out
}
