package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// EffectiveMetrics overlays the metrics of variant activeVariantID onto the
// component's base metrics, keyed by metric id.
//
// Variant entries replace base entries wholesale and keep the base entry's
// position; variant-only entries follow in variant order. An unknown variant
// yields base metrics only. A nil component yields an empty set.
func EffectiveMetrics(c *model.Component, activeVariantID string) []model.MetricValue {
	if c == nil {
		return []model.MetricValue{}
	}

	out := make([]model.MetricValue, 0, len(c.Metrics))
	pos := make(map[string]int, len(c.Metrics))
	for _, m := range c.Metrics {
		if i, dup := pos[m.ID]; dup {
			out[i] = m
			continue
		}
		pos[m.ID] = len(out)
		out = append(out, m)
	}

	v, ok := c.Variant(activeVariantID)
	if !ok {
		return out
	}
	for _, m := range v.Metrics {
		if i, exists := pos[m.ID]; exists {
			out[i] = m
			continue
		}
		pos[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}

// NeutralScore is the overall score of a node with no metrics.
const NeutralScore = 5.0

// OverallScore is the arithmetic mean of numeric values, or NeutralScore
// when metrics is empty.
func OverallScore(metrics []model.MetricValue) float64 {
	if len(metrics) == 0 {
		return NeutralScore
	}
	sum := 0
	for _, m := range metrics {
		sum += m.NumericValue
	}
	return float64(sum) / float64(len(metrics))
}
