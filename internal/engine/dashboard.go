package engine

import (
	"math"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// CategoryScores computes one score per fixed metric category, in category
// definition order. Each score is the flat mean of every matching metric across
// all nodes.
func CategoryScores(computed map[string]model.RecalculatedMetrics) []model.CategoryScore {
	sums := make(map[model.MetricCategory]int, len(model.MetricCategories))
	counts := make(map[model.MetricCategory]int, len(model.MetricCategories))
	for _, rm := range computed {
		for _, m := range rm.Metrics {
			sums[m.Category] += m.NumericValue
			counts[m.Category]++
		}
	}

	out := make([]model.CategoryScore, len(model.MetricCategories))
	for i, def := range model.MetricCategories {
		cs := model.CategoryScore{Category: def.ID, Name: def.Name}
		if n := counts[def.ID]; n > 0 {
			cs.Score = float64(sums[def.ID]) / float64(n)
			cs.MetricCount = n
			cs.HasData = true
		}
		out[i] = cs
	}
	return out
}

// AggregateScore averages the categories that have data, rounded to one decimal.
// It is 0 when no category has data.
func AggregateScore(scores []model.CategoryScore) float64 {
	var sum float64
	n := 0
	for _, s := range scores {
		if !s.HasData {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}
