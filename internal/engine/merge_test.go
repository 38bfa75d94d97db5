package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfredjeanlab/archscore/internal/model"
)

func TestEffectiveMetrics_VariantReplacesBase(t *testing.T) {
	c := &model.Component{
		ID:      "svc",
		Metrics: []model.MetricValue{{ID: "lat", NumericValue: 5, Value: model.RatingMedium, Category: model.MetricPerformance}},
		Variants: []model.ConfigurationVariant{{
			ID: "tuned",
			Metrics: []model.MetricValue{
				{ID: "lat", NumericValue: 2, Value: model.RatingLow, Category: model.MetricCost, Name: "Latency"},
				{ID: "tp", NumericValue: 8, Value: model.RatingHigh, Category: model.MetricScalability},
			},
		}},
	}

	got := EffectiveMetrics(c, "tuned")
	assert.Equal(t, []model.MetricValue{
		{ID: "lat", NumericValue: 2, Value: model.RatingLow, Category: model.MetricCost, Name: "Latency"},
		{ID: "tp", NumericValue: 8, Value: model.RatingHigh, Category: model.MetricScalability},
	}, got)
}

func TestEffectiveMetrics_BasePassesThrough(t *testing.T) {
	c := fixtureLibrary()["postgresql"]
	got := EffectiveMetrics(c, "replicated")
	assert.Equal(t, []model.MetricValue{
		metric("latency", 6, model.MetricPerformance),
		metric("durability", 10, model.MetricReliability),
		metric("read-scale", 8, model.MetricScalability),
	}, got)
}

func TestEffectiveMetrics_UnknownVariantFallsBack(t *testing.T) {
	c := fixtureLibrary()["postgresql"]
	assert.Equal(t, c.Metrics, EffectiveMetrics(c, "sharded"))
	assert.Equal(t, c.Metrics, EffectiveMetrics(c, ""))
}

func TestEffectiveMetrics_NilComponent(t *testing.T) {
	got := EffectiveMetrics(nil, "any")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEffectiveMetrics_DoesNotMutateComponent(t *testing.T) {
	c := fixtureLibrary()["postgresql"]
	before := append([]model.MetricValue(nil), c.Metrics...)
	_ = EffectiveMetrics(c, "replicated")
	assert.Equal(t, before, c.Metrics)
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, NeutralScore, OverallScore(nil))
	assert.InDelta(t, 7.5, OverallScore([]model.MetricValue{
		metric("a", 6, model.MetricPerformance),
		metric("b", 9, model.MetricReliability),
	}), 1e-9)
}
