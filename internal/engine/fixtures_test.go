package engine

import (
	"bytes"
	"log/slog"

	"github.com/alfredjeanlab/archscore/internal/model"
)

func metric(id string, n int, cat model.MetricCategory) model.MetricValue {
	rating := model.RatingMedium
	switch {
	case n <= 3:
		rating = model.RatingLow
	case n >= 8:
		rating = model.RatingHigh
	}
	return model.MetricValue{ID: id, Value: rating, NumericValue: n, Category: cat}
}

func fixtureLibrary() ComponentMap {
	return ComponentMap{
		"postgresql": {
			ID:       "postgresql",
			Name:     "PostgreSQL",
			Category: model.CategoryDataStorage,
			Metrics: []model.MetricValue{
				metric("latency", 6, model.MetricPerformance),
				metric("durability", 9, model.MetricReliability),
			},
			Variants: []model.ConfigurationVariant{
				{ID: "single", Name: "Single node"},
				{ID: "replicated", Name: "Replicated", Metrics: []model.MetricValue{
					metric("durability", 10, model.MetricReliability),
					metric("read-scale", 8, model.MetricScalability),
				}},
			},
			Compatibility: map[model.ComponentCategory]string{
				model.CategoryClient: "clients should not connect to the database directly",
			},
		},
		"redis": {
			ID:       "redis",
			Name:     "Redis",
			Category: model.CategoryCaching,
			Metrics: []model.MetricValue{
				metric("latency", 10, model.MetricPerformance),
				metric("durability", 3, model.MetricReliability),
			},
			Variants: []model.ConfigurationVariant{{ID: "default", Name: "Default"}},
		},
		"spa": {
			ID:       "spa",
			Name:     "Single-page app",
			Category: model.CategoryClient,
			Metrics: []model.MetricValue{
				metric("bundle-size", 2, model.MetricPerformance),
			},
			Variants: []model.ConfigurationVariant{{ID: "default", Name: "Default"}},
			Compatibility: map[model.ComponentCategory]string{
				model.CategoryDataStorage: "the browser cannot reach the database",
			},
		},
		"api": {
			ID:       "api",
			Name:     "API service",
			Category: model.CategoryCompute,
			Metrics: []model.MetricValue{
				metric("throughput", 7, model.MetricScalability),
				metric("ops", 5, model.MetricMaintainability),
			},
			Variants: []model.ConfigurationVariant{{ID: "default", Name: "Default"}},
		},
	}
}

func edge(id, src, dst string) model.Edge {
	return model.Edge{ID: id, SourceNodeID: src, TargetNodeID: dst}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}
