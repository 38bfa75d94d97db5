package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// GraphFacts is the summary of an architecture that tier requirements are
// checked against.
type GraphFacts struct {
	// ComponentCount counts nodes whose component resolved.
	ComponentCount int `json:"component_count"`

	// Categories holds every component category represented by a resolved node.
	Categories map[model.ComponentCategory]bool `json:"categories"`

	// CategoryScores holds the dashboard score of each metric category.
	// Categories without data are absent.
	CategoryScores map[model.MetricCategory]float64 `json:"category_scores"`
}

// DistinctCategories is the number of component categories represented.
func (f GraphFacts) DistinctCategories() int {
	return len(f.Categories)
}

// HasCategory reports whether any resolved node belongs to c.
func (f GraphFacts) HasCategory(c model.ComponentCategory) bool {
	return f.Categories[c]
}

// BuildFacts summarizes nodes and their dashboard scores.
// Placeholder nodes are not counted.
func BuildFacts(lib ComponentLookup, nodes []model.Node, scores []model.CategoryScore) GraphFacts {
	f := GraphFacts{
		Categories:     make(map[model.ComponentCategory]bool),
		CategoryScores: make(map[model.MetricCategory]float64),
	}
	for i := range nodes {
		n := &nodes[i]
		c, ok := lib.GetComponent(n.ComponentID)
		if !ok {
			continue
		}
		f.ComponentCount++
		if cat := NodeCategory(n, c); cat != "" {
			f.Categories[cat] = true
		}
	}
	for _, s := range scores {
		if s.HasData {
			f.CategoryScores[s.Category] = s.Score
		}
	}
	return f
}
