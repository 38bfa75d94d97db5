package engine

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// EvaluateTiers finds the highest tier whose requirements all hold and lists the
// unmet requirements of the tier right above it. Tiers are checked
// independently; none is assumed to imply another.
//
// It returns nil when defs is empty. With no tier met, Current is nil and Next
// is the first tier.
func EvaluateTiers(defs []model.TierDefinition, facts GraphFacts) *model.TierResult {
	if len(defs) == 0 {
		return nil
	}

	current := -1
	for i, def := range defs {
		if tierMet(def, facts) {
			current = i
		}
	}

	res := &model.TierResult{Gaps: []model.RequirementGap{}}
	if current >= 0 {
		res.Current = tierRef(defs, current)
	}
	if current == len(defs)-1 {
		res.IsMaxTier = true
		return res
	}

	next := current + 1
	res.Next = tierRef(defs, next)
	for _, r := range defs[next].Requirements {
		if gap, ok := checkRequirement(r, facts); !ok {
			res.Gaps = append(res.Gaps, gap)
		}
	}
	return res
}

func tierRef(defs []model.TierDefinition, i int) *model.TierRef {
	return &model.TierRef{Index: i, ID: defs[i].ID, Name: defs[i].Name}
}

func tierMet(def model.TierDefinition, facts GraphFacts) bool {
	for _, r := range def.Requirements {
		if _, ok := checkRequirement(r, facts); !ok {
			return false
		}
	}
	return true
}

// checkRequirement reports whether r holds, along with its gap for display.
func checkRequirement(r model.Requirement, facts GraphFacts) (model.RequirementGap, bool) {
	switch req := r.(type) {
	case model.MinComponents:
		return model.RequirementGap{
			Kind:        req.Kind(),
			Description: fmt.Sprintf("At least %d components", req.Count),
			Current:     float64(facts.ComponentCount),
			Target:      float64(req.Count),
		}, facts.ComponentCount >= req.Count

	case model.MinCategoryScore:
		score := facts.CategoryScores[req.Category]
		return model.RequirementGap{
			Kind:        req.Kind(),
			Description: fmt.Sprintf("%s score of at least %.1f", metricCategoryName(req.Category), req.Score),
			Current:     score,
			Target:      req.Score,
		}, score >= req.Score

	case model.RequiredCategories:
		var missing []model.ComponentCategory
		for _, c := range req.Categories {
			if !facts.HasCategory(c) {
				missing = append(missing, c)
			}
		}
		names := make([]string, len(req.Categories))
		for i, c := range req.Categories {
			names[i] = string(c)
		}
		return model.RequirementGap{
			Kind:        req.Kind(),
			Description: "Includes " + strings.Join(names, ", "),
			Current:     float64(len(req.Categories) - len(missing)),
			Target:      float64(len(req.Categories)),
			Missing:     missing,
		}, len(missing) == 0

	case model.MinDistinctCategories:
		n := facts.DistinctCategories()
		return model.RequirementGap{
			Kind:        req.Kind(),
			Description: fmt.Sprintf("At least %d distinct categories", req.Count),
			Current:     float64(n),
			Target:      float64(req.Count),
		}, n >= req.Count

	default:
		panic(fmt.Sprintf("engine: unhandled requirement type %T", r))
	}
}

func metricCategoryName(c model.MetricCategory) string {
	for _, def := range model.MetricCategories {
		if def.ID == c {
			return def.Name
		}
	}
	return string(c)
}
