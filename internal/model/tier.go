package model

import (
	"encoding/json"
	"fmt"
)

// RequirementKind tags the variant of a tier Requirement.
type RequirementKind string

const (
	RequireMinComponents         RequirementKind = "min_components"
	RequireMinCategoryScore      RequirementKind = "min_category_score"
	RequireCategories            RequirementKind = "required_categories"
	RequireMinDistinctCategories RequirementKind = "min_distinct_categories"
)

// Requirement is a closed sum type over the requirement kinds above.
// Only types in this package implement it.
type Requirement interface {
	Kind() RequirementKind
	isRequirement()
}

// MinComponents requires at least Count placed components.
type MinComponents struct {
	Count int
}

// MinCategoryScore requires the dashboard score of Category to be at least Score.
type MinCategoryScore struct {
	Category MetricCategory
	Score    float64
}

// RequiredCategories requires a component from every listed category.
type RequiredCategories struct {
	Categories []ComponentCategory
}

// MinDistinctCategories requires at least Count distinct component categories.
type MinDistinctCategories struct {
	Count int
}

func (MinComponents) Kind() RequirementKind         { return RequireMinComponents }
func (MinCategoryScore) Kind() RequirementKind      { return RequireMinCategoryScore }
func (RequiredCategories) Kind() RequirementKind    { return RequireCategories }
func (MinDistinctCategories) Kind() RequirementKind { return RequireMinDistinctCategories }

func (MinComponents) isRequirement()         {}
func (MinCategoryScore) isRequirement()      {}
func (RequiredCategories) isRequirement()    {}
func (MinDistinctCategories) isRequirement() {}

// RequirementSpec is the flat, serializable shape of a Requirement.
type RequirementSpec struct {
	Kind       RequirementKind     `json:"kind" toml:"kind" yaml:"kind"`
	Count      int                 `json:"count,omitempty" toml:"count" yaml:"count,omitempty"`
	Category   MetricCategory      `json:"category,omitempty" toml:"category" yaml:"category,omitempty"`
	Score      float64             `json:"score,omitempty" toml:"score" yaml:"score,omitempty"`
	Categories []ComponentCategory `json:"categories,omitempty" toml:"categories" yaml:"categories,omitempty"`
}

// Decode converts the spec into its typed Requirement.
func (s RequirementSpec) Decode() (Requirement, error) {
	switch s.Kind {
	case RequireMinComponents:
		return MinComponents{Count: s.Count}, nil
	case RequireMinCategoryScore:
		if !s.Category.IsValid() {
			return nil, fmt.Errorf("requirement %s: invalid category %q", s.Kind, s.Category)
		}
		return MinCategoryScore{Category: s.Category, Score: s.Score}, nil
	case RequireCategories:
		for _, c := range s.Categories {
			if !c.IsValid() {
				return nil, fmt.Errorf("requirement %s: invalid category %q", s.Kind, c)
			}
		}
		return RequiredCategories{Categories: append([]ComponentCategory(nil), s.Categories...)}, nil
	case RequireMinDistinctCategories:
		return MinDistinctCategories{Count: s.Count}, nil
	default:
		return nil, fmt.Errorf("unknown requirement kind %q", s.Kind)
	}
}

// SpecOf converts a typed Requirement back into its flat shape.
func SpecOf(r Requirement) RequirementSpec {
	switch req := r.(type) {
	case MinComponents:
		return RequirementSpec{Kind: req.Kind(), Count: req.Count}
	case MinCategoryScore:
		return RequirementSpec{Kind: req.Kind(), Category: req.Category, Score: req.Score}
	case RequiredCategories:
		return RequirementSpec{Kind: req.Kind(), Categories: req.Categories}
	case MinDistinctCategories:
		return RequirementSpec{Kind: req.Kind(), Count: req.Count}
	default:
		panic(fmt.Sprintf("model: unhandled requirement type %T", r))
	}
}

// TierSpec is the serializable shape of a tier as it appears in a catalog.
type TierSpec struct {
	ID           string            `json:"id" toml:"id" yaml:"id"`
	Name         string            `json:"name" toml:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Requirements []RequirementSpec `json:"requirements" toml:"requirements" yaml:"requirements"`
}

// Definition decodes the spec into a TierDefinition.
func (s TierSpec) Definition() (TierDefinition, error) {
	def := TierDefinition{ID: s.ID, Name: s.Name, Description: s.Description}
	for i, rs := range s.Requirements {
		r, err := rs.Decode()
		if err != nil {
			return TierDefinition{}, fmt.Errorf("tier %q requirement %d: %w", s.ID, i, err)
		}
		def.Requirements = append(def.Requirements, r)
	}
	return def, nil
}

// TierDefinition is one achievement tier. Tiers are evaluated in slice order.
type TierDefinition struct {
	ID           string
	Name         string
	Description  string
	Requirements []Requirement
}

// Spec converts the definition back into its serializable shape.
func (d TierDefinition) Spec() TierSpec {
	s := TierSpec{ID: d.ID, Name: d.Name, Description: d.Description}
	s.Requirements = make([]RequirementSpec, 0, len(d.Requirements))
	for _, r := range d.Requirements {
		s.Requirements = append(s.Requirements, SpecOf(r))
	}
	return s
}

// MarshalJSON encodes the definition in its flat spec shape.
func (d TierDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Spec())
}

// UnmarshalJSON decodes a flat spec and rejects unknown requirement kinds.
func (d *TierDefinition) UnmarshalJSON(data []byte) error {
	var s TierSpec
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	def, err := s.Definition()
	if err != nil {
		return err
	}
	*d = def
	return nil
}
