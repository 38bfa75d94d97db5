package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentCategory_IsValid(t *testing.T) {
	for _, c := range ComponentCategories {
		assert.True(t, c.IsValid(), "category %q", c)
	}
	assert.False(t, ComponentCategory("").IsValid())
	assert.False(t, ComponentCategory("mainframe").IsValid())
}

func TestRating_IsValid(t *testing.T) {
	for _, tc := range []struct {
		rating Rating
		want   bool
	}{
		{RatingLow, true},
		{RatingMedium, true},
		{RatingHigh, true},
		{Rating(""), false},
		{Rating("very-high"), false},
	} {
		assert.Equal(t, tc.want, tc.rating.IsValid(), "Rating(%q)", tc.rating)
	}
}

func TestMetricCategories_Fixed(t *testing.T) {
	require.Len(t, MetricCategories, 7)
	assert.Equal(t, MetricPerformance, MetricCategories[0].ID)
	assert.Equal(t, MetricObservability, MetricCategories[6].ID)
	assert.True(t, MetricCost.IsValid())
	assert.False(t, MetricCategory("latency").IsValid())
}

func TestComponent_Variant(t *testing.T) {
	c := validComponent()

	v, ok := c.Variant("replicated")
	require.True(t, ok)
	assert.Equal(t, "Primary + replicas", v.Name)

	_, ok = c.Variant("sharded")
	assert.False(t, ok)

	assert.Equal(t, "single", c.DefaultVariantID())
	assert.Equal(t, "", (&Component{}).DefaultVariantID())
}

func TestHeatmapStatus_Severity(t *testing.T) {
	assert.Greater(t, StatusBottleneck.Severity(), StatusWarning.Severity())
	assert.Greater(t, StatusWarning.Severity(), StatusHealthy.Severity())
	assert.Equal(t, StatusHealthy.Severity(), HeatmapStatus("").Severity())
}

func TestNodeIndex(t *testing.T) {
	nodes := []Node{{ID: "a", ComponentID: "x"}, {ID: "b", ComponentID: "y"}}
	idx := NodeIndex(nodes)
	require.Len(t, idx, 2)
	assert.Equal(t, "y", idx["b"].ComponentID)
}

func TestRequirementSpec_Decode(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec RequirementSpec
		want Requirement
	}{
		{"MinComponents", RequirementSpec{Kind: RequireMinComponents, Count: 5}, MinComponents{Count: 5}},
		{"MinCategoryScore", RequirementSpec{Kind: RequireMinCategoryScore, Category: MetricSecurity, Score: 7}, MinCategoryScore{Category: MetricSecurity, Score: 7}},
		{"RequiredCategories", RequirementSpec{Kind: RequireCategories, Categories: []ComponentCategory{CategoryCaching}}, RequiredCategories{Categories: []ComponentCategory{CategoryCaching}}},
		{"MinDistinctCategories", RequirementSpec{Kind: RequireMinDistinctCategories, Count: 3}, MinDistinctCategories{Count: 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.spec.Decode()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.spec.Kind, got.Kind())
			assert.Equal(t, tc.spec, SpecOf(got))
		})
	}
}

func TestRequirementSpec_DecodeRejects(t *testing.T) {
	_, err := RequirementSpec{Kind: "min_vibes"}.Decode()
	assert.Error(t, err)

	_, err = RequirementSpec{Kind: RequireMinCategoryScore, Category: "vibes"}.Decode()
	assert.Error(t, err)

	_, err = RequirementSpec{Kind: RequireCategories, Categories: []ComponentCategory{"nope"}}.Decode()
	assert.Error(t, err)
}

func TestTierDefinition_JSON(t *testing.T) {
	def := TierDefinition{
		ID:   "foundation",
		Name: "Foundation",
		Requirements: []Requirement{
			MinComponents{Count: 3},
			MinDistinctCategories{Count: 2},
		},
	}

	data, err := json.Marshal(def)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "foundation",
		"name": "Foundation",
		"requirements": [
			{"kind": "min_components", "count": 3},
			{"kind": "min_distinct_categories", "count": 2}
		]
	}`, string(data))

	var decoded TierDefinition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, def, decoded)

	err = json.Unmarshal([]byte(`{"id":"x","name":"X","requirements":[{"kind":"bogus"}]}`), &decoded)
	assert.Error(t, err)
}
