package model

// ComponentCategory classifies a library component.
type ComponentCategory string

const (
	CategoryCompute       ComponentCategory = "compute"
	CategoryDataStorage   ComponentCategory = "data-storage"
	CategoryCaching       ComponentCategory = "caching"
	CategoryMessaging     ComponentCategory = "messaging"
	CategoryNetworking    ComponentCategory = "networking"
	CategorySecurity      ComponentCategory = "security"
	CategoryObservability ComponentCategory = "observability"
	CategoryClient        ComponentCategory = "client"
)

// ComponentCategories lists every component category in display order.
var ComponentCategories = []ComponentCategory{
	CategoryCompute,
	CategoryDataStorage,
	CategoryCaching,
	CategoryMessaging,
	CategoryNetworking,
	CategorySecurity,
	CategoryObservability,
	CategoryClient,
}

// String returns the string representation of the category.
func (c ComponentCategory) String() string {
	return string(c)
}

// IsValid checks whether the category is a known value.
func (c ComponentCategory) IsValid() bool {
	switch c {
	case CategoryCompute, CategoryDataStorage, CategoryCaching, CategoryMessaging,
		CategoryNetworking, CategorySecurity, CategoryObservability, CategoryClient:
		return true
	}
	return false
}

// Rating is the directional band of a metric.
type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// IsValid checks whether the rating is a known value.
func (r Rating) IsValid() bool {
	switch r {
	case RatingLow, RatingMedium, RatingHigh:
		return true
	}
	return false
}

// MetricCategory is one of the seven fixed quality dimensions metrics are scored in.
type MetricCategory string

const (
	MetricPerformance     MetricCategory = "performance"
	MetricScalability     MetricCategory = "scalability"
	MetricReliability     MetricCategory = "reliability"
	MetricSecurity        MetricCategory = "security"
	MetricCost            MetricCategory = "cost"
	MetricMaintainability MetricCategory = "maintainability"
	MetricObservability   MetricCategory = "observability"
)

// MetricCategoryDef names a metric category for display.
type MetricCategoryDef struct {
	ID   MetricCategory `json:"id"`
	Name string         `json:"name"`
}

// MetricCategories is the fixed category definition order used by the dashboard.
var MetricCategories = []MetricCategoryDef{
	{ID: MetricPerformance, Name: "Performance"},
	{ID: MetricScalability, Name: "Scalability"},
	{ID: MetricReliability, Name: "Reliability"},
	{ID: MetricSecurity, Name: "Security"},
	{ID: MetricCost, Name: "Cost Efficiency"},
	{ID: MetricMaintainability, Name: "Maintainability"},
	{ID: MetricObservability, Name: "Observability"},
}

// IsValid checks whether the metric category is one of the fixed categories.
func (c MetricCategory) IsValid() bool {
	for _, def := range MetricCategories {
		if def.ID == c {
			return true
		}
	}
	return false
}

// Numeric bounds for MetricValue.NumericValue.
const (
	MinNumericValue = 1
	MaxNumericValue = 10
)

// MetricValue is a single scored attribute of a component.
// Value and NumericValue are trusted as given; neither is derived from the other.
type MetricValue struct {
	ID           string         `json:"id" toml:"id" yaml:"id"`
	Name         string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Value        Rating         `json:"value" toml:"value" yaml:"value"`
	NumericValue int            `json:"numeric_value" toml:"numeric_value" yaml:"numeric_value"`
	Category     MetricCategory `json:"category" toml:"category" yaml:"category"`
}

// ConfigurationVariant is a named metric overlay on a component.
type ConfigurationVariant struct {
	ID          string        `json:"id" toml:"id" yaml:"id"`
	Name        string        `json:"name" toml:"name" yaml:"name"`
	Description string        `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Metrics     []MetricValue `json:"metrics" toml:"metrics" yaml:"metrics"`
}

// Component is an immutable catalog entry.
type Component struct {
	ID          string                 `json:"id" toml:"id" yaml:"id"`
	Name        string                 `json:"name" toml:"name" yaml:"name"`
	Description string                 `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Category    ComponentCategory      `json:"category" toml:"category" yaml:"category"`
	Metrics     []MetricValue          `json:"metrics" toml:"metrics" yaml:"metrics"`
	Variants    []ConfigurationVariant `json:"variants" toml:"variants" yaml:"variants"`

	// Compatibility maps a target component category to a warning reason.
	Compatibility map[ComponentCategory]string `json:"compatibility,omitempty" toml:"compatibility" yaml:"compatibility,omitempty"`
}

// Variant returns the configuration variant with the given id.
func (c *Component) Variant(id string) (*ConfigurationVariant, bool) {
	for i := range c.Variants {
		if c.Variants[i].ID == id {
			return &c.Variants[i], true
		}
	}
	return nil, false
}

// DefaultVariantID returns the id of the first declared variant, or "" if there is none.
func (c *Component) DefaultVariantID() string {
	if len(c.Variants) == 0 {
		return ""
	}
	return c.Variants[0].ID
}
