package model

// Catalog is the document a component library is loaded from.
type Catalog struct {
	SchemaVersion string      `json:"schema_version" toml:"schema_version" yaml:"schema_version"`
	Components    []Component `json:"components" toml:"components" yaml:"components"`
	Tiers         []TierSpec  `json:"tiers" toml:"tiers" yaml:"tiers"`
}
