package model

// RecalculatedMetrics is the per-node output of a recalculation pass.
type RecalculatedMetrics struct {
	NodeID       string        `json:"node_id"`
	ComponentID  string        `json:"component_id"`
	Metrics      []MetricValue `json:"metrics"`
	OverallScore float64       `json:"overall_score"`

	// Placeholder is set when the node's component did not resolve.
	Placeholder bool `json:"placeholder,omitempty"`
}

// PropagationHop records a node's breadth-first distance from the changed node.
// DelayMs is advisory animation pacing only.
type PropagationHop struct {
	NodeID   string `json:"node_id"`
	HopIndex int    `json:"hop_index"`
	DelayMs  int64  `json:"delay_ms"`
}

// RecalculationResult is the outcome of one recalculation pass.
type RecalculationResult struct {
	Metrics         map[string]RecalculatedMetrics `json:"metrics"`
	PropagationHops []PropagationHop               `json:"propagation_hops"`
	TotalDelayMs    int64                          `json:"total_delay_ms"`
}

// CategoryScore is the dashboard aggregate for one metric category.
type CategoryScore struct {
	Category    MetricCategory `json:"category"`
	Name        string         `json:"name"`
	Score       float64        `json:"score"`
	MetricCount int            `json:"metric_count"`
	HasData     bool           `json:"has_data"`
}

// HeatmapStatus is a three-level health classification.
// The zero value stands for an unknown status and is treated as healthy.
type HeatmapStatus string

const (
	StatusHealthy    HeatmapStatus = "healthy"
	StatusWarning    HeatmapStatus = "warning"
	StatusBottleneck HeatmapStatus = "bottleneck"
)

// Severity orders statuses: bottleneck > warning > healthy.
// Unknown statuses rank as healthy.
func (s HeatmapStatus) Severity() int {
	switch s {
	case StatusBottleneck:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// CompatibilityResult is the outcome of a pairwise compatibility lookup.
type CompatibilityResult struct {
	IsCompatible bool   `json:"is_compatible"`
	Reason       string `json:"reason"`
}

// TierRef identifies a tier by its position in the definition list.
type TierRef struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// RequirementGap describes one unmet requirement of the next tier.
type RequirementGap struct {
	Kind        RequirementKind     `json:"kind"`
	Description string              `json:"description"`
	Current     float64             `json:"current"`
	Target      float64             `json:"target"`
	Missing     []ComponentCategory `json:"missing,omitempty"`
}

// TierResult reports the highest satisfied tier and the gaps to the next one.
// Current is nil when no tier is satisfied.
type TierResult struct {
	Current   *TierRef         `json:"current"`
	Next      *TierRef         `json:"next,omitempty"`
	IsMaxTier bool             `json:"is_max_tier"`
	Gaps      []RequirementGap `json:"gaps"`
}
