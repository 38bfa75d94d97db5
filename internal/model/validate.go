package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateComponent checks a Component for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the component is valid.
func ValidateComponent(c *Component) error {
	var ve ValidationError
	validateComponent(&ve, "", c)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateComponent(ve *ValidationError, prefix string, c *Component) {
	if strings.TrimSpace(c.ID) == "" {
		ve.add(prefix+"id", "is required")
	}
	if !c.Category.IsValid() {
		ve.add(prefix+"category", "invalid value %q", c.Category)
	}
	validateMetrics(ve, prefix+"metrics", c.Metrics)

	if len(c.Variants) == 0 {
		ve.add(prefix+"variants", "at least one variant is required")
	}
	seen := make(map[string]bool, len(c.Variants))
	for i := range c.Variants {
		v := &c.Variants[i]
		field := fmt.Sprintf("%svariants[%d]", prefix, i)
		if strings.TrimSpace(v.ID) == "" {
			ve.add(field+".id", "is required")
		} else if seen[v.ID] {
			ve.add(field+".id", "duplicate variant id %q", v.ID)
		}
		seen[v.ID] = true
		validateMetrics(ve, field+".metrics", v.Metrics)
	}

	for cat := range c.Compatibility {
		if !cat.IsValid() {
			ve.add(prefix+"compatibility", "invalid category %q", cat)
		}
	}
}

func validateMetrics(ve *ValidationError, field string, metrics []MetricValue) {
	seen := make(map[string]bool, len(metrics))
	for i, m := range metrics {
		f := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(m.ID) == "" {
			ve.add(f+".id", "is required")
		} else if seen[m.ID] {
			ve.add(f+".id", "duplicate metric id %q", m.ID)
		}
		seen[m.ID] = true
		if !m.Value.IsValid() {
			ve.add(f+".value", "invalid rating %q", m.Value)
		}
		if m.NumericValue < MinNumericValue || m.NumericValue > MaxNumericValue {
			ve.add(f+".numeric_value", "must be between %d and %d, got %d", MinNumericValue, MaxNumericValue, m.NumericValue)
		}
		if !m.Category.IsValid() {
			ve.add(f+".category", "invalid value %q", m.Category)
		}
	}
}

// ValidateCatalog checks every component and tier of a catalog.
// Schema version compatibility is checked by the library loader, not here.
func ValidateCatalog(c *Catalog) error {
	var ve ValidationError

	ids := make(map[string]bool, len(c.Components))
	for i := range c.Components {
		comp := &c.Components[i]
		prefix := fmt.Sprintf("components[%d].", i)
		if comp.ID != "" && ids[comp.ID] {
			ve.add(prefix+"id", "duplicate component id %q", comp.ID)
		}
		ids[comp.ID] = true
		validateComponent(&ve, prefix, comp)
	}

	tierIDs := make(map[string]bool, len(c.Tiers))
	for i, t := range c.Tiers {
		prefix := fmt.Sprintf("tiers[%d]", i)
		if strings.TrimSpace(t.ID) == "" {
			ve.add(prefix+".id", "is required")
		} else if tierIDs[t.ID] {
			ve.add(prefix+".id", "duplicate tier id %q", t.ID)
		}
		tierIDs[t.ID] = true
		if strings.TrimSpace(t.Name) == "" {
			ve.add(prefix+".name", "is required")
		}
		for j, rs := range t.Requirements {
			if _, err := rs.Decode(); err != nil {
				ve.add(fmt.Sprintf("%s.requirements[%d]", prefix, j), "%v", err)
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateArchitecture checks node and edge identity constraints.
func ValidateArchitecture(a *Architecture) error {
	var ve ValidationError

	nodes := make(map[string]bool, len(a.Nodes))
	for i, n := range a.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if strings.TrimSpace(n.ID) == "" {
			ve.add(field+".id", "is required")
		} else if nodes[n.ID] {
			ve.add(field+".id", "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = true
		if strings.TrimSpace(n.ComponentID) == "" {
			ve.add(field+".component_id", "is required")
		}
		if n.Category != "" && !n.Category.IsValid() {
			ve.add(field+".category", "invalid value %q", n.Category)
		}
	}

	edges := make(map[string]bool, len(a.Edges))
	for i, e := range a.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		if strings.TrimSpace(e.ID) == "" {
			ve.add(field+".id", "is required")
		} else if edges[e.ID] {
			ve.add(field+".id", "duplicate edge id %q", e.ID)
		}
		edges[e.ID] = true
		if !nodes[e.SourceNodeID] {
			ve.add(field+".source_node_id", "unknown node %q", e.SourceNodeID)
		}
		if !nodes[e.TargetNodeID] {
			ve.add(field+".target_node_id", "unknown node %q", e.TargetNodeID)
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
