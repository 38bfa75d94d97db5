package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// CheckCompatibility reports whether connecting source to target is flagged.
// The check is one-directional: only source's compatibility map is consulted.
// A nil endpoint is compatible.
func CheckCompatibility(source, target *model.Component) model.CompatibilityResult {
	if source == nil || target == nil {
		return model.CompatibilityResult{IsCompatible: true}
	}
	if reason, ok := source.Compatibility[target.Category]; ok {
		return model.CompatibilityResult{IsCompatible: false, Reason: reason}
	}
	return model.CompatibilityResult{IsCompatible: true}
}

// EdgeWarning is an incompatible edge found by CheckArchitecture.
type EdgeWarning struct {
	EdgeID       string `json:"edge_id"`
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
	Reason       string `json:"reason"`
}

// CheckEdge checks an edge in both directions. The source-to-target reason
// wins when both directions are flagged.
func CheckEdge(lib ComponentLookup, nodes map[string]*model.Node, edge model.Edge) model.CompatibilityResult {
	source := resolveNode(lib, nodes, edge.SourceNodeID)
	target := resolveNode(lib, nodes, edge.TargetNodeID)

	if res := CheckCompatibility(source, target); !res.IsCompatible {
		return res
	}
	return CheckCompatibility(target, source)
}

// CheckArchitecture returns a warning for every incompatible edge, in edge order.
// Parallel edges are checked independently.
func CheckArchitecture(lib ComponentLookup, nodes []model.Node, edges []model.Edge) []EdgeWarning {
	idx := model.NodeIndex(nodes)
	var warnings []EdgeWarning
	for _, e := range edges {
		res := CheckEdge(lib, idx, e)
		if res.IsCompatible {
			continue
		}
		warnings = append(warnings, EdgeWarning{
			EdgeID:       e.ID,
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			Reason:       res.Reason,
		})
	}
	return warnings
}

func resolveNode(lib ComponentLookup, nodes map[string]*model.Node, nodeID string) *model.Component {
	n, ok := nodes[nodeID]
	if !ok {
		return nil
	}
	c, ok := lib.GetComponent(n.ComponentID)
	if !ok {
		return nil
	}
	return c
}
