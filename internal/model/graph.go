package model

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a placed component instance.
// A node whose ComponentID does not resolve against the library is a placeholder.
type Node struct {
	ID              string            `json:"id" yaml:"id"`
	ComponentID     string            `json:"component_id" yaml:"component_id"`
	ActiveVariantID string            `json:"active_variant_id,omitempty" yaml:"active_variant_id,omitempty"`
	Category        ComponentCategory `json:"category,omitempty" yaml:"category,omitempty"`
	Position        Position          `json:"position" yaml:"position"`
}

// Edge connects two nodes. It is stored directed and traversed undirected.
type Edge struct {
	ID           string `json:"id" yaml:"id"`
	SourceNodeID string `json:"source_node_id" yaml:"source_node_id"`
	TargetNodeID string `json:"target_node_id" yaml:"target_node_id"`
}

// Architecture is a snapshot of the canvas graph.
type Architecture struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NodeIndex maps node ids to nodes. Later duplicates win.
func NodeIndex(nodes []Node) map[string]*Node {
	idx := make(map[string]*Node, len(nodes))
	for i := range nodes {
		idx[nodes[i].ID] = &nodes[i]
	}
	return idx
}
