package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// HopDelayMs is the advisory animation delay added per hop.
const HopDelayMs int64 = 100

// Adjacency maps a node id to its neighbor ids in edge order.
// Every edge contributes both directions.
type Adjacency map[string][]string

// BuildAdjacency builds the undirected adjacency map of edges.
func BuildAdjacency(edges []model.Edge) Adjacency {
	adj := make(Adjacency, len(edges))
	for _, e := range edges {
		adj[e.SourceNodeID] = append(adj[e.SourceNodeID], e.TargetNodeID)
		adj[e.TargetNodeID] = append(adj[e.TargetNodeID], e.SourceNodeID)
	}
	return adj
}

// Neighbors returns the distinct neighbors of id in first-seen order, excluding id itself.
func (a Adjacency) Neighbors(id string) []string {
	raw := a[id]
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, n := range raw {
		if n == id || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// PropagationHops walks edges breadth-first from changedNodeID and returns
// every reachable node with its hop distance, in discovery order.
// changedNodeID is not checked against any node list.
func PropagationHops(changedNodeID string, edges []model.Edge) []model.PropagationHop {
	return BuildAdjacency(edges).hops(changedNodeID)
}

func (a Adjacency) hops(start string) []model.PropagationHop {
	visited := map[string]bool{start: true}
	out := []model.PropagationHop{{NodeID: start}}

	for i := 0; i < len(out); i++ {
		cur := out[i]
		for _, next := range a[cur.NodeID] {
			if visited[next] {
				continue
			}
			visited[next] = true
			hop := cur.HopIndex + 1
			out = append(out, model.PropagationHop{
				NodeID:   next,
				HopIndex: hop,
				DelayMs:  int64(hop) * HopDelayMs,
			})
		}
	}
	return out
}

// AffectedNodes returns the node ids reached by PropagationHops, in the same order.
func AffectedNodes(changedNodeID string, edges []model.Edge) []string {
	hops := PropagationHops(changedNodeID, edges)
	ids := make([]string, len(hops))
	for i, h := range hops {
		ids[i] = h.NodeID
	}
	return ids
}
