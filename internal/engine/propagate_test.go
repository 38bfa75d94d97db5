package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfredjeanlab/archscore/internal/model"
)

func hopIndexes(hops []model.PropagationHop) []int {
	out := make([]int, len(hops))
	for i, h := range hops {
		out[i] = h.HopIndex
	}
	return out
}

func TestAffectedNodes_NoEdges(t *testing.T) {
	assert.Equal(t, []string{"A"}, AffectedNodes("A", nil))
	assert.Equal(t, []model.PropagationHop{{NodeID: "A"}}, PropagationHops("A", []model.Edge{}))
}

func TestAffectedNodes_DiscoveryOrder(t *testing.T) {
	edges := []model.Edge{
		edge("e1", "A", "B"),
		edge("e2", "B", "C"),
		edge("e3", "B", "D"),
	}

	assert.Equal(t, []string{"A", "B", "C", "D"}, AffectedNodes("A", edges))

	hops := PropagationHops("A", edges)
	assert.Equal(t, []int{0, 1, 2, 2}, hopIndexes(hops))
	assert.Equal(t, int64(0), hops[0].DelayMs)
	assert.Equal(t, 2*HopDelayMs, hops[3].DelayMs)
}

func TestAffectedNodes_EdgeOrderDecidesSiblings(t *testing.T) {
	edges := []model.Edge{
		edge("e1", "A", "B"),
		edge("e3", "D", "B"),
		edge("e2", "B", "C"),
	}
	assert.Equal(t, []string{"A", "B", "D", "C"}, AffectedNodes("A", edges))
}

func TestAffectedNodes_TraversesReverseEdges(t *testing.T) {
	edges := []model.Edge{
		edge("e1", "B", "A"),
		edge("e2", "C", "B"),
	}
	assert.Equal(t, []string{"A", "B", "C"}, AffectedNodes("A", edges))
}

func TestAffectedNodes_Cycle(t *testing.T) {
	edges := []model.Edge{
		edge("e1", "A", "B"),
		edge("e2", "B", "C"),
		edge("e3", "C", "A"),
		edge("e4", "A", "B"),
		edge("e5", "C", "C"),
	}
	got := AffectedNodes("A", edges)
	assert.Equal(t, []string{"A", "B", "C"}, got)
	assert.Equal(t, []int{0, 1, 1}, hopIndexes(PropagationHops("A", edges)))
}

func TestAffectedNodes_ConnectedComponentOnly(t *testing.T) {
	edges := []model.Edge{
		edge("e1", "A", "B"),
		edge("e2", "X", "Y"),
		edge("e3", "B", "C"),
	}
	assert.ElementsMatch(t, []string{"A", "B", "C"}, AffectedNodes("C", edges))
	assert.Equal(t, []string{"Y", "X"}, AffectedNodes("Y", edges))
}

func TestAffectedNodes_UnknownStart(t *testing.T) {
	edges := []model.Edge{edge("e1", "A", "B")}
	assert.Equal(t, []string{"ghost"}, AffectedNodes("ghost", edges))
}

func TestAdjacency_Neighbors(t *testing.T) {
	adj := BuildAdjacency([]model.Edge{
		edge("e1", "A", "B"),
		edge("e2", "B", "A"),
		edge("e3", "C", "A"),
		edge("e4", "A", "A"),
	})
	assert.Equal(t, []string{"B", "C"}, adj.Neighbors("A"))
	assert.Nil(t, adj.Neighbors("Z"))
}
