package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
fixture road graph:

	a ---2--- b ---3--- c
	           \
	            4
	             \
	              d        e (no edges, dropped at build)
*/
func buildFixtureGraph(t *testing.T) *Graph {
	nodes := []RawNode{
		NewRawNode("a", 0.0, 0.0),
		NewRawNode("b", 0.0, 0.02),
		NewRawNode("c", 0.0, 0.05),
		NewRawNode("d", 0.04, 0.02),
		NewRawNode("e", 1.0, 1.0),
	}
	adjacency := map[string][]RawArc{
		"a": {NewRawArc("b", 2)},
		"b": {NewRawArc("a", 2), NewRawArc("c", 3), NewRawArc("d", 4)},
		"c": {NewRawArc("b", 3)},
		"d": {NewRawArc("b", 4)},
	}
	g, err := BuildGraph(nodes, adjacency)
	require.NoError(t, err)
	return g
}

func TestBuildGraphRetainsOnlyRoutableNodes(t *testing.T) {
	g := buildFixtureGraph(t)

	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 6, g.NumberOfEdges())

	assert.True(t, g.HasVertex("a"))
	assert.False(t, g.HasVertex("e"), "node without any edge must be dropped")
	assert.False(t, g.IsRoutable("e"))
}

func TestBuildGraphReverseAdjacency(t *testing.T) {
	g := buildFixtureGraph(t)

	assert.Equal(t, 3, g.OutDegree("b"))
	assert.Equal(t, 3, g.InDegree("b"))
	assert.Equal(t, 1, g.InDegree("a"))

	tails := make([]string, 0)
	g.ForInEdgesOf("b", func(e InEdge) {
		tails = append(tails, e.GetTail())
	})
	assert.ElementsMatch(t, []string{"a", "c", "d"}, tails)
}

func TestBuildGraphCanonicalIDs(t *testing.T) {
	// json numbers decode as float64: node id 25.0 and edge references "25"
	// or int 25 must all name the same vertex.
	nodes := []RawNode{
		NewRawNode(25.0, 0.0, 0.0),
		NewRawNode("26", 0.0, 0.01),
	}
	adjacency := map[string][]RawArc{
		"25": {NewRawArc(26, 1.5)},
		"26": {NewRawArc(25.0, 1.5)},
	}
	g, err := BuildGraph(nodes, adjacency)
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumberOfVertices())
	assert.True(t, g.HasVertex("25"))
	assert.True(t, g.HasVertex("26"))

	w, ok := g.EdgeWeight("25", "26")
	assert.True(t, ok)
	assert.Equal(t, 1.5, w)
}

func TestBuildGraphRejectsMalformedInput(t *testing.T) {
	validNodes := []RawNode{NewRawNode("a", 0, 0), NewRawNode("b", 0, 1)}

	tests := []struct {
		name      string
		nodes     []RawNode
		adjacency map[string][]RawArc
	}{
		{
			name:      "empty nodes",
			nodes:     nil,
			adjacency: map[string][]RawArc{"a": {NewRawArc("b", 1)}},
		},
		{
			name:      "empty adjacency",
			nodes:     validNodes,
			adjacency: nil,
		},
		{
			name:      "negative weight",
			nodes:     validNodes,
			adjacency: map[string][]RawArc{"a": {NewRawArc("b", -1)}},
		},
		{
			name:      "empty destination id",
			nodes:     validNodes,
			adjacency: map[string][]RawArc{"a": {NewRawArc("  ", 1)}},
		},
		{
			name:      "latitude out of range",
			nodes:     []RawNode{NewRawNode("a", 91, 0), NewRawNode("b", 0, 1)},
			adjacency: map[string][]RawArc{"a": {NewRawArc("b", 1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildGraph(tt.nodes, tt.adjacency)
			assert.Error(t, err)
		})
	}
}

func TestGraphUnlocatableEndpointStaysRoutable(t *testing.T) {
	// "ghost" occurs as an edge destination but has no node record: it is
	// searchable but has no coordinate.
	nodes := []RawNode{NewRawNode("a", 0, 0)}
	adjacency := map[string][]RawArc{
		"a": {NewRawArc("ghost", 1)},
	}
	g, err := BuildGraph(nodes, adjacency)
	require.NoError(t, err)

	assert.True(t, g.IsRoutable("ghost"))
	assert.False(t, g.HasVertex("ghost"))

	_, _, ok := g.GetVertexCoordinates("ghost")
	assert.False(t, ok)
	lat, lon, ok := g.GetVertexCoordinates("a")
	assert.True(t, ok)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lon)
}

func TestGraphEdgeWeightParallelEdges(t *testing.T) {
	nodes := []RawNode{NewRawNode("a", 0, 0), NewRawNode("b", 0, 1)}
	adjacency := map[string][]RawArc{
		"a": {NewRawArc("b", 5), NewRawArc("b", 2), NewRawArc("b", 9)},
	}
	g, err := BuildGraph(nodes, adjacency)
	require.NoError(t, err)

	w, ok := g.EdgeWeight("a", "b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, w, "parallel edges resolve to the minimum weight")

	_, ok = g.EdgeWeight("b", "a")
	assert.False(t, ok)
}

func TestGraphIterationOrderIsStable(t *testing.T) {
	g := buildFixtureGraph(t)

	first := make([]string, 0)
	g.ForRoutableIDs(func(id string) { first = append(first, id) })

	for i := 0; i < 10; i++ {
		again := make([]string, 0)
		g.ForRoutableIDs(func(id string) { again = append(again, id) })
		assert.Equal(t, first, again)
	}
}
