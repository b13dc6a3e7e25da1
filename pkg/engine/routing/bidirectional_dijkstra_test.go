package routing

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/lintang-b-s/wayfinder/pkg"
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

/*
fixture road graph, all edges bidirectional unless noted:

	a --1-- b --1-- c
	|               |
	4               1
	|               |
	d ------6------ e

	x --2-- y          (disconnected component)
*/
func buildTestEngine(t *testing.T) *RouteEngine {
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("a", 0.00, 0.00),
		datastructure.NewRawNode("b", 0.00, 0.01),
		datastructure.NewRawNode("c", 0.00, 0.02),
		datastructure.NewRawNode("d", 0.02, 0.00),
		datastructure.NewRawNode("e", 0.02, 0.02),
		datastructure.NewRawNode("x", 1.00, 1.00),
		datastructure.NewRawNode("y", 1.00, 1.01),
	}
	adjacency := map[string][]datastructure.RawArc{
		"a": {datastructure.NewRawArc("b", 1), datastructure.NewRawArc("d", 4)},
		"b": {datastructure.NewRawArc("a", 1), datastructure.NewRawArc("c", 1)},
		"c": {datastructure.NewRawArc("b", 1), datastructure.NewRawArc("e", 1)},
		"d": {datastructure.NewRawArc("a", 4), datastructure.NewRawArc("e", 6)},
		"e": {datastructure.NewRawArc("c", 1), datastructure.NewRawArc("d", 6)},
		"x": {datastructure.NewRawArc("y", 2)},
		"y": {datastructure.NewRawArc("x", 2)},
	}
	graph, err := datastructure.BuildGraph(nodes, adjacency)
	require.NoError(t, err)
	return NewRouteEngine(graph, zap.NewNop())
}

func TestBiDijkstraShortestPath(t *testing.T) {
	rt := buildTestEngine(t)

	tests := []struct {
		name     string
		from     string
		to       string
		wantPath []string
		wantDist float64
	}{
		{"adjacent", "a", "b", []string{"a", "b"}, 1},
		{"multi hop beats direct edge", "a", "e", []string{"a", "b", "c", "e"}, 3},
		{"through the whole chain", "d", "c", []string{"d", "a", "b", "c"}, 6},
		{"reverse direction", "e", "a", []string{"e", "c", "b", "a"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rt.ShortestPathBiDijkstra(context.Background(), tt.from, tt.to)
			require.NoError(t, err)

			assert.True(t, res.Found())
			assert.Equal(t, tt.wantPath, res.GetPath())
			assert.InEpsilon(t, tt.wantDist, res.GetDistance(), pkg.DISTANCE_SUM_REL_TOLERANCE)
		})
	}
}

func TestBiDijkstraSameNode(t *testing.T) {
	rt := buildTestEngine(t)

	res, err := rt.ShortestPathBiDijkstra(context.Background(), "b", "b")
	require.NoError(t, err)

	assert.True(t, res.Found())
	assert.Equal(t, []string{"b"}, res.GetPath())
	assert.Equal(t, 0.0, res.GetDistance())
	assert.Equal(t, 0, res.GetSearchSteps(), "same-node query must not expand any frontier")
}

func TestBiDijkstraUnreachable(t *testing.T) {
	rt := buildTestEngine(t)

	tests := []struct {
		name string
		from string
		to   string
	}{
		{"disconnected component", "a", "x"},
		{"disconnected reverse", "y", "e"},
		{"unknown source", "nope", "a"},
		{"unknown target", "a", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rt.ShortestPathBiDijkstra(context.Background(), tt.from, tt.to)
			require.NoError(t, err)

			assert.Equal(t, StatusUnreachable, res.GetStatus())
			assert.Empty(t, res.GetPath(), "a failed search must never return a partial path")
			assert.False(t, res.Found())
		})
	}
}

func TestBiDijkstraOneWayEdges(t *testing.T) {
	// p -> q -> r one way; the only way back from r is the detour r -> s -> p.
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("p", 0, 0),
		datastructure.NewRawNode("q", 0, 0.01),
		datastructure.NewRawNode("r", 0, 0.02),
		datastructure.NewRawNode("s", 0.01, 0.01),
	}
	adjacency := map[string][]datastructure.RawArc{
		"p": {datastructure.NewRawArc("q", 1)},
		"q": {datastructure.NewRawArc("r", 1)},
		"r": {datastructure.NewRawArc("s", 5)},
		"s": {datastructure.NewRawArc("p", 5)},
	}
	graph, err := datastructure.BuildGraph(nodes, adjacency)
	require.NoError(t, err)
	rt := NewRouteEngine(graph, zap.NewNop())

	res, err := rt.ShortestPathBiDijkstra(context.Background(), "r", "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "s", "p"}, res.GetPath())
	assert.InEpsilon(t, 10.0, res.GetDistance(), pkg.DISTANCE_SUM_REL_TOLERANCE)
}

func TestBiDijkstraCancellation(t *testing.T) {
	rt := buildTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.ShortestPathBiDijkstra(ctx, "a", "e")
	assert.Error(t, err)
}

func TestBiDijkstraDeterministic(t *testing.T) {
	rt := buildTestEngine(t)

	first, err := rt.ShortestPathBiDijkstra(context.Background(), "d", "c")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := rt.ShortestPathBiDijkstra(context.Background(), "d", "c")
		require.NoError(t, err)
		assert.Equal(t, first.GetPath(), again.GetPath())
		assert.Equal(t, first.GetDistance(), again.GetDistance())
	}
}

func TestBiDijkstraPathEdgesAreReal(t *testing.T) {
	rt := buildTestEngine(t)
	graph := rt.GetGraph()

	res, err := rt.ShortestPathBiDijkstra(context.Background(), "d", "e")
	require.NoError(t, err)
	require.True(t, res.Found())

	path := res.GetPath()
	sum := 0.0
	for i := 0; i+1 < len(path); i++ {
		w, ok := graph.EdgeWeight(path[i], path[i+1])
		require.True(t, ok, "consecutive path nodes %s -> %s must share a directed edge", path[i], path[i+1])
		sum += w
	}
	assert.InEpsilon(t, res.GetDistance(), sum, pkg.DISTANCE_SUM_REL_TOLERANCE)
}

// grid cross-check: the bidirectional search must agree with the reference
// unidirectional dijkstra on every pair of a 5x5 grid with uneven weights.
func TestBiDijkstraMatchesDijkstraOnGrid(t *testing.T) {
	const n = 5
	id := func(r, c int) string { return fmt.Sprintf("n%d_%d", r, c) }

	nodes := make([]datastructure.RawNode, 0, n*n)
	adjacency := make(map[string][]datastructure.RawArc)
	addEdge := func(u, v string, w float64) {
		adjacency[u] = append(adjacency[u], datastructure.NewRawArc(v, w))
		adjacency[v] = append(adjacency[v], datastructure.NewRawArc(u, w))
	}

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			nodes = append(nodes, datastructure.NewRawNode(id(r, c), float64(r)*0.01, float64(c)*0.01))
			// weight pattern varies per cell so many distinct shortest paths exist
			if c+1 < n {
				addEdge(id(r, c), id(r, c+1), 1+float64((r*7+c*3)%5))
			}
			if r+1 < n {
				addEdge(id(r, c), id(r+1, c), 1+float64((r*3+c*7)%4))
			}
		}
	}

	graph, err := datastructure.BuildGraph(nodes, adjacency)
	require.NoError(t, err)
	rt := NewRouteEngine(graph, zap.NewNop())

	ctx := context.Background()
	for r1 := 0; r1 < n; r1++ {
		for c1 := 0; c1 < n; c1++ {
			for r2 := 0; r2 < n; r2++ {
				for c2 := 0; c2 < n; c2++ {
					from, to := id(r1, c1), id(r2, c2)

					bi, err := rt.ShortestPathBiDijkstra(ctx, from, to)
					require.NoError(t, err)
					uni, err := rt.ShortestPathDijkstra(ctx, from, to)
					require.NoError(t, err)

					require.True(t, bi.Found())
					require.True(t, uni.Found())
					require.InDelta(t, uni.GetDistance(), bi.GetDistance(),
						math.Max(1e-12, uni.GetDistance()*pkg.DISTANCE_SUM_REL_TOLERANCE),
						"distance mismatch for %s -> %s", from, to)

					path := bi.GetPath()
					require.Equal(t, from, path[0])
					require.Equal(t, to, path[len(path)-1])
				}
			}
		}
	}
}
