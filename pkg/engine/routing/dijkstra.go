package routing

import (
	"context"

	"github.com/lintang-b-s/wayfinder/pkg"
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/util"
)

// ShortestPathDijkstra plain unidirectional dijkstra. kept as the reference
// computation for verifying the bidirectional search, weights are exact
// arithmetic so both must agree to the last bit.
func (rt *RouteEngine) ShortestPathDijkstra(ctx context.Context, from, to string) (ShortestPathResult, error) {
	graph := rt.graph

	if !graph.IsRoutable(from) || !graph.IsRoutable(to) {
		return ShortestPathResult{
			path:     []string{},
			distance: pkg.INF_WEIGHT,
			status:   StatusUnreachable,
		}, nil
	}

	if from == to {
		return ShortestPathResult{
			path:     []string{from},
			distance: 0,
			status:   StatusFound,
		}, nil
	}

	dist := make(map[string]float64, graph.NumberOfVertices())
	graph.ForRoutableIDs(func(id string) {
		dist[id] = pkg.INF_WEIGHT
	})
	cameFrom := make(map[string]string)
	visited := make(map[string]struct{})

	pq := datastructure.NewBinaryHeap[string]()
	dist[from] = 0
	pq.Insert(0, from)

	steps := 0
	for !pq.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			return ShortestPathResult{}, util.WrapErrorf(ctx.Err(), util.ErrInternalServerError,
				"dijkstra search %s -> %s canceled", from, to)
		}

		node, err := pq.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		if u == to {
			break
		}
		visited[u] = struct{}{}
		steps++

		graph.ForOutEdgesOf(u, func(e datastructure.OutEdge) {
			v := e.GetHead()
			if _, done := visited[v]; done {
				return
			}
			newCost := dist[u] + e.GetWeight()
			if newCost < dist[v] {
				dist[v] = newCost
				cameFrom[v] = u
				if pq.Contains(v) {
					pq.DecreaseKey(newCost, v)
				} else {
					pq.Insert(newCost, v)
				}
			}
		})
	}

	if dist[to] >= pkg.INF_WEIGHT {
		return ShortestPathResult{
			path:        []string{},
			distance:    pkg.INF_WEIGHT,
			status:      StatusUnreachable,
			searchSteps: steps,
		}, nil
	}

	path := make([]string, 0)
	for cur := to; cur != ""; cur = cameFrom[cur] {
		path = append(path, cur)
	}
	path = util.ReverseG(path)

	return ShortestPathResult{
		path:        path,
		distance:    dist[to],
		meetingNode: to,
		status:      StatusFound,
		searchSteps: steps,
	}, nil
}
