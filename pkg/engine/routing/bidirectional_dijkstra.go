package routing

import (
	"context"

	"github.com/lintang-b-s/wayfinder/pkg"
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/util"
)

// searchState ephemeral per-query state of a bidirectional search: tentative
// distances, predecessors, visited sets and both frontiers. never shared
// across queries, discarded when the query returns.
type searchState struct {
	df map[string]float64
	db map[string]float64

	cameFromF map[string]string
	cameFromB map[string]string

	visitedF map[string]struct{}
	visitedB map[string]struct{}

	forwQ *datastructure.MinHeap[string]
	backQ *datastructure.MinHeap[string]
}

func newSearchState(graph *datastructure.Graph) *searchState {
	n := graph.NumberOfVertices()
	st := &searchState{
		df:        make(map[string]float64, n),
		db:        make(map[string]float64, n),
		cameFromF: make(map[string]string),
		cameFromB: make(map[string]string),
		visitedF:  make(map[string]struct{}),
		visitedB:  make(map[string]struct{}),
		forwQ:     datastructure.NewBinaryHeap[string](),
		backQ:     datastructure.NewBinaryHeap[string](),
	}

	// pre-populate both distance maps over the whole routable set. nodes that
	// occur only as an edge destination never key the forward adjacency, yet
	// the backward frontier must still be able to relax them.
	graph.ForRoutableIDs(func(id string) {
		st.df[id] = pkg.INF_WEIGHT
		st.db[id] = pkg.INF_WEIGHT
	})
	return st
}

/*
ShortestPathBiDijkstra. plain bidirectional dijkstra, one frontier expanding
forward along outgoing edges from the source, one expanding backward along
the reverse adjacency toward the target.

Stopping criterion follows the standard bidirectional-search optimality
argument: once (forward frontier minimum + backward frontier minimum) is no
smaller than the best candidate path seen so far, no undiscovered path can
beat the candidate. Terminating earlier may return a non-minimal path.
*/
func (rt *RouteEngine) ShortestPathBiDijkstra(ctx context.Context, from, to string) (ShortestPathResult, error) {
	graph := rt.graph

	if !graph.IsRoutable(from) || !graph.IsRoutable(to) {
		return ShortestPathResult{
			path:     []string{},
			distance: pkg.INF_WEIGHT,
			status:   StatusUnreachable,
		}, nil
	}

	// same-node query short-circuits before any search state is touched.
	if from == to {
		return ShortestPathResult{
			path:     []string{from},
			distance: 0,
			status:   StatusFound,
		}, nil
	}

	st := newSearchState(graph)

	st.df[from] = 0
	st.db[to] = 0
	st.forwQ.Insert(0, from)
	st.backQ.Insert(0, to)

	estimate := 2 * pkg.INF_WEIGHT
	meetingNode := ""
	steps := 0

	for {
		if util.StopConcurrentOperation(ctx) {
			// cancellation just abandons the in-flight search state, it owns
			// no externally visible resources.
			return ShortestPathResult{}, util.WrapErrorf(ctx.Err(), util.ErrInternalServerError,
				"shortest path search %s -> %s canceled", from, to)
		}

		if st.forwQ.IsEmpty() && st.backQ.IsEmpty() {
			break
		}
		if st.forwQ.GetMinRank()+st.backQ.GetMinRank() >= estimate {
			break
		}

		// advance whichever frontier has the smaller minimum tentative
		// distance, forward on a tie.
		if st.forwQ.GetMinRank() <= st.backQ.GetMinRank() {
			estimate, meetingNode = rt.settleForward(st, estimate, meetingNode)
		} else {
			estimate, meetingNode = rt.settleBackward(st, estimate, meetingNode)
		}
		steps++
	}

	if meetingNode == "" || estimate >= pkg.INF_WEIGHT {
		return ShortestPathResult{
			path:        []string{},
			distance:    pkg.INF_WEIGHT,
			status:      StatusUnreachable,
			searchSteps: steps,
		}, nil
	}

	path := ReconstructPath(meetingNode, st.cameFromF, st.cameFromB)
	return ShortestPathResult{
		path:        path,
		distance:    estimate,
		meetingNode: meetingNode,
		status:      StatusFound,
		searchSteps: steps,
	}, nil
}

// settleForward pop the minimum forward-frontier node, mark it visited and
// relax its outgoing edges. returns the possibly improved best candidate.
func (rt *RouteEngine) settleForward(st *searchState, estimate float64, meetingNode string) (float64, string) {
	node, err := st.forwQ.ExtractMin()
	if err != nil {
		return estimate, meetingNode
	}
	u := node.GetItem()
	st.visitedF[u] = struct{}{}

	// meeting rule: u newly settled forward while already visited backward.
	if _, seen := st.visitedB[u]; seen {
		if cand := st.df[u] + st.db[u]; cand < estimate {
			estimate = cand
			meetingNode = u
		}
	}

	rt.graph.ForOutEdgesOf(u, func(e datastructure.OutEdge) {
		v := e.GetHead()
		newCost := st.df[u] + e.GetWeight()
		if newCost < st.df[v] {
			st.df[v] = newCost
			st.cameFromF[v] = u

			if st.forwQ.Contains(v) {
				st.forwQ.DecreaseKey(newCost, v)
			} else {
				st.forwQ.Insert(newCost, v)
			}

			// v already discovered by the backward search gives a candidate
			// path through v.
			if st.db[v] < pkg.INF_WEIGHT {
				if cand := newCost + st.db[v]; cand < estimate {
					estimate = cand
					meetingNode = v
				}
			}
		}
	})

	return estimate, meetingNode
}

// settleBackward same as settleForward but relaxing the reverse adjacency:
// every edge whose destination is the settled node, at in-degree cost thanks
// to the reverse index built at graph construction.
func (rt *RouteEngine) settleBackward(st *searchState, estimate float64, meetingNode string) (float64, string) {
	node, err := st.backQ.ExtractMin()
	if err != nil {
		return estimate, meetingNode
	}
	u := node.GetItem()
	st.visitedB[u] = struct{}{}

	if _, seen := st.visitedF[u]; seen {
		if cand := st.df[u] + st.db[u]; cand < estimate {
			estimate = cand
			meetingNode = u
		}
	}

	rt.graph.ForInEdgesOf(u, func(e datastructure.InEdge) {
		t := e.GetTail()
		newCost := st.db[u] + e.GetWeight()
		if newCost < st.db[t] {
			st.db[t] = newCost
			st.cameFromB[t] = u

			if st.backQ.Contains(t) {
				st.backQ.DecreaseKey(newCost, t)
			} else {
				st.backQ.Insert(newCost, t)
			}

			if st.df[t] < pkg.INF_WEIGHT {
				if cand := newCost + st.df[t]; cand < estimate {
					estimate = cand
					meetingNode = t
				}
			}
		}
	})

	return estimate, meetingNode
}
