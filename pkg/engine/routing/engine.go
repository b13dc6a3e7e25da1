package routing

import (
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"go.uber.org/zap"
)

// RouteEngine runs shortest-path queries over one immutable graph index.
// the engine itself carries no per-query state: every query allocates its
// own searchState, so concurrent queries need no synchronization.
type RouteEngine struct {
	graph  *datastructure.Graph
	logger *zap.Logger
}

func NewRouteEngine(graph *datastructure.Graph, logger *zap.Logger) *RouteEngine {
	return &RouteEngine{
		graph:  graph,
		logger: logger,
	}
}

func (rt *RouteEngine) GetGraph() *datastructure.Graph {
	return rt.graph
}

type SearchStatus uint8

const (
	StatusInit SearchStatus = iota
	StatusRunning
	StatusFound
	StatusUnreachable
)

// ShortestPathResult outcome of one shortest-path query. discarded after the
// request that created it.
type ShortestPathResult struct {
	path        []string
	distance    float64
	meetingNode string
	status      SearchStatus
	searchSteps int
}

func (r ShortestPathResult) GetPath() []string {
	return r.path
}

func (r ShortestPathResult) GetDistance() float64 {
	return r.distance
}

func (r ShortestPathResult) GetMeetingNode() string {
	return r.meetingNode
}

func (r ShortestPathResult) GetStatus() SearchStatus {
	return r.status
}

func (r ShortestPathResult) GetSearchSteps() int {
	return r.searchSteps
}

func (r ShortestPathResult) Found() bool {
	return r.status == StatusFound
}
