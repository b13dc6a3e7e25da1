package engine

import (
	"sync/atomic"

	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/engine/routing"
	"github.com/lintang-b-s/wayfinder/pkg/spatialindex"
	"go.uber.org/zap"
)

type loadedState struct {
	routeEngine *routing.RouteEngine
	locator     *spatialindex.Rtree
}

// Engine owns the lifecycle of the graph index: uninitialized -> loaded ->
// ready, with no in-place mutation afterward. the index is built exactly
// once, asynchronously, at process startup and published atomically; until
// then every routing request fails fast with ErrDataUnavailable. refreshing
// the data requires restarting the process.
type Engine struct {
	log   *zap.Logger
	state atomic.Pointer[loadedState]
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{log: log}
}

// LoadSnapshot read the preprocessed snapshot, build the immutable graph
// index plus its spatial index, and publish both. a failure is recorded in
// the log and leaves the engine unset, which perpetuates ErrDataUnavailable
// for later requests instead of crashing the service.
func (e *Engine) LoadSnapshot(path string) error {
	nodes, adjacency, err := datastructure.ReadSnapshot(path)
	if err != nil {
		e.log.Error("reading graph snapshot failed", zap.String("path", path), zap.Error(err))
		return err
	}

	return e.Build(nodes, adjacency)
}

// Build construct and publish the graph index from raw records.
func (e *Engine) Build(nodes []datastructure.RawNode, adjacency map[string][]datastructure.RawArc) error {
	graph, err := datastructure.BuildGraph(nodes, adjacency)
	if err != nil {
		e.log.Error("building graph index failed", zap.Error(err))
		return err
	}

	locator := spatialindex.NewRtree()
	locator.Build(graph, e.log)

	e.state.Store(&loadedState{
		routeEngine: routing.NewRouteEngine(graph, e.log),
		locator:     locator,
	})

	e.log.Info("graph index ready",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))
	return nil
}

func (e *Engine) Ready() bool {
	return e.state.Load() != nil
}

func (e *Engine) RouteEngine() (*routing.RouteEngine, bool) {
	st := e.state.Load()
	if st == nil {
		return nil, false
	}
	return st.routeEngine, true
}

func (e *Engine) Locator() (*spatialindex.Rtree, bool) {
	st := e.state.Load()
	if st == nil {
		return nil, false
	}
	return st.locator, true
}
