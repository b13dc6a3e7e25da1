package usecases

import (
	"context"
	"time"

	"github.com/lintang-b-s/wayfinder/pkg/engine/routing"
	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/lintang-b-s/wayfinder/pkg/util"
	"go.uber.org/zap"
)

// RouteResult ordered route coordinates plus total distance. created and
// discarded per request.
type RouteResult struct {
	Route      []geo.Coordinate
	DistanceKM float64
	Polyline   string

	// perpendicular distance, in meter, from the query coordinates to the
	// first and last route edge. advisory output for the caller.
	OriginSnapMeters      float64
	DestinationSnapMeters float64
}

type RoutingService struct {
	log          *zap.Logger
	engine       GraphEngine
	queryTimeout time.Duration
}

func NewRoutingService(log *zap.Logger, engine GraphEngine, queryTimeout time.Duration) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		queryTimeout: queryTimeout,
	}
}

// ComputeRoute shortest driving route between two coordinates. snaps both
// coordinates to their nearest routable node, runs the bidirectional search
// and maps the resulting node ids back to coordinates.
func (rs *RoutingService) ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (RouteResult, error) {
	rt, ok := rs.engine.RouteEngine()
	if !ok {
		return RouteResult{}, util.WrapErrorf(nil, util.ErrDataUnavailable,
			"road graph is still loading, retry later")
	}
	locator, _ := rs.engine.Locator()

	startID, err := locator.NearestNode(origLat, origLon, "")
	if err != nil {
		return RouteResult{}, err
	}
	endID, err := locator.NearestNode(dstLat, dstLon, "")
	if err != nil {
		return RouteResult{}, err
	}

	if startID == endID {
		// re-snap the destination excluding the start node. when no other
		// candidate exists both points collapse onto one node.
		endID, err = locator.NearestNode(dstLat, dstLon, startID)
		if err != nil {
			return RouteResult{}, util.WrapErrorf(err, util.ErrTooClose,
				"origin and destination both snap to node %s", startID)
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, rs.queryTimeout)
	defer cancel()

	result, err := rt.ShortestPathBiDijkstra(queryCtx, startID, endID)
	if err != nil {
		return RouteResult{}, err
	}
	if result.GetStatus() == routing.StatusUnreachable || len(result.GetPath()) == 0 {
		return RouteResult{}, util.WrapErrorf(nil, util.ErrNoRoute,
			"no route from %s to %s", startID, endID)
	}

	graph := rt.GetGraph()
	route := make([]geo.Coordinate, 0, len(result.GetPath()))
	for _, id := range result.GetPath() {
		lat, lon, ok := graph.GetVertexCoordinates(id)
		if !ok {
			// unlocatable ids are dropped from coordinate output only,
			// should not occur for snapped endpoints.
			rs.log.Warn("route node has no coordinate, dropping from output", zap.String("id", id))
			continue
		}
		route = append(route, geo.NewCoordinate(lat, lon))
	}
	if len(route) == 0 {
		return RouteResult{}, util.WrapErrorf(nil, util.ErrNoRoute,
			"route from %s to %s has no locatable node", startID, endID)
	}

	res := RouteResult{
		Route:      route,
		DistanceKM: result.GetDistance(),
		Polyline:   geo.PolylineFromCoords(route),
	}

	if len(route) >= 2 {
		res.OriginSnapMeters = geo.PointLinePerpendicularDistance(
			route[0], route[1], geo.NewCoordinate(origLat, origLon))
		last := len(route) - 1
		res.DestinationSnapMeters = geo.PointLinePerpendicularDistance(
			route[last-1], route[last], geo.NewCoordinate(dstLat, dstLon))
	}

	return res, nil
}
