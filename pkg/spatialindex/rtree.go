package spatialindex

import (
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/lintang-b-s/wayfinder/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree spatial index over the routable node set. snapping resolves a query
// coordinate to the id of the nearest routable node by great-circle
// distance. nodes excluded from the routable set at graph build time are
// never snap targets.
type Rtree struct {
	tr    *rtree.RTreeG[string]
	graph *datastructure.Graph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[string]
	return &Rtree{
		tr: &tr,
	}
}

// Build index every locatable routable node as a point entry.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("building spatial index over routable nodes...")
	rt.graph = graph

	count := 0
	graph.ForVertices(func(v datastructure.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, v.GetID())
		count++
	})

	log.Info("spatial index built", zap.Int("nodes", count))
}

// search radii in km. the box search widens until a provably nearest
// candidate is found, then the linear scan takes over as a last resort.
var searchRadii = []float64{0.1, 0.5, 2.5, 12.5, 50.0}

// NearestNode id of the routable node nearest to (lat, lon), skipping
// exclude when supplied. ties resolve to the first candidate encountered in
// the index iteration order and callers must not depend on which one wins.
// returns ErrNoNearbyNode when the routable set is empty.
func (rt *Rtree) NearestNode(lat, lon float64, exclude string) (string, error) {
	for _, radius := range searchRadii {
		id, dist, ok := rt.nearestWithinBox(lat, lon, radius, exclude)
		if ok && dist <= radius/2 {
			// the box extends at least radius/sqrt(2) per axis, so every
			// node outside it is farther than radius/2 and the candidate is
			// the global minimum.
			return id, nil
		}
	}

	return rt.nearestNodeLinear(lat, lon, exclude)
}

func (rt *Rtree) nearestWithinBox(lat, lon, radius float64, exclude string) (string, float64, bool) {
	lowerLat, lowerLon := geo.GetDestinationPoint(lat, lon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(lat, lon, 45, radius)

	bestID := ""
	bestDist := 0.0
	found := false

	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, id string) bool {
			if id == exclude {
				return true
			}
			dist := geo.CalculateHaversineDistance(lat, lon, max[1], max[0])
			if !found || dist < bestDist {
				bestID = id
				bestDist = dist
				found = true
			}
			return true
		})

	return bestID, bestDist, found
}

// nearestNodeLinear reference linear scan of the routable node set. the box
// search above is an index-only acceleration of exactly this computation.
func (rt *Rtree) nearestNodeLinear(lat, lon float64, exclude string) (string, error) {
	bestID := ""
	bestDist := 0.0
	found := false

	rt.graph.ForVertices(func(v datastructure.Vertex) {
		if v.GetID() == exclude {
			return
		}
		dist := geo.CalculateHaversineDistance(lat, lon, v.GetLat(), v.GetLon())
		if !found || dist < bestDist {
			bestID = v.GetID()
			bestDist = dist
			found = true
		}
	})

	if !found {
		return "", util.WrapErrorf(nil, util.ErrNoNearbyNode,
			"no routable node near (%f, %f)", lat, lon)
	}
	return bestID, nil
}
