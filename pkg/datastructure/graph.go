package datastructure

import (
	"math"

	"github.com/lintang-b-s/wayfinder/pkg/util"
)

// RawNode is one record from the node source collaborator. ids may be
// numeric or textual depending on the source, already deserialized.
type RawNode struct {
	ID  interface{} `json:"id"`
	Lat float64     `json:"latitude"`
	Lon float64     `json:"longitude"`
}

func NewRawNode(id interface{}, lat, lon float64) RawNode {
	return RawNode{ID: id, Lat: lat, Lon: lon}
}

// RawArc is one adjacency entry from the edge source collaborator:
// a destination id plus a non-negative traversal weight.
type RawArc struct {
	To     interface{} `json:"destination"`
	Weight float64     `json:"weight"`
}

func NewRawArc(to interface{}, weight float64) RawArc {
	return RawArc{To: to, Weight: weight}
}

type Vertex struct {
	id  string
	lat float64
	lon float64
}

func (v Vertex) GetID() string {
	return v.id
}

func (v Vertex) GetLat() float64 {
	return v.lat
}

func (v Vertex) GetLon() float64 {
	return v.lon
}

// OutEdge directed edge tail->head seen from its tail.
type OutEdge struct {
	head   string
	weight float64
}

func (e OutEdge) GetHead() string {
	return e.head
}

func (e OutEdge) GetWeight() float64 {
	return e.weight
}

// InEdge directed edge tail->head seen from its head. stored in the reverse
// adjacency so backward relaxation scans in-degree edges instead of the
// whole edge set.
type InEdge struct {
	tail   string
	weight float64
}

func (e InEdge) GetTail() string {
	return e.tail
}

func (e InEdge) GetWeight() float64 {
	return e.weight
}

// Graph immutable road-graph index. built exactly once at startup and shared
// read-only across every concurrent query, so reads need no locking.
//
// only routable nodes are retained: a node survives ingestion iff its id
// occurs as an edge source or destination. edge endpoints without a node
// record stay routable but have no coordinate (unlocatable for coordinate
// output only).
type Graph struct {
	vertices      map[string]Vertex
	vertexOrder   []string // retained-node iteration order, fixed at build time
	outEdges      map[string][]OutEdge
	inEdges       map[string][]InEdge
	routableOrder []string
	numEdges      int
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// BuildGraph ingest raw node and edge records and build the immutable graph
// index: forward adjacency, reverse adjacency and the routable node subset.
// fails with ErrDataUnavailable when either input is missing, empty or
// malformed.
func BuildGraph(nodes []RawNode, adjacency map[string][]RawArc) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrDataUnavailable, "node source is missing or empty")
	}
	if len(adjacency) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrDataUnavailable, "edge source is missing or empty")
	}

	outEdges := make(map[string][]OutEdge, len(adjacency))
	inEdges := make(map[string][]InEdge)
	routable := make(map[string]struct{}, len(adjacency))
	routableOrder := make([]string, 0, len(adjacency))
	numEdges := 0

	markRoutable := func(id string) {
		if _, ok := routable[id]; !ok {
			routable[id] = struct{}{}
			routableOrder = append(routableOrder, id)
		}
	}

	for rawFrom, arcs := range adjacency {
		from := util.NormalizeID(rawFrom)
		if from == "" {
			return nil, util.WrapErrorf(nil, util.ErrDataUnavailable, "edge source contains an empty source id")
		}
		for _, arc := range arcs {
			to := util.NormalizeID(arc.To)
			if to == "" {
				return nil, util.WrapErrorf(nil, util.ErrDataUnavailable,
					"edge %v from %q has an empty destination id", arc.To, from)
			}
			if math.IsNaN(arc.Weight) || arc.Weight < 0 {
				return nil, util.WrapErrorf(nil, util.ErrDataUnavailable,
					"edge %q->%q has malformed weight %v", from, to, arc.Weight)
			}

			outEdges[from] = append(outEdges[from], OutEdge{head: to, weight: arc.Weight})
			inEdges[to] = append(inEdges[to], InEdge{tail: from, weight: arc.Weight})
			markRoutable(from)
			markRoutable(to)
			numEdges++
		}
	}
	if numEdges == 0 {
		return nil, util.WrapErrorf(nil, util.ErrDataUnavailable, "edge source contains no edges")
	}

	// retain only nodes whose id occurs as an edge endpoint. this keeps
	// dead-end, unconnected nodes out of the locator's candidate pool.
	vertices := make(map[string]Vertex, len(routable))
	vertexOrder := make([]string, 0, len(routable))
	for _, n := range nodes {
		id := util.NormalizeID(n.ID)
		if id == "" {
			return nil, util.WrapErrorf(nil, util.ErrDataUnavailable, "node source contains an empty id")
		}
		if !validCoordinate(n.Lat, n.Lon) {
			return nil, util.WrapErrorf(nil, util.ErrDataUnavailable,
				"node %q has malformed coordinate (%v, %v)", id, n.Lat, n.Lon)
		}
		if _, ok := routable[id]; !ok {
			continue
		}
		if _, dup := vertices[id]; dup {
			continue
		}
		vertices[id] = Vertex{id: id, lat: n.Lat, lon: n.Lon}
		vertexOrder = append(vertexOrder, id)
	}

	return &Graph{
		vertices:      vertices,
		vertexOrder:   vertexOrder,
		outEdges:      outEdges,
		inEdges:       inEdges,
		routableOrder: routableOrder,
		numEdges:      numEdges,
	}, nil
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return g.numEdges
}

func (g *Graph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// IsRoutable reports whether id occurs as an edge endpoint. routable ids
// without a node record are searchable but unlocatable.
func (g *Graph) IsRoutable(id string) bool {
	if _, ok := g.outEdges[id]; ok {
		return true
	}
	_, ok := g.inEdges[id]
	return ok
}

// GetVertexCoordinates coordinate of a retained node. ok=false for edge
// endpoints that had no node record.
func (g *Graph) GetVertexCoordinates(id string) (float64, float64, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return 0, 0, false
	}
	return v.lat, v.lon, true
}

// ForVertices visit every retained node in build order. the fixed order keeps
// nearest-node tie resolution identical across repeated calls on the same
// graph value.
func (g *Graph) ForVertices(fn func(v Vertex)) {
	for _, id := range g.vertexOrder {
		fn(g.vertices[id])
	}
}

// ForRoutableIDs visit every routable id, including edge endpoints that had
// no node record. the transitive-reachability superset of a search is always
// a subset of these ids.
func (g *Graph) ForRoutableIDs(fn func(id string)) {
	for _, id := range g.routableOrder {
		fn(id)
	}
}

func (g *Graph) ForOutEdgesOf(id string, fn func(e OutEdge)) {
	for _, e := range g.outEdges[id] {
		fn(e)
	}
}

func (g *Graph) ForInEdgesOf(id string, fn func(e InEdge)) {
	for _, e := range g.inEdges[id] {
		fn(e)
	}
}

func (g *Graph) OutDegree(id string) int {
	return len(g.outEdges[id])
}

func (g *Graph) InDegree(id string) int {
	return len(g.inEdges[id])
}

// EdgeWeight weight of the minimum-weight directed edge from->to.
func (g *Graph) EdgeWeight(from, to string) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, e := range g.outEdges[from] {
		if e.head == to && e.weight < best {
			best = e.weight
			found = true
		}
	}
	return best, found
}
