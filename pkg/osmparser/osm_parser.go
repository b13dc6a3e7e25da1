package osmparser

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/lintang-b-s/wayfinder/pkg/concurrent"
	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

var acceptedHighway = map[string]struct{}{
	"motorway":         {},
	"motorway_link":    {},
	"trunk":            {},
	"trunk_link":       {},
	"primary":          {},
	"primary_link":     {},
	"secondary":        {},
	"secondary_link":   {},
	"residential":      {},
	"residential_link": {},
	"service":          {},
	"tertiary":         {},
	"tertiary_link":    {},
	"road":             {},
	"track":            {},
	"unclassified":     {},
	"undefined":        {},
	"unknown":          {},
	"living_street":    {},
	"private":          {},
	"motorroad":        {},
}

type nodeCoord struct {
	lat float64
	lon float64
}

type osmWay struct {
	nodes  []int64
	oneWay bool
	// forward is false when the way is one-way against node order ("oneway=-1")
	forward bool
}

type segmentJob struct {
	from      int64
	to        int64
	fromCoord nodeCoord
	toCoord   nodeCoord
	twoWay    bool
}

type segmentArc struct {
	from   string
	to     string
	weight float64
	twoWay bool
}

// OsmParser extracts a drivable road graph from an openstreetmap pbf extract.
// Only ways with an accepted highway tag survive; every surviving way node
// becomes a graph vertex and every consecutive node pair becomes one arc (two
// for bidirectional ways) weighted by haversine length in km.
type OsmParser struct {
	wayNodeMap map[int64]struct{}
	nodeCoords map[int64]nodeCoord
	ways       []osmWay
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		wayNodeMap: make(map[int64]struct{}),
		nodeCoords: make(map[int64]nodeCoord),
		ways:       make([]osmWay, 0),
	}
}

func (p *OsmParser) Parse(mapFile string, logger *zap.Logger) ([]datastructure.RawNode,
	map[string][]datastructure.RawArc, error) {

	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	// first pass: remember which nodes belong to accepted ways
	scanner := osmpbf.New(context.Background(), f, 0)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		if !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		wNodes := make([]int64, 0, len(way.Nodes))
		for _, node := range way.Nodes {
			p.wayNodeMap[int64(node.ID)] = struct{}{}
			wNodes = append(wNodes, int64(node.ID))
		}

		oneWayTag := way.Tags.Find("oneway")
		p.ways = append(p.ways, osmWay{
			nodes:   wNodes,
			oneWay:  oneWayTag == "yes" || oneWayTag == "-1",
			forward: oneWayTag != "-1",
		})
	}
	scanner.Close()

	// second pass: pick up coordinates of the surviving nodes
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if _, ok := p.wayNodeMap[int64(node.ID)]; !ok {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		p.nodeCoords[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
	}

	nodes, adjacency := p.buildRecords(logger)

	logger.Sugar().Infof("parsed %d road nodes from %d accepted ways", len(nodes), countWays)
	return nodes, adjacency, nil
}

// buildRecords converts accepted ways into ingestion records. arc weights are
// computed on a worker pool, one segment per job.
func (p *OsmParser) buildRecords(logger *zap.Logger) ([]datastructure.RawNode,
	map[string][]datastructure.RawArc) {

	jobs := make([]segmentJob, 0)
	for _, way := range p.ways {
		wNodes := way.nodes
		if !way.forward {
			wNodes = make([]int64, len(way.nodes))
			copy(wNodes, way.nodes)
			for i, j := 0, len(wNodes)-1; i < j; i, j = i+1, j-1 {
				wNodes[i], wNodes[j] = wNodes[j], wNodes[i]
			}
		}

		for i := 0; i+1 < len(wNodes); i++ {
			from, to := wNodes[i], wNodes[i+1]
			if from == to {
				continue
			}
			fromCoord, okf := p.nodeCoords[from]
			toCoord, okt := p.nodeCoords[to]
			if !okf || !okt {
				// node record missing from the extract, skip the segment
				continue
			}
			jobs = append(jobs, segmentJob{
				from:      from,
				to:        to,
				fromCoord: fromCoord,
				toCoord:   toCoord,
				twoWay:    !way.oneWay,
			})
		}
	}

	workers := concurrent.NewWorkerPool[segmentJob, segmentArc](8, len(jobs))

	for _, job := range jobs {
		workers.AddJob(job)
	}
	workers.Close()
	workers.Start(func(job segmentJob) segmentArc {
		dist := geo.CalculateHaversineDistance(job.fromCoord.lat, job.fromCoord.lon,
			job.toCoord.lat, job.toCoord.lon)
		return segmentArc{
			from:   strconv.FormatInt(job.from, 10),
			to:     strconv.FormatInt(job.to, 10),
			weight: dist,
			twoWay: job.twoWay,
		}
	})
	workers.Wait()

	adjacency := make(map[string][]datastructure.RawArc)
	for arc := range workers.CollectResults() {
		adjacency[arc.from] = append(adjacency[arc.from], datastructure.NewRawArc(arc.to, arc.weight))
		if arc.twoWay {
			adjacency[arc.to] = append(adjacency[arc.to], datastructure.NewRawArc(arc.from, arc.weight))
		}
	}

	nodes := make([]datastructure.RawNode, 0, len(p.nodeCoords))
	for id, coord := range p.nodeCoords {
		nodes = append(nodes, datastructure.NewRawNode(strconv.FormatInt(id, 10), coord.lat, coord.lon))
	}

	return nodes, adjacency
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}
