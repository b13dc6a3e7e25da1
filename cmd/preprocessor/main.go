package main

import (
	"flag"

	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/logger"
	"github.com/lintang-b-s/wayfinder/pkg/osmparser"
)

var (
	mapFile      = flag.String("map", "./data/washington.osm.pbf", "openstreetmap pbf extract path")
	snapshotPath = flag.String("out", "./data/wayfinder.graph", "output graph snapshot path")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	osmParser := osmparser.NewOSMParser()
	nodes, adjacency, err := osmParser.Parse(*mapFile, logger)
	if err != nil {
		panic(err)
	}

	// building here catches malformed extracts before the snapshot is written
	graph, err := datastructure.BuildGraph(nodes, adjacency)
	if err != nil {
		panic(err)
	}
	logger.Sugar().Infof("number of routable vertices: %v", graph.NumberOfVertices())
	logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())

	if err := datastructure.WriteSnapshot(*snapshotPath, nodes, adjacency); err != nil {
		panic(err)
	}

	logger.Sugar().Infof("graph snapshot written to %s", *snapshotPath)
}
