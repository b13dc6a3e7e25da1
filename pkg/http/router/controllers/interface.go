package controllers

import (
	"context"

	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/lintang-b-s/wayfinder/pkg/http/usecases"
	"github.com/lintang-b-s/wayfinder/pkg/indoor"
)

type RoutingService interface {
	ComputeRoute(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (usecases.RouteResult, error)
}

// IndoorClassifier advisory indoor/outdoor heuristic composed by the
// serving layer. its verdict never gates or alters routing results.
type IndoorClassifier interface {
	Classify(coord geo.Coordinate, signals indoor.DeviceSignals) indoor.Classification
}
