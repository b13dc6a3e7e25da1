package controllers

import (
	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/lintang-b-s/wayfinder/pkg/http/usecases"
	"github.com/lintang-b-s/wayfinder/pkg/indoor"
)

type computeRouteRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
}

type computeRouteResponse struct {
	Route                 []geo.Coordinate       `json:"route"`
	DistanceKM            float64                `json:"distance_km"`
	Polyline              string                 `json:"polyline"`
	OriginSnapMeters      float64                `json:"origin_snap_m"`
	DestinationSnapMeters float64                `json:"destination_snap_m"`
	Indoor                *indoor.Classification `json:"indoor,omitempty"`
}

func NewComputeRouteResponse(res usecases.RouteResult, classification *indoor.Classification) computeRouteResponse {
	return computeRouteResponse{
		Route:                 res.Route,
		DistanceKM:            res.DistanceKM,
		Polyline:              res.Polyline,
		OriginSnapMeters:      res.OriginSnapMeters,
		DestinationSnapMeters: res.DestinationSnapMeters,
		Indoor:                classification,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// liveRouteRequest one websocket live-route query. the client streams these
// as it moves, the server pushes a freshly computed route for each.
type liveRouteRequest struct {
	Origin      geo.Coordinate        `json:"origin"`
	Destination geo.Coordinate        `json:"destination"`
	Signals     *indoor.DeviceSignals `json:"signals,omitempty"`
}
