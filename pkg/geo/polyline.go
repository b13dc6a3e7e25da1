package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coords as a google encoded polyline string.
func PolylineFromCoords(coords []Coordinate) string {
	buf := make([][]float64, 0, len(coords))
	for _, c := range coords {
		buf = append(buf, []float64{c.GetLat(), c.GetLon()})
	}
	return string(polyline.EncodeCoords(buf))
}
