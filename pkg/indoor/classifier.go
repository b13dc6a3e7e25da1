package indoor

import (
	"math"

	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"go.uber.org/zap"
)

// DeviceSignals raw positioning signals reported by the querying device.
// all fields are optional, a zero value means "not reported".
type DeviceSignals struct {
	GPSAccuracyM   float64 `json:"gps_accuracy_m"`
	SatelliteCount int     `json:"satellite_count"`
	WifiCount      int     `json:"wifi_count"`
	WifiRSSIMean   float64 `json:"wifi_rssi_mean"`
}

// Classification advisory indoor/outdoor verdict. attached to route
// responses by the serving layer, never gates or alters routing results.
type Classification struct {
	IsIndoor   bool `json:"is_indoor"`
	Confidence int  `json:"confidence"` // 0..100
}

type Classifier struct {
	log *zap.Logger
}

func NewClassifier(log *zap.Logger) *Classifier {
	return &Classifier{log: log}
}

// signal thresholds. GPS accuracy degrades sharply indoor while the number
// of visible wifi networks rises, satellite fixes drop.
const (
	accuracyIndoorM     = 25.0
	accuracyOutdoorM    = 8.0
	satellitesOutdoor   = 7
	satellitesIndoorMax = 4
	wifiDenseCount      = 8
	wifiStrongRSSI      = -55.0
)

// Classify heuristic indoor/outdoor classification of a coordinate given
// the device's positioning signals. purely advisory metadata.
func (c *Classifier) Classify(coord geo.Coordinate, signals DeviceSignals) Classification {
	score := 0.0 // positive leans indoor, negative outdoor
	weight := 0.0

	if signals.GPSAccuracyM > 0 {
		weight += 2
		switch {
		case signals.GPSAccuracyM >= accuracyIndoorM:
			score += 2
		case signals.GPSAccuracyM <= accuracyOutdoorM:
			score -= 2
		default:
			// linear between the outdoor and indoor accuracy bands
			score += 2 * (2*(signals.GPSAccuracyM-accuracyOutdoorM)/(accuracyIndoorM-accuracyOutdoorM) - 1)
		}
	}

	if signals.SatelliteCount > 0 {
		weight += 1.5
		switch {
		case signals.SatelliteCount <= satellitesIndoorMax:
			score += 1.5
		case signals.SatelliteCount >= satellitesOutdoor:
			score -= 1.5
		}
	}

	if signals.WifiCount > 0 {
		weight += 1
		if signals.WifiCount >= wifiDenseCount && signals.WifiRSSIMean >= wifiStrongRSSI {
			score += 1
		} else if signals.WifiCount < wifiDenseCount/2 {
			score -= 0.5
		}
	}

	if weight == 0 {
		// nothing reported, no opinion
		return Classification{IsIndoor: false, Confidence: 0}
	}

	normalized := score / weight // -1..1
	confidence := int(math.Round(math.Abs(normalized) * 100))
	if confidence > 100 {
		confidence = 100
	}

	verdict := Classification{
		IsIndoor:   normalized > 0,
		Confidence: confidence,
	}
	c.log.Debug("classified device environment",
		zap.Float64("lat", coord.GetLat()), zap.Float64("lon", coord.GetLon()),
		zap.Bool("is_indoor", verdict.IsIndoor), zap.Int("confidence", verdict.Confidence))
	return verdict
}
