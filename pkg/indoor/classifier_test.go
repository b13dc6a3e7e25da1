package indoor

import (
	"testing"

	"github.com/lintang-b-s/wayfinder/pkg/geo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	coord := geo.NewCoordinate(-7.77, 110.37)

	tests := []struct {
		name          string
		signals       DeviceSignals
		wantIndoor    bool
		minConfidence int
	}{
		{
			name: "deep indoor",
			signals: DeviceSignals{
				GPSAccuracyM:   40,
				SatelliteCount: 2,
				WifiCount:      12,
				WifiRSSIMean:   -45,
			},
			wantIndoor:    true,
			minConfidence: 90,
		},
		{
			name: "open sky",
			signals: DeviceSignals{
				GPSAccuracyM:   3,
				SatelliteCount: 11,
				WifiCount:      1,
			},
			wantIndoor:    false,
			minConfidence: 80,
		},
		{
			name: "gps only degraded",
			signals: DeviceSignals{
				GPSAccuracyM: 30,
			},
			wantIndoor:    true,
			minConfidence: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(coord, tt.signals)
			assert.Equal(t, tt.wantIndoor, got.IsIndoor)
			assert.GreaterOrEqual(t, got.Confidence, tt.minConfidence)
			assert.LessOrEqual(t, got.Confidence, 100)
		})
	}
}

func TestClassifyNoSignals(t *testing.T) {
	c := NewClassifier(zap.NewNop())

	got := c.Classify(geo.NewCoordinate(0, 0), DeviceSignals{})
	assert.False(t, got.IsIndoor)
	assert.Equal(t, 0, got.Confidence, "no reported signal means no opinion")
}
