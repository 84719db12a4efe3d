package boundary

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"dominion/internal/util"
)

func TestCentroidUnitSquare(t *testing.T) {
	ring := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}

	centroid, radius := CentroidAndRadius(ring)

	assert.InDelta(t, 0.5, centroid[0], 1e-9)
	assert.InDelta(t, 0.5, centroid[1], 1e-9)
	assert.Greater(t, radius, 0.0)
}

func TestCentroidDenseSamplingBias(t *testing.T) {
	// One square edge is heavily oversampled; the vertex mean would drift
	// toward it, the area-weighted centroid must not
	ring := orb.Ring{{0, 0}, {0, 1}}
	for i := 1; i <= 100; i++ {
		ring = append(ring, orb.Point{float64(i) / 100, 1})
	}
	ring = append(ring, orb.Point{1, 0}, orb.Point{0, 0})

	centroid, _ := CentroidAndRadius(ring)

	assert.InDelta(t, 0.5, centroid[0], 1e-9)
	assert.InDelta(t, 0.5, centroid[1], 1e-9)
}

func TestCentroidDegenerateRingFallsBackToMean(t *testing.T) {
	// Near-straight line has effectively zero area
	ring := orb.Ring{{0, 0}, {0.001, 0}, {0.002, 0}, {0, 0}}

	centroid, _ := CentroidAndRadius(ring)

	assert.InDelta(t, 0.00075, centroid[0], 1e-9)
	assert.InDelta(t, 0.0, centroid[1], 1e-9)
}

func TestRadiusOfKnownCircle(t *testing.T) {
	const (
		centerLat = 45.0
		centerLng = 7.0
		radiusM   = 1000.0
	)
	metersPerDegree := 6371000.0 * math.Pi / 180.0

	ring := make(orb.Ring, 0, 37)
	for i := 0; i < 36; i++ {
		angle := 2 * math.Pi * float64(i) / 36
		lat := centerLat + radiusM*math.Sin(angle)/metersPerDegree
		lng := centerLng + radiusM*math.Cos(angle)/(metersPerDegree*math.Cos(centerLat*math.Pi/180.0))
		ring = append(ring, orb.Point{lng, lat})
	}
	ring = append(ring, ring[0])

	centroid, radius := CentroidAndRadius(ring)

	assert.InDelta(t, centerLng, centroid[0], 1e-6)
	assert.InDelta(t, centerLat, centroid[1], 1e-6)
	assert.InDelta(t, radiusM, radius, radiusM*0.05)

	// Cross-check one sampled vertex sits a radius away from the center
	d := util.HaversineDistance(centroid[1], centroid[0], ring[0][1], ring[0][0])
	assert.InDelta(t, radiusM, d, radiusM*0.05)
}

func TestCentroidEmptyRing(t *testing.T) {
	centroid, radius := CentroidAndRadius(nil)

	assert.Equal(t, orb.Point{}, centroid)
	assert.Zero(t, radius)
}
