package boundary

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"dominion/internal/util"
)

// degenerateAreaEpsilon marks a ring as effectively zero-area, at which
// point the area-weighted centroid quotient stops being meaningful.
const degenerateAreaEpsilon = 1e-7

// CentroidAndRadius returns the area-weighted centroid of a closed ring and
// the mean great-circle distance from it to every vertex, in meters.
//
// The area-weighted (shoelace) centroid is preferred over the vertex mean,
// which drifts toward densely sampled stretches of the outline. Near-zero
// area rings fall back to the vertex mean.
func CentroidAndRadius(ring orb.Ring) (orb.Point, float64) {
	if len(ring) == 0 {
		return orb.Point{}, 0
	}

	centroid, area := planar.CentroidArea(ring)
	if math.Abs(area) < degenerateAreaEpsilon {
		centroid = meanPoint(ring)
	}

	var total float64
	for _, p := range ring {
		total += util.HaversineDistance(centroid[1], centroid[0], p[1], p[0])
	}

	return centroid, total / float64(len(ring))
}

// meanPoint returns the arithmetic mean of the ring's vertices.
func meanPoint(ring orb.Ring) orb.Point {
	var x, y float64
	for _, p := range ring {
		x += p[0]
		y += p[1]
	}

	n := float64(len(ring))
	return orb.Point{x / n, y / n}
}
