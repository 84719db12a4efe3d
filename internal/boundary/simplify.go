package boundary

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

const (
	// dpStartTolerance is the initial Douglas-Peucker tolerance in degrees.
	dpStartTolerance = 0.00001

	// dpMaxTolerance caps the escalation; beyond this the shape degrades
	// faster than the point count is worth.
	dpMaxTolerance = 0.01

	// dpToleranceGrowth is the per-pass tolerance multiplier.
	dpToleranceGrowth = 1.5

	// DefaultTargetPoints is the nominal render budget for a boundary.
	DefaultTargetPoints = 100

	// DefaultMinimumPoints is the floor below which a boundary degenerates
	// into a near-triangle and stops reading as the original shape.
	DefaultMinimumPoints = 25
)

// Simplify reduces a ring to at most target points without ever dropping
// below min(minimum, len(ring)). Rings already within the target are
// returned untouched. Each Douglas-Peucker pass runs against the original
// ring with a growing tolerance; a pass that would breach the minimum is
// discarded in favor of the previous one. If even the first pass breached
// it, the original ring is uniformly resampled at minimum indices instead.
func Simplify(ring orb.Ring, target, minimum int) orb.Ring {
	if len(ring) <= target || len(ring) < minimum {
		return ring
	}

	tolerance := dpStartTolerance
	result := dpPass(ring, tolerance)

	for len(result) > target {
		tolerance *= dpToleranceGrowth
		if tolerance > dpMaxTolerance {
			break
		}
		next := dpPass(ring, tolerance)
		if len(next) < minimum {
			break
		}
		result = next
	}

	if len(result) < minimum && len(ring) >= minimum {
		result = uniformSample(ring, minimum)
	}

	return closeRing(result)
}

// dpPass runs one standard Douglas-Peucker reduction over the ring.
func dpPass(ring orb.Ring, tolerance float64) orb.Ring {
	ls := orb.LineString(ring).Clone()
	return orb.Ring(simplify.DouglasPeucker(tolerance).LineString(ls))
}

// uniformSample takes count evenly spaced points from the ring, preserving
// index order.
func uniformSample(ring orb.Ring, count int) orb.Ring {
	sampled := make(orb.Ring, 0, count+1)
	for i := 0; i < count; i++ {
		sampled = append(sampled, ring[i*len(ring)/count])
	}
	return sampled
}
