package boundary

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// joinTolerances is the escalating endpoint-matching ladder, in degrees.
// Source ways are frequently split with small snap gaps, so cheap tight
// passes run before the looser ones.
var joinTolerances = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01}

const (
	// closureEpsilon is the maximum first/last gap, in degrees, for a ring
	// to count as closed.
	closureEpsilon = 0.00001

	// MinBoundaryPoints is the smallest assembled ring callers should
	// accept; anything shorter means the source data was insufficient.
	MinBoundaryPoints = 10
)

// attachment describes how a candidate chain connects to the growing ring.
type attachment int

const (
	attachNone attachment = iota
	attachAppend
	attachAppendReversed
	attachPrepend
	attachPrependReversed
)

// Assemble stitches an unordered set of way chains into a single closed
// ring. Chains are matched end-to-end within the tolerance ladder; whatever
// cannot be matched is merged through an angle sort around the combined
// centroid as a last resort.
func Assemble(chains []orb.LineString) orb.Ring {
	if len(chains) == 0 {
		return nil
	}
	if len(chains) == 1 {
		return closeRing(orb.Ring(chains[0].Clone()))
	}

	// Seed with the longest chain.
	longest := 0
	for i, c := range chains {
		if len(c) > len(chains[longest]) {
			longest = i
		}
	}

	used := make([]bool, len(chains))
	used[longest] = true
	remaining := len(chains) - 1

	result := make(orb.LineString, 0, totalPoints(chains))
	result = append(result, chains[longest]...)

	for _, tolerance := range joinTolerances {
		for remaining > 0 {
			index, attach := findClosestChain(result, chains, used, tolerance)
			if index < 0 {
				break
			}
			result = attachChain(result, chains[index], attach)
			used[index] = true
			remaining--
		}
		if remaining == 0 {
			break
		}
	}

	// Some chains could not be connected at any tolerance. Merge every
	// point and rebuild the loop by angle around the combined centroid.
	// Best effort: adjacency is lost, but the loop stays renderable.
	if remaining > 0 {
		for i, c := range chains {
			if !used[i] {
				result = append(result, c...)
			}
		}
		result = sortByAngle(result)
	}

	return closeRing(orb.Ring(result))
}

// findClosestChain scans unused chains for the endpoint pairing with the
// smallest distance within tolerance. Returns -1 when nothing connects.
func findClosestChain(result orb.LineString, chains []orb.LineString, used []bool, tolerance float64) (int, attachment) {
	start := result[0]
	end := result[len(result)-1]

	bestIndex := -1
	bestAttach := attachNone
	bestDist := math.Inf(1)

	consider := func(i int, d float64, a attachment) {
		if d <= tolerance && d < bestDist {
			bestIndex = i
			bestAttach = a
			bestDist = d
		}
	}

	for i, chain := range chains {
		if used[i] || len(chain) == 0 {
			continue
		}
		consider(i, planar.Distance(end, chain[0]), attachAppend)
		consider(i, planar.Distance(end, chain[len(chain)-1]), attachAppendReversed)
		consider(i, planar.Distance(start, chain[len(chain)-1]), attachPrepend)
		consider(i, planar.Distance(start, chain[0]), attachPrependReversed)
	}

	return bestIndex, bestAttach
}

// attachChain extends the ring with a chain at the matched end, reversing
// the chain when it connects backwards. An exactly shared connector point
// is kept only once.
func attachChain(result orb.LineString, chain orb.LineString, attach attachment) orb.LineString {
	points := chain.Clone()
	if attach == attachAppendReversed || attach == attachPrependReversed {
		points.Reverse()
	}

	switch attach {
	case attachAppend, attachAppendReversed:
		if planar.Distance(result[len(result)-1], points[0]) <= closureEpsilon {
			points = points[1:]
		}
		return append(result, points...)
	case attachPrepend, attachPrependReversed:
		if planar.Distance(points[len(points)-1], result[0]) <= closureEpsilon {
			points = points[:len(points)-1]
		}
		return append(points, result...)
	}
	return result
}

// sortByAngle orders points by atan2 angle around their mean center,
// producing a plausible loop when chain adjacency is unknown.
func sortByAngle(points orb.LineString) orb.LineString {
	center := meanPoint(orb.Ring(points))

	sorted := points.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		ai := math.Atan2(sorted[i][1]-center[1], sorted[i][0]-center[0])
		aj := math.Atan2(sorted[j][1]-center[1], sorted[j][0]-center[0])
		return ai < aj
	})

	return sorted
}

// closeRing appends the first point when the ring does not already end
// within the closure epsilon of it.
func closeRing(ring orb.Ring) orb.Ring {
	if len(ring) == 0 {
		return ring
	}
	if planar.Distance(ring[0], ring[len(ring)-1]) > closureEpsilon {
		ring = append(ring, ring[0])
	}
	return ring
}

func totalPoints(chains []orb.LineString) int {
	n := 0
	for _, c := range chains {
		n += len(c)
	}
	return n
}
