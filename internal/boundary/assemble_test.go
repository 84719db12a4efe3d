package boundary

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleSingleChain(t *testing.T) {
	chain := orb.LineString{{0, 0}, {1, 0}, {1, 1}}

	ring := Assemble([]orb.LineString{chain})

	require.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestAssembleJoinsAdjacentChains(t *testing.T) {
	a := orb.LineString{{0, 0}, {1, 0}}
	b := orb.LineString{{1, 0}, {1, 1}}

	ring := Assemble([]orb.LineString{a, b})

	// Shared endpoint is kept once, then the ring closes back to the start
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, ring)
}

func TestAssembleJoinsAcrossSmallGap(t *testing.T) {
	a := orb.LineString{{0, 0}, {1, 0}}
	// Gap of 0.00005 degrees, within the first tolerance rung
	b := orb.LineString{{1.00005, 0}, {1, 1}}

	ring := Assemble([]orb.LineString{a, b})

	// Both gap endpoints survive and stay adjacent: the chains were joined
	// by endpoint matching, not rebuilt by the angle-sort fallback
	require.Len(t, ring, 5)
	assert.Equal(t, orb.Point{1, 0}, ring[1])
	assert.Equal(t, orb.Point{1.00005, 0}, ring[2])
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestAssembleReversedChainAttachment(t *testing.T) {
	a := orb.LineString{{0, 0}, {1, 0}}
	// b runs backwards: its end touches a's end
	b := orb.LineString{{1, 1}, {1, 0}}

	ring := Assemble([]orb.LineString{a, b})

	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, ring)
}

func TestAssemblePrependsAtStart(t *testing.T) {
	a := orb.LineString{{0, 0}, {1, 0}, {1, 1}}
	// b's end touches a's start
	b := orb.LineString{{0, 1}, {0, 0}}

	ring := Assemble([]orb.LineString{a, b})

	assert.Equal(t, orb.Ring{{0, 1}, {0, 0}, {1, 0}, {1, 1}, {0, 1}}, ring)
}

// Best effort under adversarial chain ordering: when no endpoints connect
// at any tolerance, the angle-sort fallback must still deliver one closed
// loop with every input point, not a correctness guarantee on the shape.
func TestAssembleAngleSortFallback(t *testing.T) {
	chains := []orb.LineString{
		{{0, 0}, {0.1, 0}},
		{{0.5, 0.5}, {0.5, 0.6}},
		{{-0.5, 0.5}, {-0.5, 0.6}},
	}

	// Sanity: no endpoint pair is within the loosest tolerance
	endpoints := []orb.Point{
		{0, 0}, {0.1, 0}, {0.5, 0.5}, {0.5, 0.6}, {-0.5, 0.5}, {-0.5, 0.6},
	}
	for i := range endpoints {
		for j := i + 1; j < len(endpoints); j++ {
			require.Greater(t, planar.Distance(endpoints[i], endpoints[j]), 0.01)
		}
	}

	ring := Assemble(chains)

	require.Len(t, ring, 7) // 6 input points + closure
	assert.Equal(t, ring[0], ring[len(ring)-1])

	for _, p := range endpoints {
		assert.Contains(t, ring, p)
	}
}

func TestAssembledRingIsClosed(t *testing.T) {
	chains := []orb.LineString{
		{{0, 0}, {0.5, 0.1}, {1, 0}},
		{{1, 0}, {1.1, 0.5}, {1, 1}},
		{{0, 1}, {0, 0}},
		{{1, 1}, {0.5, 1.1}, {0, 1}},
	}

	ring := Assemble(chains)

	require.GreaterOrEqual(t, len(ring), 3)
	assert.LessOrEqual(t, planar.Distance(ring[0], ring[len(ring)-1]), 0.00001)
}

func TestAssembleEmptyInput(t *testing.T) {
	assert.Nil(t, Assemble(nil))
}
