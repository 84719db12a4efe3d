package territory

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dominion/internal/boundary"
	"dominion/internal/overpass"
)

// squareChains builds the four sides of a small square around a center as
// separate unordered chains, each side subdivided into several points
func squareChains(cx, cy, half float64) []orb.LineString {
	corners := []orb.Point{
		{cx - half, cy - half},
		{cx + half, cy - half},
		{cx + half, cy + half},
		{cx - half, cy + half},
	}

	chains := make([]orb.LineString, 0, 4)
	for i := range corners {
		from := corners[i]
		to := corners[(i+1)%4]
		side := make(orb.LineString, 0, 5)
		for j := 0; j <= 4; j++ {
			f := float64(j) / 4
			side = append(side, orb.Point{
				from[0] + (to[0]-from[0])*f,
				from[1] + (to[1]-from[1])*f,
			})
		}
		chains = append(chains, side)
	}

	// Shuffle deterministically so assembly order is exercised
	chains[1], chains[3] = chains[3], chains[1]
	return chains
}

func TestProcessCandidateBuildsBoundary(t *testing.T) {
	candidate := overpass.Candidate{
		RelationID: 42,
		Name:       "Avonford",
		Chains:     squareChains(7.0, 50.0, 0.05),
	}

	result, ok := processCandidate(candidate, 50.0, 7.0)
	require.True(t, ok)

	assert.Equal(t, int64(42), result.RelationID)
	assert.GreaterOrEqual(t, len(result.Ring), boundary.MinBoundaryPoints)
	assert.Equal(t, result.Ring[0], result.Ring[len(result.Ring)-1])
	assert.InDelta(t, 7.0, result.Center[0], 1e-6)
	assert.InDelta(t, 50.0, result.Center[1], 1e-6)
	assert.Greater(t, result.RadiusM, 0.0)
	// Query point sits at the center, so distance is essentially zero
	assert.Less(t, result.DistanceM, 1.0)
}

func TestProcessCandidateRejectsTinyBoundary(t *testing.T) {
	candidate := overpass.Candidate{
		RelationID: 43,
		Name:       "Speck",
		Chains: []orb.LineString{
			{{7.0, 50.0}, {7.001, 50.0}, {7.001, 50.001}},
		},
	}

	_, ok := processCandidate(candidate, 50.0, 7.0)
	assert.False(t, ok)
}

func TestSelectNearestOrdersAndLimits(t *testing.T) {
	results := []candidateResult{
		{Name: "Far", DistanceM: 25000},
		{Name: "Near", DistanceM: 500},
		{Name: "Mid", DistanceM: 9000},
	}

	selected := selectNearest(results, 2)

	require.Len(t, selected, 2)
	assert.Equal(t, "Near", selected[0].Name)
	assert.Equal(t, "Mid", selected[1].Name)
}

func TestColorPaletteCycles(t *testing.T) {
	assert.Equal(t, colorForIndex(0), colorForIndex(len(territoryColors)))
	assert.NotEqual(t, colorForIndex(0), colorForIndex(1))
}

func TestRandomRulerFromPool(t *testing.T) {
	assert.Contains(t, rulerNames, randomRuler())
}
