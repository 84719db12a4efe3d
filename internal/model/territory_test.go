package model

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerritorySetRingAndEnsureGeometry(t *testing.T) {
	ring := orb.Ring{{7.0, 50.0}, {7.1, 50.0}, {7.1, 50.1}, {7.0, 50.1}, {7.0, 50.0}}

	original := &Territory{ID: "t1", Name: "Avonford"}
	require.NoError(t, original.SetRing(ring))
	require.NotEmpty(t, original.Boundary)

	// A territory loaded from persistence carries only the GeoJSON string
	restored := &Territory{ID: "t1", Boundary: original.Boundary}
	require.NoError(t, restored.EnsureGeometry())

	assert.Equal(t, ring, restored.Ring)
	require.NotNil(t, restored.BoundingBox)
	assert.Equal(t, 7.0, restored.BoundingBox.Min[0])
	assert.Equal(t, 50.1, restored.BoundingBox.Max[1])

	// Idempotent once parsed
	require.NoError(t, restored.EnsureGeometry())
}

func TestEnsureGeometryRejectsMalformedBoundary(t *testing.T) {
	territory := &Territory{ID: "bad", Boundary: "{not geojson"}
	assert.Error(t, territory.EnsureGeometry())
}

func TestTerritoryPGRoundTrip(t *testing.T) {
	territory := &Territory{
		ID:         "t2",
		RelationID: 999,
		Name:       "Eastmarch",
		Ruler:      "Freya",
		Color:      "#2A9D8F",
		CenterLat:  50.05,
		CenterLng:  7.05,
		RadiusM:    4200,
		Boundary:   `{"type":"Polygon","coordinates":[[[7,50],[7.1,50],[7.1,50.1],[7,50]]]}`,
	}

	back := TerritoryFromPG(territory.ToPG())

	assert.Equal(t, territory.ID, back.ID)
	assert.Equal(t, territory.RelationID, back.RelationID)
	assert.Equal(t, territory.Ruler, back.Ruler)
	assert.Equal(t, territory.RadiusM, back.RadiusM)
	assert.Equal(t, territory.Boundary, back.Boundary)
}
