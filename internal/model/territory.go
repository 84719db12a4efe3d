package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"
)

// TerritoryPG model for PostgreSQL storage
type TerritoryPG struct {
	ID         string  `gorm:"primaryKey"`
	RelationID int64   `gorm:"uniqueIndex;not null"`
	Name       string  `gorm:"size:255;not null"`
	Ruler      string  `gorm:"size:255;not null"`
	Color      string  `gorm:"size:16;not null"`
	CenterLat  float64 `gorm:"not null"`
	CenterLng  float64 `gorm:"not null"`
	RadiusM    float64 `gorm:"not null"`
	Boundary   string  `gorm:"type:text;not null"`

	UpdatedAt time.Time      `gorm:"column:updated_at"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName overrides the table name
func (TerritoryPG) TableName() string {
	return "territories"
}

// Territory in-memory model
type Territory struct {
	ID         string  `json:"id"`
	RelationID int64   `json:"relation_id"`
	Name       string  `json:"name"`
	Ruler      string  `json:"ruler"`
	Color      string  `json:"color"`
	CenterLat  float64 `json:"center_lat"`
	CenterLng  float64 `json:"center_lng"`
	RadiusM    float64 `json:"radius_m"`
	Boundary   string  `json:"boundary"` // GeoJSON polygon as a string

	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"-"`

	// Cached data for quick access
	Ring        orb.Ring   `json:"-"` // Pre-parsed outline for quick calculations
	BoundingBox *orb.Bound `json:"-"` // Bounds of the outline for quick checks
}

// TerritoryFromPG creates a Territory from TerritoryPG
func TerritoryFromPG(pg *TerritoryPG) *Territory {
	return &Territory{
		ID:         pg.ID,
		RelationID: pg.RelationID,
		Name:       pg.Name,
		Ruler:      pg.Ruler,
		Color:      pg.Color,
		CenterLat:  pg.CenterLat,
		CenterLng:  pg.CenterLng,
		RadiusM:    pg.RadiusM,
		Boundary:   pg.Boundary,
		UpdatedAt:  pg.UpdatedAt,
		CreatedAt:  pg.CreatedAt,
	}
}

// ToPG creates a TerritoryPG for persistence
func (t *Territory) ToPG() *TerritoryPG {
	return &TerritoryPG{
		ID:         t.ID,
		RelationID: t.RelationID,
		Name:       t.Name,
		Ruler:      t.Ruler,
		Color:      t.Color,
		CenterLat:  t.CenterLat,
		CenterLng:  t.CenterLng,
		RadiusM:    t.RadiusM,
		Boundary:   t.Boundary,
		UpdatedAt:  t.UpdatedAt,
		CreatedAt:  t.CreatedAt,
	}
}

// SetRing stores the outline both as cached geometry and as its GeoJSON
// string form for persistence.
func (t *Territory) SetRing(ring orb.Ring) error {
	data, err := json.Marshal(geojson.NewGeometry(orb.Polygon{ring}))
	if err != nil {
		return fmt.Errorf("failed to encode boundary for territory %s: %w", t.ID, err)
	}

	bound := ring.Bound()
	t.Ring = ring
	t.BoundingBox = &bound
	t.Boundary = string(data)
	return nil
}

// EnsureGeometry parses the persisted GeoJSON boundary into the cached ring
// and bounding box. No-op when already parsed.
func (t *Territory) EnsureGeometry() error {
	if t.Ring != nil {
		return nil
	}

	geom, err := geojson.UnmarshalGeometry([]byte(t.Boundary))
	if err != nil {
		return fmt.Errorf("failed to parse boundary for territory %s: %w", t.ID, err)
	}

	polygon, ok := geom.Geometry().(orb.Polygon)
	if !ok || len(polygon) == 0 {
		return fmt.Errorf("boundary for territory %s is not a polygon", t.ID)
	}

	bound := polygon[0].Bound()
	t.Ring = polygon[0]
	t.BoundingBox = &bound
	return nil
}
