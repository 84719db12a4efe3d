package territory

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"dominion/internal/boundary"
	"dominion/internal/config"
	"dominion/internal/model"
	"dominion/internal/overpass"
	"dominion/internal/util"

	"github.com/paulmach/orb"
)

// candidateResult is a boundary candidate that survived the geometry
// pipeline, ready to become a territory.
type candidateResult struct {
	RelationID int64
	Name       string
	Ring       orb.Ring
	Center     orb.Point
	RadiusM    float64
	DistanceM  float64 // distance from the discovery point to the center
}

// DiscoverTerritories fetches boundary candidates around a point, runs each
// through the assembly pipeline and turns the nearest ones into territories.
// Already known relations are skipped. Returns the newly created territories.
func (s *TerritoryService) DiscoverTerritories(ctx context.Context, lat, lng float64) ([]*model.Territory, error) {
	candidates, err := s.overpass.FetchBoundaries(ctx, lat, lng, config.DiscoveryRadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("boundary fetch failed: %w", err)
	}
	log.Printf("Discovery at (%.5f, %.5f): %d boundary candidates", lat, lng, len(candidates))

	results := make([]candidateResult, 0, len(candidates))
	for _, c := range candidates {
		if s.knownRelation(c.RelationID) {
			continue
		}
		if result, ok := processCandidate(c, lat, lng); ok {
			results = append(results, result)
		}
	}

	selected := selectNearest(results, config.MaxTerritoriesPerDiscovery)

	created := make([]*model.Territory, 0, len(selected))
	for _, r := range selected {
		t, err := s.createTerritory(r)
		if err != nil {
			log.Printf("Failed to create territory for %s: %v", r.Name, err)
			continue
		}
		created = append(created, t)
	}

	log.Printf("Discovery created %d territories out of %d usable candidates", len(created), len(results))
	return created, nil
}

// processCandidate runs one candidate through assemble, simplify and
// centroid. Returns false when the assembled outline is too small to be a
// usable boundary.
func processCandidate(c overpass.Candidate, lat, lng float64) (candidateResult, bool) {
	ring := boundary.Assemble(c.Chains)
	if len(ring) < boundary.MinBoundaryPoints {
		return candidateResult{}, false
	}

	ring = boundary.Simplify(ring, boundary.DefaultTargetPoints, boundary.DefaultMinimumPoints)
	center, radius := boundary.CentroidAndRadius(ring)

	return candidateResult{
		RelationID: c.RelationID,
		Name:       c.Name,
		Ring:       ring,
		Center:     center,
		RadiusM:    radius,
		DistanceM:  util.HaversineDistance(lat, lng, center[1], center[0]),
	}, true
}

// selectNearest keeps the limit closest candidates by centroid distance
func selectNearest(results []candidateResult, limit int) []candidateResult {
	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceM < results[j].DistanceM
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// createTerritory wraps a processed candidate into a stored, indexed
// territory with game attributes assigned.
func (s *TerritoryService) createTerritory(r candidateResult) (*model.Territory, error) {
	now := time.Now()
	t := &model.Territory{
		ID:         util.ShortUUID(),
		RelationID: r.RelationID,
		Name:       r.Name,
		Ruler:      randomRuler(),
		Color:      colorForIndex(s.storage.Count()),
		CenterLat:  r.Center[1],
		CenterLng:  r.Center[0],
		RadiusM:    r.RadiusM,
		UpdatedAt:  now,
		CreatedAt:  now,
	}

	if err := t.SetRing(r.Ring); err != nil {
		return nil, err
	}

	s.storage.Set(t.ID, t)
	s.indexTerritory(t)
	return t, nil
}

// rulerNames is the pool of generated rulers for newly discovered towns
var rulerNames = []string{
	"Aldric", "Brunhilda", "Casimir", "Dagmar", "Eldric",
	"Freya", "Godwin", "Helga", "Isolde", "Jorund",
	"Katla", "Leopold", "Morgana", "Njal", "Ottokar",
	"Ragnhild", "Sigurd", "Thyra", "Ulfric", "Vigdis",
}

// territoryColors is the render palette, cycled as territories are created
var territoryColors = []string{
	"#E63946", "#F4A261", "#E9C46A", "#2A9D8F", "#264653",
	"#8338EC", "#3A86FF", "#FB5607", "#FF006E", "#606C38",
}

func randomRuler() string {
	return rulerNames[rand.Intn(len(rulerNames))]
}

func colorForIndex(i int) string {
	return territoryColors[i%len(territoryColors)]
}
