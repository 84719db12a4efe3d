package territory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"dominion/internal/model"
	"dominion/internal/overpass"
	pg "dominion/internal/postgres"
	redis_client "dominion/internal/redis"
	"dominion/internal/service/storage"
	"dominion/internal/util"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const TerritoryRedisKey = "territory"

// TerritorySpatial wraps a territory for R-tree indexing
type TerritorySpatial struct {
	Territory   *model.Territory
	BoundingBox *orb.Bound
}

// Bounds implements the rtreego.Spatial interface
func (t *TerritorySpatial) Bounds() rtreego.Rect {
	minX, minY := t.BoundingBox.Min[0], t.BoundingBox.Min[1]
	maxX, maxY := t.BoundingBox.Max[0], t.BoundingBox.Max[1]

	rect, _ := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)

	return rect
}

// TerritoryService manages territory data and spatial indexing
type TerritoryService struct {
	storage       storage.Storage[string, *model.Territory]
	spatialIndex  *rtreego.Rtree
	indexMutex    sync.RWMutex
	relationIndex map[int64]string // OSM relation ID -> territory ID
	relationMutex sync.RWMutex
	overpass      *overpass.Client
	initialized   bool
	initMutex     sync.RWMutex
}

var (
	territoryServiceInstance *TerritoryService
	territoryServiceOnce     sync.Once
)

// GetTerritoryService returns the singleton instance of the TerritoryService
func GetTerritoryService() *TerritoryService {
	territoryServiceOnce.Do(func() {
		territoryServiceInstance = &TerritoryService{
			storage:       storage.NewMemoryStorage[string, *model.Territory](),
			spatialIndex:  rtreego.NewTree(2, 25, 50), // 2D index with min 25, max 50 entries per node
			relationIndex: make(map[int64]string),
		}
	})
	return territoryServiceInstance
}

// InitService loads territories from PostgreSQL and Redis and builds the
// spatial index
func (s *TerritoryService) InitService(ctx context.Context, ovClient *overpass.Client) error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if s.initialized {
		return nil
	}

	s.overpass = ovClient

	log.Println("Initializing TerritoryService...")
	startTime := time.Now()

	// Step 1: Load full data from PostgreSQL
	log.Println("Loading territories from PostgreSQL...")
	pgRows, err := pg.LoadAllTerritories()
	if err != nil {
		return fmt.Errorf("failed to load territories from PostgreSQL: %w", err)
	}
	log.Printf("Loaded %d territories from PostgreSQL in %v", len(pgRows), time.Since(startTime))

	for _, row := range pgRows {
		s.storage.Set(row.ID, model.TerritoryFromPG(row))
	}

	// Step 2: Overlay newer updates from Redis
	log.Println("Loading territory updates from Redis...")
	redisTerritories, err := s.loadAllFromRedis(ctx)
	if err != nil {
		return fmt.Errorf("failed to load territories from Redis: %w", err)
	}

	merged := 0
	for id, t := range redisTerritories {
		existing, ok := s.storage.Get(id)
		if !ok || t.UpdatedAt.After(existing.UpdatedAt) {
			s.storage.Set(id, t)
			merged++
		}
	}
	log.Printf("Merged %d newer territories from Redis", merged)

	// Step 3: Parse geometry and build the spatial index
	indexed := 0
	for _, t := range s.storage.GetAllValues() {
		if err := t.EnsureGeometry(); err != nil {
			log.Printf("Skipping territory %s: %v", t.ID, err)
			continue
		}
		s.indexTerritory(t)
		indexed++
	}
	log.Printf("Indexed %d territories", indexed)

	// Loading is not a modification; nothing needs flushing yet
	keys := make([]string, 0, s.storage.Count())
	for id := range s.storage.GetAll() {
		keys = append(keys, id)
	}
	s.storage.ClearDirty(keys)

	log.Printf("Initialization complete: %d territories in memory, took %v",
		s.storage.Count(), time.Since(startTime))

	s.initialized = true
	return nil
}

// loadAllFromRedis loads all territories stored in Redis
func (s *TerritoryService) loadAllFromRedis(ctx context.Context) (map[string]*model.Territory, error) {
	client := redis_client.GetClient()
	pattern := fmt.Sprintf("%s:*", TerritoryRedisKey)

	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	territories := make(map[string]*model.Territory, len(keys))
	for _, key := range keys {
		data, err := client.Get(ctx, key).Result()
		if err != nil {
			log.Printf("Failed to read %s from Redis: %v", key, err)
			continue
		}

		var t model.Territory
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			log.Printf("Failed to unmarshal territory from %s: %v", key, err)
			continue
		}
		territories[t.ID] = &t
	}

	return territories, nil
}

// indexTerritory adds a territory to the spatial and relation indexes
func (s *TerritoryService) indexTerritory(t *model.Territory) {
	s.indexMutex.Lock()
	s.spatialIndex.Insert(&TerritorySpatial{Territory: t, BoundingBox: t.BoundingBox})
	s.indexMutex.Unlock()

	s.relationMutex.Lock()
	s.relationIndex[t.RelationID] = t.ID
	s.relationMutex.Unlock()
}

// knownRelation reports whether an OSM relation is already a territory
func (s *TerritoryService) knownRelation(relationID int64) bool {
	s.relationMutex.RLock()
	defer s.relationMutex.RUnlock()

	_, ok := s.relationIndex[relationID]
	return ok
}

// GetTerritory returns a territory by ID
func (s *TerritoryService) GetTerritory(id string) (*model.Territory, bool) {
	return s.storage.Get(id)
}

// Count returns the number of territories in memory
func (s *TerritoryService) Count() int {
	return s.storage.Count()
}

// TerritoriesNear returns territories whose bounding boxes intersect a
// search rectangle of the given radius around the point
func (s *TerritoryService) TerritoriesNear(lat, lng, radiusMeters float64) []*model.Territory {
	// Convert radius from meters to degrees (approximate)
	radiusLat := radiusMeters / 111000.0
	radiusLng := util.MetersToDegrees(radiusMeters, lat)

	searchRect, _ := rtreego.NewRect(
		rtreego.Point{lng - radiusLng, lat - radiusLat},
		[]float64{2 * radiusLng, 2 * radiusLat},
	)

	s.indexMutex.RLock()
	results := s.spatialIndex.SearchIntersect(searchRect)
	s.indexMutex.RUnlock()

	territories := make([]*model.Territory, 0, len(results))
	for _, item := range results {
		territories = append(territories, item.(*TerritorySpatial).Territory)
	}
	return territories
}

// TerritoryAt returns the territory whose outline contains the point
func (s *TerritoryService) TerritoryAt(lat, lng float64) (*model.Territory, bool) {
	point := orb.Point{lng, lat}

	searchRect, _ := rtreego.NewRect(rtreego.Point{lng, lat}, []float64{1e-9, 1e-9})

	s.indexMutex.RLock()
	results := s.spatialIndex.SearchIntersect(searchRect)
	s.indexMutex.RUnlock()

	for _, item := range results {
		spatial := item.(*TerritorySpatial)
		if planar.RingContains(spatial.Territory.Ring, point) {
			return spatial.Territory, true
		}
	}
	return nil, false
}

// SaveDirtyToRedis writes modified territories to Redis
func (s *TerritoryService) SaveDirtyToRedis(ctx context.Context) error {
	dirty := s.storage.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	client := redis_client.GetClient()
	pipe := client.Pipeline()

	keys := make([]string, 0, len(dirty))
	for id, t := range dirty {
		data, err := json.Marshal(t)
		if err != nil {
			log.Printf("Failed to marshal territory %s: %v", id, err)
			continue
		}
		pipe.Set(ctx, fmt.Sprintf("%s:%s", TerritoryRedisKey, id), data, 0)
		keys = append(keys, id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save territories to Redis: %w", err)
	}

	log.Printf("Saved %d territories to Redis", len(keys))
	return nil
}

// SaveDirtyToPostgres writes modified territories to PostgreSQL and clears
// their dirty flags
func (s *TerritoryService) SaveDirtyToPostgres() error {
	dirty := s.storage.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	rows := make([]*model.TerritoryPG, 0, len(dirty))
	keys := make([]string, 0, len(dirty))
	for id, t := range dirty {
		rows = append(rows, t.ToPG())
		keys = append(keys, id)
	}

	if err := pg.UpsertTerritories(rows); err != nil {
		return err
	}

	s.storage.ClearDirty(keys)
	log.Printf("Saved %d territories to PostgreSQL", len(rows))
	return nil
}
