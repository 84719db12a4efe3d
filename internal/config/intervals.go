package config

import "time"

// Worker intervals
const (
	// RedisBackupInterval defines how often dirty territories are saved to Redis
	RedisBackupInterval = 10 * time.Second

	// PostgresBackupInterval defines how often dirty territories are saved to PostgreSQL
	PostgresBackupInterval = 60 * time.Second
)

// Discovery limits
const (
	// DiscoveryRadiusMeters is the search radius for boundary candidates
	// around the player position
	DiscoveryRadiusMeters = 30000.0

	// MaxTerritoriesPerDiscovery caps how many of the nearest candidates
	// become territories in one discovery pass
	MaxTerritoriesPerDiscovery = 35
)
