package worker

import (
	"context"
	"log"
	"time"

	"dominion/internal/config"
	"dominion/internal/service/territory"
)

// StartTerritoryPersistenceWorkers starts the write-behind workers that
// flush modified territories to Redis and PostgreSQL
func StartTerritoryPersistenceWorkers() {
	territoryService := territory.GetTerritoryService()

	redisTicker := time.NewTicker(config.RedisBackupInterval)
	go func() {
		for range redisTicker.C {
			ctx, cancel := context.WithTimeout(context.Background(), config.RedisBackupInterval)
			if err := territoryService.SaveDirtyToRedis(ctx); err != nil {
				log.Printf("Redis backup failed: %v", err)
			}
			cancel()
		}
	}()

	pgTicker := time.NewTicker(config.PostgresBackupInterval)
	go func() {
		for range pgTicker.C {
			if err := territoryService.SaveDirtyToPostgres(); err != nil {
				log.Printf("PostgreSQL backup failed: %v", err)
			}
		}
	}()

	log.Println("Territory persistence workers started with intervals:",
		config.RedisBackupInterval, config.PostgresBackupInterval)
}
