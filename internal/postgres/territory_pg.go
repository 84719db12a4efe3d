package postgres

import (
	"fmt"

	"dominion/internal/model"

	"gorm.io/gorm/clause"
)

// LoadAllTerritories loads every territory row from PostgreSQL
func LoadAllTerritories() ([]*model.TerritoryPG, error) {
	var rows []*model.TerritoryPG

	result := DB.Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load territories: %w", result.Error)
	}

	return rows, nil
}

// UpsertTerritories inserts or updates territories in one batched statement
func UpsertTerritories(rows []*model.TerritoryPG) error {
	if len(rows) == 0 {
		return nil
	}

	result := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(rows, 100)

	if result.Error != nil {
		return fmt.Errorf("failed to upsert territories: %w", result.Error)
	}

	return nil
}
