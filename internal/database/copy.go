package database

import (
	"fmt"
	"log"

	"webplatform/internal/models"

	"gorm.io/gorm"
)

const copyBatchSize = 100

// CopyAll copies every managed table from src to dst, one transaction per
// table. Tables are copied in models.All order and the first failure stops
// the copy.
func CopyAll(src, dst *gorm.DB) error {
	steps := []struct {
		table string
		copy  func(src, dst *gorm.DB) (int, error)
	}{
		{"contacts", copyTable[models.Contact]},
		{"preferences", copyTable[models.Preference]},
		{"appconfig", copyTable[models.AppConfig]},
		{"catalog_cache_files", copyTable[models.CatalogCacheFile]},
		{"system_settings", copyTable[models.SystemSetting]},
	}

	for _, step := range steps {
		log.Printf("Migrating table: %s", step.table)
		n, err := step.copy(src, dst)
		if err != nil {
			return fmt.Errorf("migrating %s: %w", step.table, err)
		}
		log.Printf("Successfully migrated %d row(s) of %s", n, step.table)
	}
	return nil
}

func copyTable[T any](src, dst *gorm.DB) (int, error) {
	var rows []T
	if err := src.Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("reading: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := dst.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, copyBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("writing: %w", err)
	}
	return len(rows), nil
}

// SyncSequences moves the PostgreSQL id sequence of every serial table past
// the highest stored id, which is needed after rows were copied in with
// explicit ids.
func SyncSequences(db *gorm.DB) error {
	for _, table := range []string{"contacts"} {
		query := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), coalesce(max(id), 0) + 1, false) FROM " + table
		if err := db.Exec(query).Error; err != nil {
			return fmt.Errorf("syncing sequence for %s: %w", table, err)
		}
		log.Printf("Successfully synced sequence for %s", table)
	}
	return nil
}
