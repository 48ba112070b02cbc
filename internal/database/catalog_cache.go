package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"webplatform/internal/catalog"
	"webplatform/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cacheAppID = "core"

// CatalogCache keeps app store responses in catalog_cache_files and their
// fetch time, in unix seconds, as an appconfig value.
type CatalogCache struct {
	db *gorm.DB
}

func NewCatalogCache(db *gorm.DB) *CatalogCache {
	return &CatalogCache{db: db}
}

func timestampKey(key string) string {
	return key + "-timestamp"
}

func (c *CatalogCache) Get(ctx context.Context, key string) (catalog.CacheRecord, bool, error) {
	db := c.db.WithContext(ctx)

	var file models.CatalogCacheFile
	if err := db.Where(&models.CatalogCacheFile{Key: key}).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.CacheRecord{}, false, nil
		}
		return catalog.CacheRecord{}, false, fmt.Errorf("reading cache file %s: %w", key, err)
	}

	record := catalog.CacheRecord{Data: []byte(file.Content)}

	// A file without a timestamp is kept but always considered stale.
	var ts models.AppConfig
	err := db.Where("appid = ? AND configkey = ?", cacheAppID, timestampKey(key)).First(&ts).Error
	switch {
	case err == nil:
		secs, perr := strconv.ParseInt(ts.ConfigValue, 10, 64)
		if perr == nil {
			record.FetchedAt = time.Unix(secs, 0)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return catalog.CacheRecord{}, false, fmt.Errorf("reading cache timestamp %s: %w", key, err)
	}

	return record, true, nil
}

func (c *CatalogCache) Put(ctx context.Context, key string, record catalog.CacheRecord) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		file := models.CatalogCacheFile{Key: key, Content: string(record.Data)}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&file).Error; err != nil {
			return fmt.Errorf("writing cache file %s: %w", key, err)
		}

		ts := models.AppConfig{
			AppID:       cacheAppID,
			ConfigKey:   timestampKey(key),
			ConfigValue: strconv.FormatInt(record.FetchedAt.Unix(), 10),
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ts).Error; err != nil {
			return fmt.Errorf("writing cache timestamp %s: %w", key, err)
		}
		return nil
	})
}
