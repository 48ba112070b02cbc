package database

import (
	"fmt"
	"log"
	"strconv"

	"webplatform/internal/config"
	"webplatform/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

// InitGorm opens the configured database, runs auto-migration and stores the
// handle in GormDB. Failures are fatal.
func InitGorm(cfg *config.Config) {
	var err error
	GormDB, err = Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to %s successfully", cfg.DBDriver)

	if err := Migrate(GormDB); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	log.Println("Database migration completed")
}

// Open connects to sqlite (DBPath) or PostgreSQL depending on cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	switch cfg.DBDriver {
	case "", "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBPath), gormCfg)
	case "postgres":
		return gorm.Open(postgres.Open(PostgresDSN(cfg)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

func PostgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}

// SyncConfig lets the system_settings table override app store settings.
// Values missing from the table are seeded from the loaded configuration.
func SyncConfig(db *gorm.DB, cfg *config.Config) {
	settings := []struct {
		Key   string
		Get   func() string
		Apply func(string) error
	}{
		{
			Key: "appstoreenabled",
			Get: func() string { return strconv.FormatBool(cfg.AppStoreEnabled) },
			Apply: func(v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return err
				}
				cfg.AppStoreEnabled = b
				return nil
			},
		},
		{
			Key: "appstoreurl",
			Get: func() string { return cfg.AppStoreURL },
			Apply: func(v string) error {
				cfg.AppStoreURL = v
				return nil
			},
		},
	}

	for _, s := range settings {
		var setting models.SystemSetting
		if err := db.Where(&models.SystemSetting{Key: s.Key}).First(&setting).Error; err == nil {
			// Found in DB, update memory config
			if setting.Value != "" {
				if err := s.Apply(setting.Value); err != nil {
					log.Printf("Ignoring invalid system setting %s=%q: %v", s.Key, setting.Value, err)
				}
			}
		} else {
			// Not found in DB, save current config to DB
			if value := s.Get(); value != "" {
				db.Create(&models.SystemSetting{
					Key:   s.Key,
					Value: value,
				})
			}
		}
	}
	log.Println("System settings synchronized from database")
}
