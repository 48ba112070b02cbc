package main

import (
	"log"

	"webplatform/internal/config"
	"webplatform/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Copies a sqlite database (DB_PATH) into the configured PostgreSQL database.
func main() {
	cfg := config.LoadConfig()

	// 1. Connect to SQLite (Source)
	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	// 2. Connect to PostgreSQL (Destination)
	pgCfg := *cfg
	pgCfg.DBDriver = "postgres"
	database.InitGorm(&pgCfg)

	log.Println("Starting data migration...")
	if err := database.CopyAll(sqliteDB, database.GormDB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := database.SyncSequences(database.GormDB); err != nil {
		log.Fatalf("Migration finished but sequences are out of date: %v", err)
	}

	log.Println("Migration completed!")
}
