package main

import (
	"log"

	"webplatform/internal/config"
	"webplatform/internal/database"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.DBDriver != "postgres" {
		log.Fatalf("Sequences only exist on postgres, DB_DRIVER is %q", cfg.DBDriver)
	}
	database.InitGorm(cfg)

	log.Println("Syncing PostgreSQL sequences...")
	if err := database.SyncSequences(database.GormDB); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Println("DONE!")
}
