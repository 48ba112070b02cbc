package main

import (
	"context"
	"log"
	"os"

	"webplatform/internal/config"
	"webplatform/internal/contacts"
	"webplatform/internal/database"
)

// Usage: import_contacts <file.vcf>
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Usage: %s <file.vcf>", os.Args[0])
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to open %s: %v", os.Args[1], err)
	}
	defer f.Close()

	cfg := config.LoadConfig()
	database.InitGorm(cfg)
	backend := database.NewContactBackend(database.GormDB)

	skipped := 0
	cards, err := contacts.DecodeCards(f, func(err error) {
		log.Printf("Skipping unreadable card: %v", err)
		skipped++
	})
	if err != nil {
		log.Fatalf("Failed to read %s: %v", os.Args[1], err)
	}

	ctx := context.Background()
	imported := 0
	for _, card := range cards {
		contact, err := backend.Save(ctx, card)
		if err != nil {
			log.Printf("Error saving contact: %v", err)
			continue
		}
		log.Printf("Imported %s (%s)", contact.FullName, contact.UID)
		imported++
	}

	total, err := backend.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count contacts: %v", err)
	}
	log.Printf("Imported %d contact(s), skipped %d, address book now holds %d", imported, skipped, total)
}
