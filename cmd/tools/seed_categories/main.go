package main

import (
	"context"
	"log"

	"github.com/trustmrr/catalog/internal/db"
	"github.com/trustmrr/catalog/internal/importer"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	count, err := importer.SeedCategories(ctx, pool)
	if err != nil {
		log.Fatalf("Seeding failed after %d categories: %v", count, err)
	}
	log.Printf("Seeded %d categories", count)
}
