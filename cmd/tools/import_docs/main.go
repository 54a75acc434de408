package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trustmrr/catalog/internal/db"
	"github.com/trustmrr/catalog/internal/importer"
)

func main() {
	registryPath := flag.String("registry", "", "Path to a registry YAML overriding the embedded one")
	docsDir := flag.String("docs", "", "Directory holding the case-study documents (overrides registry)")
	seed := flag.Bool("seed", false, "Seed categories before importing")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *seed {
		count, err := importer.SeedCategories(ctx, pool)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("Seeded %d categories", count)
	}

	reg, err := importer.LoadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("Failed to load registry: %v", err)
	}
	if *docsDir != "" {
		reg.DocsDir = *docsDir
	}

	pipeline := importer.NewPipeline(pool, reg)
	stats, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Files", "Parsed", "Imported", "Errors", "Duration"})
	t.AppendRow(table.Row{stats.Files, stats.Parsed, stats.Imported, stats.Errors, stats.Duration.Round(time.Millisecond)})
	t.Render()
}
