package main

import (
	"context"
	"flag"
	"log"

	"github.com/mealtrack/catalog-backend/config"
	"github.com/mealtrack/catalog-backend/internal/ingest"
	"github.com/mealtrack/catalog-backend/internal/search"
	"github.com/mealtrack/catalog-backend/internal/service"
	"github.com/mealtrack/catalog-backend/internal/store"
)

// Bulk loader: reads a catalog CSV (local file or s3://bucket/key) and
// replaces the contents of the local catalog database with it.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sourceFlag := flag.String("source", cfg.CatalogSource, "catalog source: CSV path or s3://bucket/key")
	dbFlag := flag.String("db", cfg.DBPath, "path to the catalog database file")
	regionFlag := flag.String("region", cfg.AWSRegion, "AWS region for s3 sources")
	flag.Parse()

	if *sourceFlag == "" {
		log.Fatal("No catalog source given: set -source or CATALOG_SOURCE")
	}

	ctx := context.Background()
	src, err := ingest.ResolveSource(ctx, *sourceFlag, *regionFlag)
	if err != nil {
		log.Fatalf("Failed to resolve catalog source: %v", err)
	}

	st := store.New(*dbFlag)
	catalog := service.NewCatalogService(st, search.DefaultWeights())
	defer st.Close()

	summary, err := catalog.Refresh(ctx, src)
	if err != nil {
		log.Fatalf("Failed to refresh catalog: %v", err)
	}

	for _, rowErr := range summary.Errors {
		log.Printf("Skipped %v", rowErr)
	}
	log.Printf("Catalog refresh complete: %d imported, %d skipped", summary.Imported, summary.Skipped)
}
