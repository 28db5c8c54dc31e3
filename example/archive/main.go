package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/joho/godotenv"
	"github.com/siherrmann/kinship"
	"github.com/siherrmann/kinship/enrich"
	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgresContainer starts a PostgreSQL container with a bind-mounted
// data directory, so repeated runs of the archive ingest keep their data.
func startPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	dataDir := "./data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path for data directory: %w", err)
	}

	// When the database already exists, PostgreSQL doesn't re-initialize,
	// so the ready message only appears once instead of twice
	pgVersionFile := filepath.Join(absDataDir, "PG_VERSION")
	_, err = os.Stat(pgVersionFile)
	dbExists := err == nil

	waitOccurrences := 2
	if dbExists {
		waitOccurrences = 1
		fmt.Printf("Using existing persistent database in: %s\n", absDataDir)
	} else {
		fmt.Printf("Creating new persistent database in: %s\n", absDataDir)
	}

	options := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase("database"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(waitOccurrences),
		),
		testcontainers.WithHostConfigModifier(func(hc *container.HostConfig) {
			hc.Mounts = append(hc.Mounts, mount.Mount{
				Type:   mount.TypeBind,
				Source: absDataDir,
				Target: "/var/lib/postgresql/data",
			})
		}),
	}

	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		options...,
	)
	if err != nil {
		return nil, "", fmt.Errorf("error starting postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("error getting connection string: %w", err)
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing connection string: %v", err)
	}

	return pgContainer.Terminate, u.Port(), nil
}

func main() {
	// Optional .env with ANTHROPIC_API_KEY for ship enrichment
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, continuing with process environment")
	}

	narrativeDir := "./narratives"
	if len(os.Args) > 1 {
		narrativeDir = os.Args[1]
	}

	teardown, dbPort, err := startPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	k, err := kinship.NewKinship(dbConfig)
	if err != nil {
		log.Fatalf("Failed to create kinship: %v", err)
	}
	defer k.Close()

	// Check existing documents to avoid re-processing on repeated runs
	existingDocs, err := checkExistingDocuments(k, narrativeDir)
	if err != nil {
		log.Printf("Warning: could not check existing documents: %v", err)
		existingDocs = make(map[string]bool)
	}
	if len(existingDocs) > 0 {
		fmt.Printf("Found %d existing documents in database\n", len(existingDocs))
	}

	entries, err := os.ReadDir(narrativeDir)
	if err != nil {
		log.Fatalf("Failed to read narrative directory %s: %v", narrativeDir, err)
	}

	var results []*model.ParseResult
	processed := 0
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		path := filepath.Join(narrativeDir, entry.Name())

		if existingDocs[path] {
			fmt.Printf("Skipping %s - already processed\n", entry.Name())
			skipped++
			continue
		}

		doc, err := model.NewDocumentFromFile(path, model.Metadata{
			"archive": narrativeDir,
		})
		if err != nil {
			log.Printf("Warning: failed to read %s: %v, skipping...", entry.Name(), err)
			continue
		}

		fmt.Printf("Processing %s...\n", doc.Title)
		result, err := k.ParseDocument(doc)
		if err != nil {
			log.Printf("Warning: failed to parse %s: %v, skipping...", doc.Title, err)
			continue
		}
		if err := k.SaveResult(result); err != nil {
			log.Printf("Warning: failed to save %s: %v, skipping...", doc.Title, err)
			continue
		}

		fmt.Printf("  Saved %d profiles from %s\n", len(result.Profiles), doc.Title)
		results = append(results, result)
		processed++
	}

	fmt.Printf("\nArchive status:\n")
	fmt.Printf("  - Processed: %d narratives\n", processed)
	fmt.Printf("  - Skipped (already in DB): %d narratives\n", skipped)

	// Ship enrichment runs only when an API key is available; the SQLite cache
	// in the data directory survives restarts alongside the database.
	enrichShips(k, results)
}

// checkExistingDocuments returns the sources of documents already ingested
// from the narrative directory.
func checkExistingDocuments(k *kinship.Kinship, narrativeDir string) (map[string]bool, error) {
	docs, err := k.Documents.SelectAllDocuments(nil, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	existingDocs := make(map[string]bool)
	for _, doc := range docs {
		if strings.HasPrefix(doc.Source, narrativeDir) {
			existingDocs[doc.Source] = true
		}
	}
	return existingDocs, nil
}

func enrichShips(k *kinship.Kinship, results []*model.ParseResult) {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("\nANTHROPIC_API_KEY not set, skipping ship enrichment")
		return
	}

	cache, err := enrich.NewSQLiteCache("./data/enrich-cache.db")
	if err != nil {
		log.Printf("Warning: failed to open enrichment cache: %v", err)
		return
	}
	defer cache.Flush()

	ships, err := enrich.NewShipEnricher("", cache, nil)
	if err != nil {
		log.Printf("Warning: failed to create ship enricher: %v", err)
		return
	}

	ctx := context.Background()
	for _, result := range results {
		enriched, err := k.Enrich(ctx, result, kinship.EnrichOptions{Ships: ships})
		if err != nil {
			log.Printf("Warning: enrichment failed for %s: %v", result.Document.Title, err)
			continue
		}
		for id, e := range enriched {
			for name, spec := range e.Ships {
				fmt.Printf("{%s} sailed on the %s: built %s, %s masts\n",
					id, name, spec.YearBuilt, spec.Masts)
			}
		}
	}
}
