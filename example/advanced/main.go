package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/siherrmann/kinship"
	"github.com/siherrmann/kinship/enrich"
	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
)

const haleNarrative = `GENERATION I

John Hale {1}
Born: 1750 in Boston
Died: 1820 in Boston, Massachusetts
Children: James Hale (1775); Sarah Hale
NOTES: He was a mariner and arrived on the Mary Anne.

Mary Hale {2}
Born: 1752 in Hartford
Died: 1830 in Hartford
NOTES: She married John Hale.

GENERATION II

James Hale {1.1}
Born: 1775 in Boston
Died: 1840 in New York
NOTES: He enlisted in the militia and was the son of John Hale.`

const warrenNarrative = `GENERATION I

Thomas Warren {1}
Born: bef 1700 in England
Died: 1765 in Plymouth Colony
NOTES: He emigrated and settled in America, crossing on the Fortune.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
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

	// Parse and persist both family narratives
	fmt.Println("=== Ingesting Documents ===")
	documents := []*model.Document{
		{
			Title:    "The Hale Family of Boston",
			Source:   "advanced_example",
			Content:  haleNarrative,
			Metadata: model.Metadata{"lineage": "Hale"},
		},
		{
			Title:    "The Warren Line",
			Source:   "advanced_example",
			Content:  warrenNarrative,
			Metadata: model.Metadata{"lineage": "Warren"},
		},
	}

	results := make([]*model.ParseResult, 0, len(documents))
	for _, doc := range documents {
		result, err := k.ParseDocument(doc)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", doc.Title, err)
		}
		if err := k.SaveResult(result); err != nil {
			log.Fatalf("Failed to save %s: %v", doc.Title, err)
		}
		fmt.Printf("Saved %q (RID: %s): %d profiles\n", doc.Title, doc.RID, len(result.Profiles))
		results = append(results, result)
	}

	haleDoc := documents[0]

	// Query profiles back by generation
	fmt.Println("\n=== Generation II of the Hale family ===")
	profiles, err := k.Profiles.SelectProfilesByGeneration(haleDoc.ID, "GENERATION II")
	if err != nil {
		log.Fatalf("Failed to query by generation: %v", err)
	}
	for _, p := range profiles {
		fmt.Printf("{%s} %s, born %s\n", p.ID, p.Name, p.VitalStats.BornDate)
	}

	// Full-text search over names and notes
	fmt.Println("\n=== Search: \"mariner\" ===")
	profiles, err = k.Profiles.SelectProfilesBySearch(haleDoc.ID, "mariner", 10)
	if err != nil {
		log.Fatalf("Failed to search profiles: %v", err)
	}
	for _, p := range profiles {
		fmt.Printf("{%s} %s: %s\n", p.ID, p.Name, p.Story.Notes)
	}

	// Mention links discovered in the notes
	fmt.Println("\n=== Links to John Hale {1} ===")
	links, err := k.Links.SelectLinksToProfile(haleDoc.ID, "1")
	if err != nil {
		log.Fatalf("Failed to query links: %v", err)
	}
	for _, link := range links {
		fmt.Printf("{%s} -[%s]-> {%s} (%q)\n",
			link.SourceProfile, link.Type, link.TargetProfile, link.SourceText)
	}

	// Geocode birth and death locations through the local tiers
	fmt.Println("\n=== Enrichment (local geocoding tiers) ===")
	geocoder := enrich.NewGeocoder(k.Gazetteer, enrich.NewMemoryCache(), nil, nil)
	enriched, err := k.Enrich(context.Background(), results[0], kinship.EnrichOptions{Geocoder: geocoder})
	if err != nil {
		log.Fatalf("Failed to enrich: %v", err)
	}
	for id, e := range enriched {
		if e.BornGeo != nil {
			fmt.Printf("{%s} born at %.4f, %.4f (tier %d)\n", id, e.BornGeo.Lat, e.BornGeo.Lng, e.BornGeo.Tier)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 20))
	fmt.Println("Done.")
}
