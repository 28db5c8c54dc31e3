package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/siherrmann/kinship"
	"github.com/siherrmann/kinship/core/graph"
	"github.com/siherrmann/kinship/model"
)

const sampleNarrative = `GENERATION I

John Hale {1} [source: 12]
Born: 1750 in Boston
Died: 1820 in Boston, Massachusetts
Children: James Hale (1775); Sarah Hale
NOTES: He was a mariner and sailed on the Sea Venture. [Ship: Sea Venture | Type: Barque | Year: 1768 | Departure: London | Arrival: Boston]

Mary Hale {2}
Born: 1752 in Hartford
Died: 1830
NOTES: She married John Hale.

GENERATION II

James Hale {1.1}
Born: 1775 in Boston
Died: 1840 in New York
NOTES: He was a soldier in the militia during the War of 1812.`

func main() {
	// No database needed for a pure pipeline run
	k := kinship.NewKinshipInMemory()

	doc := &model.Document{
		Title:   "The Hale Family of Boston",
		Source:  "basic_example",
		Content: sampleNarrative,
		Metadata: model.Metadata{
			"compiler": "Example Compiler",
			"lineage":  "Hale",
		},
	}

	result, err := k.ParseDocument(doc)
	if err != nil {
		log.Fatalf("Failed to parse document: %v", err)
	}

	fmt.Printf("Extracted %d profiles from %q\n\n", len(result.Profiles), doc.Title)

	for _, p := range result.Profiles {
		fmt.Printf("{%s} %s (%s)\n", p.ID, p.Name, p.Generation)
		if p.VitalStats.BornDate != "" || p.VitalStats.DiedDate != "" {
			fmt.Printf("  Born %s in %s, died %s in %s\n",
				orUnknown(p.VitalStats.BornDate), orUnknown(p.VitalStats.BornLocation),
				orUnknown(p.VitalStats.DiedDate), orUnknown(p.VitalStats.DiedLocation))
		}
		if len(p.Relations.Parents) > 0 {
			fmt.Printf("  Parents: %s\n", strings.Join(p.Relations.Parents, ", "))
		}
		if len(p.Relations.Children) > 0 {
			fmt.Printf("  Children: %s\n", strings.Join(p.Relations.Children, ", "))
		}
		if len(p.Relations.Spouses) > 0 {
			fmt.Printf("  Spouses: %s\n", strings.Join(p.Relations.Spouses, ", "))
		}
		for _, link := range p.RelatedLinks {
			fmt.Printf("  %s -> {%s} (%q)\n", link.Type, link.TargetID, link.SourceText)
		}
		for _, voyage := range p.Story.Voyages {
			fmt.Printf("  Voyage: %s (%s, %s)\n", voyage.ShipName, voyage.Type, voyage.Year)
		}
		if len(p.Story.Tags) > 0 {
			fmt.Printf("  Tags: %s\n", strings.Join(p.Story.Tags, ", "))
		}
		fmt.Println()
	}

	// Walk the family tree upward from James Hale
	fmt.Println("Ancestors of James Hale {1.1}:")
	for _, ancestor := range graph.Ancestors(result.Registry, "1.1", 5) {
		fmt.Printf("  %d generation(s) up: {%s} %s\n",
			ancestor.Distance, ancestor.Profile.ID, ancestor.Profile.Name)
	}
	fmt.Println()

	if len(result.Audit) > 0 {
		fmt.Println("Profiles needing review:")
		for _, issue := range result.Audit {
			fmt.Printf("  {%s} %s (score %d): %s\n",
				issue.ProfileID, issue.Name, issue.Score, strings.Join(issue.Issues, "; "))
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
