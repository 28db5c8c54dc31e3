package kinship

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/kinship/core/children"
	"github.com/siherrmann/kinship/core/linker"
	"github.com/siherrmann/kinship/core/mention"
	"github.com/siherrmann/kinship/core/scanner"
	"github.com/siherrmann/kinship/core/tags"
	"github.com/siherrmann/kinship/core/vitals"
	"github.com/siherrmann/kinship/database"
	"github.com/siherrmann/kinship/enrich"
	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
	loadSql "github.com/siherrmann/kinship/sql"
)

// Kinship provides a unified interface to the extraction pipeline and the
// database handlers
type Kinship struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Profiles  *database.ProfilesDBHandler
	Links     *database.LinksDBHandler
	// Pipeline configuration
	Config    model.ParseConfig
	Policy    linker.PairingPolicy
	Gazetteer *vitals.Gazetteer
	Rules     *tags.RuleSet
	// Logging
	log *slog.Logger
}

// NewKinship creates a new Kinship instance with all handlers initialized
func NewKinship(config *helper.DatabaseConfiguration) (*Kinship, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("kinship", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (documents first, profiles and
	// links reference them). force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	profiles, err := database.NewProfilesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create profiles handler", err)
	}

	links, err := database.NewLinksDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create links handler", err)
	}

	return &Kinship{
		DB:        db,
		Documents: documents,
		Profiles:  profiles,
		Links:     links,
		Config:    model.DefaultParseConfig(),
		Policy:    linker.AhnentafelPolicy{},
		Gazetteer: vitals.DefaultGazetteer(),
		Rules:     tags.DefaultRuleSet(),
		log:       logger,
	}, nil
}

// NewKinshipInMemory creates a Kinship instance without a database connection,
// for pure pipeline use. SaveResult returns an error on such an instance.
func NewKinshipInMemory() *Kinship {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &Kinship{
		Config:    model.DefaultParseConfig(),
		Policy:    linker.AhnentafelPolicy{},
		Gazetteer: vitals.DefaultGazetteer(),
		Rules:     tags.DefaultRuleSet(),
		log:       logger,
	}
}

// Close closes the database connection
func (k *Kinship) Close() error {
	if k.DB != nil && k.DB.Instance != nil {
		return k.DB.Instance.Close()
	}
	return nil
}

// SetPairingPolicy replaces the spouse pairing policy used by the
// relationship linker
func (k *Kinship) SetPairingPolicy(policy linker.PairingPolicy) {
	k.Policy = policy
}

// ParseDocument runs the full extraction pipeline over one document:
// 1. Scan paragraphs into profiles (section headers, identifier tokens, fields)
// 2. Expand inline children lists into synthetic child profiles
// 3. Parse raw born/died field text into normalized vitals
// 4. Derive structural family links from identifier structure
// 5. Reconcile synthetic children against canonical profiles
// 6. Resolve name mentions in notes into typed, reciprocal links
// 7. Extract voyages, classify tags, detect naming echoes, audit
// The pipeline is deterministic: the same document content always yields the
// same result, including link ids.
func (k *Kinship) ParseDocument(doc *model.Document) (*model.ParseResult, error) {
	out, err := scanner.NewScanner(k.log).Scan(doc)
	if err != nil {
		return nil, helper.NewError("scan document", err)
	}

	k.log.Info("Scanned document",
		slog.String("title", doc.Title),
		slog.Int("profiles", len(out.Profiles)),
		slog.Int("duplicates", len(out.DuplicateIDs)))

	// Build the registry from the closed profile set, then expand children
	// lists. Duplicate ids were already skipped during the scan, so Add only
	// fails on a synthetic id collision.
	reg := model.NewRegistry()
	duplicates := append([]string{}, out.DuplicateIDs...)
	for _, p := range out.Profiles {
		if err := reg.Add(p); err != nil {
			duplicates = append(duplicates, p.ID)
		}
	}

	for _, p := range out.Profiles {
		for _, child := range children.ParseChildren(p, p.ChildrenRaw) {
			if err := reg.Add(child); err != nil {
				k.log.Warn("Skipping colliding synthetic child id", slog.String("id", child.ID))
				duplicates = append(duplicates, child.ID)
			}
		}
	}

	// Vitals on every profile, canonical and synthetic
	vitalsParser := vitals.NewParser(k.Gazetteer)
	for _, p := range reg.All() {
		vitalsParser.Apply(p)
	}

	// Structural links from identifier structure, then child reconciliation
	linker.NewLinker(k.Policy, k.log).Link(reg)
	children.NewReconciler(k.Config, k.log).Reconcile(reg)

	// Mention resolution over the closed set
	idx := mention.BuildIndex(reg)
	unresolved := mention.NewResolver(k.Config, k.log).Resolve(reg, idx)

	// Story derivations
	classifier := tags.NewClassifier(k.Rules, k.Gazetteer, k.Config)
	for _, p := range reg.All() {
		tags.ExtractVoyages(p)
		classifier.Classify(p)
	}
	tags.DetectNamingEchoes(reg)

	audit := tags.Audit(reg)
	for _, issue := range audit {
		k.log.Debug("Audit finding",
			slog.String("id", issue.ProfileID),
			slog.Int("score", issue.Score),
			slog.Any("issues", issue.Issues))
	}

	return &model.ParseResult{
		Document:           doc,
		Profiles:           reg.All(),
		Registry:           reg,
		DuplicateIDs:       duplicates,
		UnresolvedMentions: unresolved,
		Audit:              audit,
	}, nil
}

// SaveResult persists the parsed document with its narrative content, its
// profiles and its mention links.
func (k *Kinship) SaveResult(result *model.ParseResult) error {
	if k.Documents == nil || k.Profiles == nil || k.Links == nil {
		return helper.NewError("save result", fmt.Errorf("no database connection, use NewKinship"))
	}
	if result == nil || result.Document == nil {
		return helper.NewError("save result", fmt.Errorf("result has no document"))
	}

	doc := result.Document
	if err := k.Documents.InsertDocument(doc); err != nil {
		return helper.NewError("insert document", err)
	}

	k.log.Info("Inserted document", slog.String("document_id", doc.RID.String()), slog.String("title", doc.Title))

	for _, profile := range result.Profiles {
		if err := k.Profiles.InsertProfile(doc.ID, profile); err != nil {
			return helper.NewError(fmt.Sprintf("insert profile %s", profile.ID), err)
		}
		for _, link := range profile.RelatedLinks {
			if err := k.Links.InsertLink(doc.ID, profile.ID, link); err != nil {
				return helper.NewError(fmt.Sprintf("insert link %s", link.ID), err)
			}
		}
	}

	k.log.Info("Saved parse result", slog.Int("profiles", len(result.Profiles)))

	return nil
}

// EnrichOptions holds the optional external collaborators of an enrichment
// pass. A nil collaborator skips its part of the pass.
type EnrichOptions struct {
	Geocoder   *enrich.Geocoder
	Ships      *enrich.ShipEnricher
	HeroImages *enrich.HeroImageFetcher
}

// ProfileEnrichment holds everything an enrichment pass found for one profile.
// Fields stay nil when a collaborator was skipped or came up empty.
type ProfileEnrichment struct {
	BornGeo   *enrich.GeoResult
	DiedGeo   *enrich.GeoResult
	Ships     map[string]*enrich.ShipSpec
	HeroImage *enrich.HeroImage
}

// Enrich runs the optional enrichment pass over a parse result. Collaborator
// failures are non-fatal: the affected field stays nil and the pass proceeds.
func (k *Kinship) Enrich(ctx context.Context, result *model.ParseResult, opts EnrichOptions) (map[string]*ProfileEnrichment, error) {
	if result == nil {
		return nil, helper.NewError("enrich", fmt.Errorf("result is nil"))
	}

	enriched := make(map[string]*ProfileEnrichment)
	for _, profile := range result.Profiles {
		e := &ProfileEnrichment{}

		if opts.Geocoder != nil {
			if geo, err := opts.Geocoder.Geocode(ctx, profile.VitalStats.BornLocation); err == nil {
				e.BornGeo = geo
			}
			if geo, err := opts.Geocoder.Geocode(ctx, profile.VitalStats.DiedLocation); err == nil {
				e.DiedGeo = geo
			}
		}

		if opts.Ships != nil && len(profile.Story.Voyages) > 0 {
			e.Ships = make(map[string]*enrich.ShipSpec)
			for _, voyage := range profile.Story.Voyages {
				spec, err := opts.Ships.Enrich(ctx, voyage.ShipName)
				if err != nil {
					k.log.Warn("Ship enrichment failed", slog.String("ship", voyage.ShipName), slog.Any("error", err))
					continue
				}
				if spec != nil {
					e.Ships[voyage.ShipName] = spec
				}
			}
		}

		if opts.HeroImages != nil && profile.VitalStats.BornYear != nil {
			if img, err := opts.HeroImages.Fetch(ctx, profile.VitalStats.BornLocation, *profile.VitalStats.BornYear); err == nil {
				e.HeroImage = img
			}
		}

		if e.BornGeo != nil || e.DiedGeo != nil || len(e.Ships) > 0 || e.HeroImage != nil {
			enriched[profile.ID] = e
		}
	}

	return enriched, nil
}
