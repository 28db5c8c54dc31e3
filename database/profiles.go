package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
	loadSql "github.com/siherrmann/kinship/sql"
)

// ProfilesDBHandlerFunctions defines the interface for Profiles database operations.
type ProfilesDBHandlerFunctions interface {
	InsertProfile(documentID int64, profile *model.Profile) error
	SelectProfile(documentID int64, profileID string) (*model.Profile, error)
	SelectAllProfiles(documentID int64) ([]*model.Profile, error)
	SelectProfilesByGeneration(documentID int64, generation string) ([]*model.Profile, error)
	SelectProfilesBySearch(documentID int64, searchTerm string, limit int) ([]*model.Profile, error)
	UpdateProfileStory(documentID int64, profileID string, story model.Story) (*model.Profile, error)
	DeleteProfile(documentID int64, profileID string) error
}

// ProfilesDBHandler handles profile-related database operations
type ProfilesDBHandler struct {
	db *helper.Database
}

// NewProfilesDBHandler creates a new profiles database handler.
// It initializes the database connection and loads profile-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewProfilesDBHandler(db *helper.Database, force bool) (*ProfilesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	profilesDbHandler := &ProfilesDBHandler{
		db: db,
	}

	err := loadSql.LoadProfilesSql(profilesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load profiles sql", err)
	}

	err = profilesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ProfilesDBHandler")

	return profilesDbHandler, nil
}

// CreateTable creates the 'profiles' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *ProfilesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init() function to create all tables and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_profiles();`)
	if err != nil {
		log.Panicf("error initializing profiles table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table profiles")

	return nil
}

// scanProfile scans a full profiles row into a profile
func scanProfile(row interface{ Scan(...interface{}) error }, profile *model.Profile) error {
	return row.Scan(
		&profile.RowID,
		&profile.DocumentID,
		&profile.ID,
		&profile.Name,
		&profile.Lineage,
		&profile.Generation,
		&profile.Kind,
		&profile.SyntheticParentID,
		&profile.VitalStats,
		&profile.Story,
		&profile.Relations,
		&profile.Metadata,
		&profile.CreatedAt,
	)
}

// InsertProfile inserts a new profile belonging to a document
func (h *ProfilesDBHandler) InsertProfile(documentID int64, profile *model.Profile) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_profile($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		documentID,
		profile.ID,
		profile.Name,
		profile.Lineage,
		profile.Generation,
		string(profile.Kind),
		profile.SyntheticParentID,
		profile.VitalStats,
		profile.Story,
		profile.Relations,
		profile.Metadata,
	)

	err := scanProfile(row, profile)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectProfile retrieves a profile by document and profile identifier
func (h *ProfilesDBHandler) SelectProfile(documentID int64, profileID string) (*model.Profile, error) {
	profile := &model.Profile{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_profile($1, $2)`,
		documentID,
		profileID,
	)

	err := scanProfile(row, profile)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return profile, nil
}

// SelectAllProfiles retrieves all profiles of a document in insertion order
func (h *ProfilesDBHandler) SelectAllProfiles(documentID int64) ([]*model.Profile, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_profiles($1)`,
		documentID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile := &model.Profile{}
		err := scanProfile(rows, profile)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		profiles = append(profiles, profile)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return profiles, nil
}

// SelectProfilesByGeneration retrieves all profiles of a document in a generation
func (h *ProfilesDBHandler) SelectProfilesByGeneration(documentID int64, generation string) ([]*model.Profile, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_profiles_by_generation($1, $2)`,
		documentID,
		generation,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile := &model.Profile{}
		err := scanProfile(rows, profile)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		profiles = append(profiles, profile)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return profiles, nil
}

// SelectProfilesBySearch searches profiles by name or notes text
func (h *ProfilesDBHandler) SelectProfilesBySearch(documentID int64, searchTerm string, limit int) ([]*model.Profile, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_profiles_by_search($1, $2, $3)`,
		documentID,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile := &model.Profile{}
		err := scanProfile(rows, profile)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		profiles = append(profiles, profile)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return profiles, nil
}

// UpdateProfileStory replaces the stored story of a profile, used after
// enrichment passes add voyages, tags or associates
func (h *ProfilesDBHandler) UpdateProfileStory(documentID int64, profileID string, story model.Story) (*model.Profile, error) {
	profile := &model.Profile{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_profile_story($1, $2, $3)`,
		documentID,
		profileID,
		story,
	)

	err := scanProfile(row, profile)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return profile, nil
}

// DeleteProfile deletes a profile by document and profile identifier
func (h *ProfilesDBHandler) DeleteProfile(documentID int64, profileID string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_profile($1, $2)`,
		documentID,
		profileID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
