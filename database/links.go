package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
	loadSql "github.com/siherrmann/kinship/sql"
)

// StoredLink is a persisted mention link with its document scope and both
// endpoints. The in-memory model.RelatedLink only carries the target side
// because it lives on its source profile.
type StoredLink struct {
	ID            uuid.UUID          `json:"id"`
	DocumentID    int64              `json:"document_id"`
	SourceProfile string             `json:"source_profile"`
	TargetProfile string             `json:"target_profile"`
	Type          model.RelationType `json:"relation_type"`
	SourceText    string             `json:"source_text,omitempty"`
}

// RelatedLink converts the stored row back into its in-memory form. The
// dataset-local link id is recomputed from the endpoints because the stored
// row carries the document-scoped id instead.
func (l *StoredLink) RelatedLink() model.RelatedLink {
	return model.RelatedLink{
		ID:         model.LinkID(l.SourceProfile, l.TargetProfile, l.Type),
		TargetID:   l.TargetProfile,
		Type:       l.Type,
		SourceText: l.SourceText,
	}
}

// StoredLinkID folds the document scope into a dataset-local link id.
// Profile ids, and with them link ids, are only unique within one narrative,
// so two documents parsed from similar material would otherwise collide on
// the primary key and silently keep the first document's rows.
func StoredLinkID(documentID int64, linkID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(linkID, []byte(strconv.FormatInt(documentID, 10)))
}

// LinksDBHandlerFunctions defines the interface for Links database operations.
type LinksDBHandlerFunctions interface {
	InsertLink(documentID int64, sourceProfile string, link model.RelatedLink) error
	SelectLink(id uuid.UUID) (*StoredLink, error)
	SelectLinksFromProfile(documentID int64, sourceProfile string) ([]*StoredLink, error)
	SelectLinksToProfile(documentID int64, targetProfile string) ([]*StoredLink, error)
	DeleteLink(id uuid.UUID) error
}

// LinksDBHandler handles link-related database operations
type LinksDBHandler struct {
	db *helper.Database
}

// NewLinksDBHandler creates a new links database handler.
// It initializes the database connection and loads link-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewLinksDBHandler(db *helper.Database, force bool) (*LinksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	linksDbHandler := &LinksDBHandler{
		db: db,
	}

	err := loadSql.LoadLinksSql(linksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load links sql", err)
	}

	err = linksDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized LinksDBHandler")

	return linksDbHandler, nil
}

// CreateTable creates the 'profile_links' table in the database.
// If the table already exists, it does not create it again.
func (h *LinksDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init() function to create all tables and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_links();`)
	if err != nil {
		log.Panicf("error initializing profile_links table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table profile_links")

	return nil
}

// InsertLink inserts a mention link under its document-scoped id. Repeated
// inserts of the same link for the same document are idempotent.
func (h *LinksDBHandler) InsertLink(documentID int64, sourceProfile string, link model.RelatedLink) error {
	stored := &StoredLink{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_link($1, $2, $3, $4, $5, $6)`,
		StoredLinkID(documentID, link.ID),
		documentID,
		sourceProfile,
		link.TargetID,
		string(link.Type),
		link.SourceText,
	)

	err := row.Scan(
		&stored.ID,
		&stored.DocumentID,
		&stored.SourceProfile,
		&stored.TargetProfile,
		&stored.Type,
		&stored.SourceText,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectLink retrieves a link by its stored, document-scoped id
func (h *LinksDBHandler) SelectLink(id uuid.UUID) (*StoredLink, error) {
	stored := &StoredLink{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_link($1)`,
		id,
	)

	err := row.Scan(
		&stored.ID,
		&stored.DocumentID,
		&stored.SourceProfile,
		&stored.TargetProfile,
		&stored.Type,
		&stored.SourceText,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return stored, nil
}

// SelectLinksFromProfile retrieves links originating from a profile
func (h *LinksDBHandler) SelectLinksFromProfile(documentID int64, sourceProfile string) ([]*StoredLink, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_links_from_profile($1, $2)`,
		documentID,
		sourceProfile,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var links []*StoredLink
	for rows.Next() {
		stored := &StoredLink{}
		err := rows.Scan(
			&stored.ID,
			&stored.DocumentID,
			&stored.SourceProfile,
			&stored.TargetProfile,
			&stored.Type,
			&stored.SourceText,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		links = append(links, stored)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return links, nil
}

// SelectLinksToProfile retrieves links targeting a profile
func (h *LinksDBHandler) SelectLinksToProfile(documentID int64, targetProfile string) ([]*StoredLink, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_links_to_profile($1, $2)`,
		documentID,
		targetProfile,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var links []*StoredLink
	for rows.Next() {
		stored := &StoredLink{}
		err := rows.Scan(
			&stored.ID,
			&stored.DocumentID,
			&stored.SourceProfile,
			&stored.TargetProfile,
			&stored.Type,
			&stored.SourceText,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		links = append(links, stored)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return links, nil
}

// DeleteLink deletes a link by its stored, document-scoped id
func (h *LinksDBHandler) DeleteLink(id uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_link($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
