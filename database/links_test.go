package database

import (
	"testing"

	"github.com/siherrmann/kinship/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLink(sourceID, targetID string, relType model.RelationType) model.RelatedLink {
	return model.RelatedLink{
		ID:         model.LinkID(sourceID, targetID, relType),
		TargetID:   targetID,
		Type:       relType,
		SourceText: "mention context",
	}
}

func TestLinksNewLinksDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewLinksDBHandler", func(t *testing.T) {
		linksDbHandler, err := NewLinksDBHandler(database, true)
		assert.NoError(t, err, "Expected NewLinksDBHandler to not return an error")
		require.NotNil(t, linksDbHandler, "Expected NewLinksDBHandler to return a non-nil instance")
		require.NotNil(t, linksDbHandler.db, "Expected NewLinksDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewLinksDBHandler with nil database", func(t *testing.T) {
		_, err := NewLinksDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating LinksDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestLinksInsert(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	linksDbHandler, err := NewLinksDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Insert link", func(t *testing.T) {
		link := testLink("1", "2", model.RelationSpouse)

		err := linksDbHandler.InsertLink(doc.ID, "1", link)
		assert.NoError(t, err, "Expected Insert to not return an error")

		stored, err := linksDbHandler.SelectLink(StoredLinkID(doc.ID, link.ID))
		require.NoError(t, err)
		assert.Equal(t, "1", stored.SourceProfile)
		assert.Equal(t, "2", stored.TargetProfile)
		assert.Equal(t, model.RelationSpouse, stored.Type)

		// Cleanup
		linksDbHandler.DeleteLink(StoredLinkID(doc.ID, link.ID))
	})

	t.Run("Insert same link twice is idempotent", func(t *testing.T) {
		link := testLink("1", "2", model.RelationFriend)

		err := linksDbHandler.InsertLink(doc.ID, "1", link)
		require.NoError(t, err)
		err = linksDbHandler.InsertLink(doc.ID, "1", link)
		assert.NoError(t, err, "Expected repeated insert of the same link to not return an error")

		stored, err := linksDbHandler.SelectLinksFromProfile(doc.ID, "1")
		require.NoError(t, err)
		assert.Len(t, stored, 1, "Expected exactly one stored link")

		// Cleanup
		linksDbHandler.DeleteLink(StoredLinkID(doc.ID, link.ID))
	})
}

func TestLinksScopedPerDocument(t *testing.T) {
	database := initDB(t)
	first := insertTestDocument(t, database)
	second := insertTestDocument(t, database)

	linksDbHandler, err := NewLinksDBHandler(database, true)
	require.NoError(t, err)

	// The same dataset-local link id shows up in both documents, profile ids
	// like "1" and "2" restart with every narrative.
	link := testLink("1", "2", model.RelationSpouse)
	err = linksDbHandler.InsertLink(first.ID, "1", link)
	require.NoError(t, err)
	err = linksDbHandler.InsertLink(second.ID, "1", link)
	require.NoError(t, err)

	t.Run("Each document keeps its own row", func(t *testing.T) {
		firstLinks, err := linksDbHandler.SelectLinksFromProfile(first.ID, "1")
		require.NoError(t, err)
		require.Len(t, firstLinks, 1)
		assert.Equal(t, first.ID, firstLinks[0].DocumentID)

		secondLinks, err := linksDbHandler.SelectLinksFromProfile(second.ID, "1")
		require.NoError(t, err)
		require.Len(t, secondLinks, 1, "Expected the second document's link to be stored")
		assert.Equal(t, second.ID, secondLinks[0].DocumentID)

		assert.NotEqual(t, firstLinks[0].ID, secondLinks[0].ID, "Expected stored ids to differ across documents")
	})

	t.Run("Stored rows convert back to the same dataset-local id", func(t *testing.T) {
		secondLinks, err := linksDbHandler.SelectLinksFromProfile(second.ID, "1")
		require.NoError(t, err)
		require.Len(t, secondLinks, 1)
		assert.Equal(t, link.ID, secondLinks[0].RelatedLink().ID)
	})

	t.Run("Deleting one document's link leaves the other", func(t *testing.T) {
		err := linksDbHandler.DeleteLink(StoredLinkID(first.ID, link.ID))
		require.NoError(t, err)

		_, err = linksDbHandler.SelectLink(StoredLinkID(first.ID, link.ID))
		assert.Error(t, err, "Expected the first document's link to be gone")

		stored, err := linksDbHandler.SelectLink(StoredLinkID(second.ID, link.ID))
		assert.NoError(t, err, "Expected the second document's link to survive")
		assert.Equal(t, second.ID, stored.DocumentID)
	})

	// Cleanup
	linksDbHandler.DeleteLink(StoredLinkID(second.ID, link.ID))
}

func TestLinksSelectByProfile(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	linksDbHandler, err := NewLinksDBHandler(database, true)
	require.NoError(t, err)

	outgoing := testLink("1", "2", model.RelationMentioned)
	incoming := testLink("3", "1", model.RelationSpouse)

	err = linksDbHandler.InsertLink(doc.ID, "1", outgoing)
	require.NoError(t, err)
	err = linksDbHandler.InsertLink(doc.ID, "3", incoming)
	require.NoError(t, err)

	t.Run("Select links from profile", func(t *testing.T) {
		links, err := linksDbHandler.SelectLinksFromProfile(doc.ID, "1")
		assert.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "2", links[0].TargetProfile)

		related := links[0].RelatedLink()
		assert.Equal(t, outgoing.ID, related.ID)
		assert.Equal(t, "2", related.TargetID)
	})

	t.Run("Select links to profile", func(t *testing.T) {
		links, err := linksDbHandler.SelectLinksToProfile(doc.ID, "1")
		assert.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "3", links[0].SourceProfile)
	})

	// Cleanup
	linksDbHandler.DeleteLink(StoredLinkID(doc.ID, outgoing.ID))
	linksDbHandler.DeleteLink(StoredLinkID(doc.ID, incoming.ID))
}

func TestLinksDelete(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	linksDbHandler, err := NewLinksDBHandler(database, true)
	require.NoError(t, err)

	link := testLink("1", "2", model.RelationCousin)
	err = linksDbHandler.InsertLink(doc.ID, "1", link)
	require.NoError(t, err)

	// Delete the link
	err = linksDbHandler.DeleteLink(StoredLinkID(doc.ID, link.ID))
	assert.NoError(t, err, "Expected Delete to not return an error")

	// Verify deletion
	_, err = linksDbHandler.SelectLink(StoredLinkID(doc.ID, link.ID))
	assert.Error(t, err, "Expected Get to return an error for deleted link")
}
