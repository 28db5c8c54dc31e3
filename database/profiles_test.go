package database

import (
	"testing"

	"github.com/siherrmann/kinship/helper"
	"github.com/siherrmann/kinship/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestDocument(t *testing.T, database *helper.Database) *model.Document {
	t.Helper()

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{
		Title:    "Test Narrative",
		Source:   "narrative.txt",
		Metadata: map[string]interface{}{},
	}
	err = documentsDbHandler.InsertDocument(doc)
	require.NoError(t, err)

	t.Cleanup(func() {
		documentsDbHandler.DeleteDocument(doc.RID)
	})

	return doc
}

func testProfile(id, name string) *model.Profile {
	profile := model.NewProfile(id, name)
	profile.Generation = "Generation I"
	bornYear := 1750
	profile.VitalStats = model.VitalStats{
		BornDate:     "1750",
		BornLocation: "Boston, Massachusetts",
		BornYear:     &bornYear,
	}
	profile.Story = model.Story{Notes: "A test profile."}
	return profile
}

func TestProfilesNewProfilesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewProfilesDBHandler", func(t *testing.T) {
		profilesDbHandler, err := NewProfilesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewProfilesDBHandler to not return an error")
		require.NotNil(t, profilesDbHandler, "Expected NewProfilesDBHandler to return a non-nil instance")
		require.NotNil(t, profilesDbHandler.db, "Expected NewProfilesDBHandler to have a non-nil database instance")
		require.NotNil(t, profilesDbHandler.db.Instance, "Expected NewProfilesDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewProfilesDBHandler with nil database", func(t *testing.T) {
		_, err := NewProfilesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating ProfilesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestProfilesInsert(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Insert profile", func(t *testing.T) {
		profile := testProfile("1", "John Smith")

		err := profilesDbHandler.InsertProfile(doc.ID, profile)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotZero(t, profile.RowID, "Expected inserted profile to have a row id")
		assert.Equal(t, doc.ID, profile.DocumentID, "Expected document id to be set")
		assert.Equal(t, "John Smith", profile.Name, "Expected name to match")
		assert.Equal(t, model.ProfileKindCanonical, profile.Kind, "Expected kind to survive the round trip")

		// Cleanup
		profilesDbHandler.DeleteProfile(doc.ID, profile.ID)
	})

	t.Run("Insert duplicate profile id fails", func(t *testing.T) {
		profile := testProfile("2", "Mary Smith")
		err := profilesDbHandler.InsertProfile(doc.ID, profile)
		require.NoError(t, err)

		duplicate := testProfile("2", "Another Mary")
		err = profilesDbHandler.InsertProfile(doc.ID, duplicate)
		assert.Error(t, err, "Expected duplicate profile id within a document to fail")

		// Cleanup
		profilesDbHandler.DeleteProfile(doc.ID, profile.ID)
	})
}

func TestProfilesGet(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	profile := testProfile("1", "John Smith")
	profile.Relations.AddChild("1.1")
	profile.Story.AddTag("Seafaring")
	err = profilesDbHandler.InsertProfile(doc.ID, profile)
	require.NoError(t, err)

	// Test Get
	retrieved, err := profilesDbHandler.SelectProfile(doc.ID, "1")
	assert.NoError(t, err, "Expected Get to not return an error")
	assert.NotNil(t, retrieved, "Expected Get to return a non-nil profile")
	assert.Equal(t, profile.ID, retrieved.ID, "Expected profile ids to match")
	assert.Equal(t, profile.Name, retrieved.Name, "Expected names to match")
	assert.Equal(t, profile.VitalStats.BornLocation, retrieved.VitalStats.BornLocation, "Expected vitals to survive the round trip")
	require.NotNil(t, retrieved.VitalStats.BornYear, "Expected born year to survive the round trip")
	assert.Equal(t, 1750, *retrieved.VitalStats.BornYear)
	assert.Equal(t, []string{"1.1"}, retrieved.Relations.Children, "Expected relations to survive the round trip")
	assert.Equal(t, []string{"Seafaring"}, retrieved.Story.Tags, "Expected story tags to survive the round trip")

	// Cleanup
	profilesDbHandler.DeleteProfile(doc.ID, profile.ID)
}

func TestProfilesGetAll(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	// Create multiple profiles
	ids := []string{"1", "1.1", "1.2", "2"}
	for _, id := range ids {
		profile := testProfile(id, "Person "+id)
		err = profilesDbHandler.InsertProfile(doc.ID, profile)
		require.NoError(t, err)
	}

	// Test SelectAllProfiles keeps insertion order
	retrieved, err := profilesDbHandler.SelectAllProfiles(doc.ID)
	assert.NoError(t, err, "Expected SelectAllProfiles to not return an error")
	require.Len(t, retrieved, len(ids), "Expected to retrieve all inserted profiles")
	for i, profile := range retrieved {
		assert.Equal(t, ids[i], profile.ID, "Expected insertion order to be preserved")
	}

	// Cleanup
	for _, id := range ids {
		profilesDbHandler.DeleteProfile(doc.ID, id)
	}
}

func TestProfilesGetByGeneration(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	first := testProfile("1", "John Smith")
	second := testProfile("1.1", "James Smith")
	second.Generation = "Generation II"

	err = profilesDbHandler.InsertProfile(doc.ID, first)
	require.NoError(t, err)
	err = profilesDbHandler.InsertProfile(doc.ID, second)
	require.NoError(t, err)

	retrieved, err := profilesDbHandler.SelectProfilesByGeneration(doc.ID, "Generation II")
	assert.NoError(t, err, "Expected SelectProfilesByGeneration to not return an error")
	require.Len(t, retrieved, 1, "Expected only the second generation profile")
	assert.Equal(t, "1.1", retrieved[0].ID)

	// Cleanup
	profilesDbHandler.DeleteProfile(doc.ID, first.ID)
	profilesDbHandler.DeleteProfile(doc.ID, second.ID)
}

func TestProfilesSearch(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	mariner := testProfile("1", "Elias Thorne")
	mariner.Story.Notes = "He served as a mariner on the brig Sally."
	other := testProfile("2", "Quiet Person")

	err = profilesDbHandler.InsertProfile(doc.ID, mariner)
	require.NoError(t, err)
	err = profilesDbHandler.InsertProfile(doc.ID, other)
	require.NoError(t, err)

	t.Run("Search by name", func(t *testing.T) {
		results, err := profilesDbHandler.SelectProfilesBySearch(doc.ID, "Thorne", 10)
		assert.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "1", results[0].ID)
	})

	t.Run("Search by notes text", func(t *testing.T) {
		results, err := profilesDbHandler.SelectProfilesBySearch(doc.ID, "mariner", 10)
		assert.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "1", results[0].ID)
	})

	// Cleanup
	profilesDbHandler.DeleteProfile(doc.ID, mariner.ID)
	profilesDbHandler.DeleteProfile(doc.ID, other.ID)
}

func TestProfilesUpdateStory(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	profile := testProfile("1", "John Smith")
	err = profilesDbHandler.InsertProfile(doc.ID, profile)
	require.NoError(t, err)

	// Update the story
	story := profile.Story
	story.AddTag("Wartime Service")
	story.Voyages = []model.Voyage{{ShipName: "Sally", Class: "Passenger"}}

	updated, err := profilesDbHandler.UpdateProfileStory(doc.ID, profile.ID, story)
	assert.NoError(t, err, "Expected UpdateProfileStory to not return an error")
	assert.Equal(t, []string{"Wartime Service"}, updated.Story.Tags, "Expected tags to be updated")
	require.Len(t, updated.Story.Voyages, 1, "Expected voyages to be updated")
	assert.Equal(t, "Sally", updated.Story.Voyages[0].ShipName)

	// Verify update
	retrieved, err := profilesDbHandler.SelectProfile(doc.ID, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wartime Service"}, retrieved.Story.Tags)

	// Cleanup
	profilesDbHandler.DeleteProfile(doc.ID, profile.ID)
}

func TestProfilesDelete(t *testing.T) {
	database := initDB(t)
	doc := insertTestDocument(t, database)

	profilesDbHandler, err := NewProfilesDBHandler(database, true)
	require.NoError(t, err)

	profile := testProfile("1", "John Smith")
	err = profilesDbHandler.InsertProfile(doc.ID, profile)
	require.NoError(t, err)

	// Delete the profile
	err = profilesDbHandler.DeleteProfile(doc.ID, profile.ID)
	assert.NoError(t, err, "Expected Delete to not return an error")

	// Verify deletion
	_, err = profilesDbHandler.SelectProfile(doc.ID, profile.ID)
	assert.Error(t, err, "Expected Get to return an error for deleted profile")
}
