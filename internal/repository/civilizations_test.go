package repository

import (
	"testing"

	"aoe4stats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilizationRepository_InsertAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)

	civ := &models.Civilization{
		ID:          "golden_horde",
		Name:        "Golden Horde",
		Description: "Nomadic cavalry",
	}
	require.NoError(t, db.Civilizations.Insert(ctx, civ))
	assert.False(t, civ.CreatedAt.IsZero(), "created_at should be returned")

	retrieved, err := db.Civilizations.GetByID(ctx, "golden_horde")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, "Golden Horde", retrieved.Name)
	assert.Equal(t, "Nomadic cavalry", retrieved.Description)

	err = db.Civilizations.Insert(ctx, civ)
	assert.Error(t, err, "Duplicate id should be rejected")
}

func TestCivilizationRepository_GetByIDMissing(t *testing.T) {
	db, ctx := setupTestDB(t)

	civ, err := db.Civilizations.GetByID(ctx, "atlantis")
	assert.NoError(t, err, "Missing civilization is not an error")
	assert.Nil(t, civ)
}

func TestCivilizationRepository_UpsertManyAndList(t *testing.T) {
	db, ctx := setupTestDB(t)

	require.NoError(t, db.Civilizations.UpsertMany(ctx, []*models.Civilization{
		{ID: "rus", Name: "Rus"},
		{ID: "abbasid", Name: "Abbasid Dynasty"},
	}))
	require.NoError(t, db.Civilizations.UpsertMany(ctx, []*models.Civilization{
		{ID: "rus", Name: "Rus", Overview: "Bounty economy"},
	}))

	civs, err := db.Civilizations.List(ctx)
	require.NoError(t, err)
	require.Len(t, civs, 2)
	assert.Equal(t, "abbasid", civs[0].ID, "Should be ordered by name")
	assert.Equal(t, "Bounty economy", civs[1].Overview, "Upsert should overwrite")
}
