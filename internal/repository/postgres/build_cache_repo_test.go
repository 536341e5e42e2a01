package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/repository"
	"github.com/dom/dota-draft-assistant/internal/repository/postgres"
	"github.com/dom/dota-draft-assistant/internal/testutil"
)

func sampleBuild() *domain.DetailedBuild {
	return &domain.DetailedBuild{
		StartingItems:    []string{"tango", "quelling_blade"},
		EarlyGameItems:   []string{"phase_boots"},
		MidGameItems:     []string{"blink"},
		LateGameItems:    []string{"assault"},
		SituationalItems: []string{"bkb"},
		SkillBuild:       []string{"call", "helix", "call"},
		Talents:          map[string]string{"10": "+8 strength"},
		GamePlan:         map[string]string{"mid": "blink-call fights"},
		ItemExplanations: map[string]string{"blink": "initiation"},
		Warnings:         []string{},
		Source:           domain.SourceAI,
	}
}

func TestBuildCacheRepository_PutGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBuildCacheRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Get(ctx, "axe_offlane_blink")
	assert.ErrorIs(t, err, domain.ErrBuildNotFound)

	require.NoError(t, repo.Put(ctx, "axe_offlane_blink", sampleBuild()))

	got, err := repo.Get(ctx, "axe_offlane_blink")
	require.NoError(t, err)
	assert.Equal(t, sampleBuild(), got)
}

func TestBuildCacheRepository_PutOverwrites(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBuildCacheRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "id", sampleBuild()))

	updated := sampleBuild()
	updated.LateGameItems = []string{"heart"}
	require.NoError(t, repo.Put(ctx, "id", updated))

	got, err := repo.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"heart"}, got.LateGameItems)

	var count int64
	testDB.DB.Model(&domain.CachedBuild{}).Where("build_id = ?", "id").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBuildCacheRepository_CorruptRecord(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBuildCacheRepository(testDB.DB)

	records := map[string]string{
		"wrong type": `{"starting_items": "tango", "source": "ai"}`,
		"null":       "null",
		"no source":  "{}",
	}
	for id, raw := range records {
		t.Run(id, func(t *testing.T) {
			row := &domain.CachedBuild{BuildID: id, Document: datatypes.JSON(raw)}
			require.NoError(t, testDB.DB.Create(row).Error)

			_, err := repo.Get(context.Background(), id)
			assert.ErrorIs(t, err, repository.ErrCorruptRecord)
		})
	}
}
