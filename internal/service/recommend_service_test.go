package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/service"
	"github.com/dom/dota-draft-assistant/internal/testutil"
)

func newRecommendService(t *testing.T, fake *testutil.FakeOracle) *service.RecommendService {
	t.Helper()
	deps := testutil.NewTestDependencies(t, fake, testutil.StandardCatalog().Write(t))
	return service.NewServices(deps.Dependencies, testutil.TestConfig()).Recommend
}

func strPtr(s string) *string { return &s }

func midDraft() service.DraftInput {
	return service.DraftInput{
		EnemyHeroes: []string{"phantom_assassin", "zeus"},
		AllyHeroes:  []string{"juggernaut"},
		UserRole:    domain.RoleMid,
	}
}

func TestRecommend_MetaWithoutAI(t *testing.T) {
	fake := testutil.NewFakeOracle()
	svc := newRecommendService(t, fake)

	result, err := svc.Recommend(context.Background(), midDraft(), false)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceMeta, result.Source)
	assert.Equal(t, []domain.HeroID{"phantom_assassin", "zeus"}, result.LaneOpponents)
	testutil.AssertSuggests(t, result, "invoker", "lina", "lion")
	assert.Equal(t, domain.DefaultStartingItems, result.StartingItems)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, fake.CallCount(), "oracle must not be called when AI is off")
}

func TestRecommend_MetaIsDeterministic(t *testing.T) {
	svc := newRecommendService(t, testutil.NewFakeOracle())

	first, err := svc.Recommend(context.Background(), midDraft(), false)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := svc.Recommend(context.Background(), midDraft(), false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRecommend_UserHeroChosen(t *testing.T) {
	svc := newRecommendService(t, testutil.NewFakeOracle())

	in := midDraft()
	in.UserHero = strPtr("invoker")

	result, err := svc.Recommend(context.Background(), in, false)
	require.NoError(t, err)

	assert.NotEqual(t, domain.SourceAI, result.Source)
	assert.Equal(t, domain.SourceFallback, result.Source)
	assert.Empty(t, result.SuggestedHeroes)
	require.Len(t, result.Builds, 1)
	assert.Equal(t, domain.HeroID("invoker"), result.Builds[0].Name)
	assert.Equal(t, []string{"hand_of_midas", "boots", "aghanims_scepter", "blink", "octarine_core", "refresher"}, result.Builds[0].Build)
}

func TestRecommend_UnknownEnemyWarns(t *testing.T) {
	svc := newRecommendService(t, testutil.NewFakeOracle())

	in := midDraft()
	in.EnemyHeroes = []string{"zeus", "definitely_not_a_hero"}

	result, err := svc.Recommend(context.Background(), in, false)
	require.NoError(t, err)

	assert.Equal(t, []domain.HeroID{"zeus"}, result.LaneOpponents)
	require.GreaterOrEqual(t, len(result.Warnings), 1)
	testutil.AssertWarningMentions(t, result.Warnings, "definitely_not_a_hero")
}

func TestRecommend_UnknownUserHeroFallsBackToSuggestions(t *testing.T) {
	svc := newRecommendService(t, testutil.NewFakeOracle())

	in := midDraft()
	in.UserHero = strPtr("mystery_hero")

	result, err := svc.Recommend(context.Background(), in, false)
	require.NoError(t, err)

	testutil.AssertWarningMentions(t, result.Warnings, "mystery_hero")
	assert.Empty(t, result.Builds)
	assert.Len(t, result.SuggestedHeroes, 3)
}

func TestRecommend_SecondTierRanking(t *testing.T) {
	dir := testutil.NewCatalogBuilder().
		WithHero("zeus", 0.55, "Nuker").
		WithHero("juggernaut", 0.53, "Carry").
		WithHero("lion", 0.50, "Support").
		Write(t)
	deps := testutil.NewTestDependencies(t, testutil.NewFakeOracle(), dir)
	svc := service.NewServices(deps.Dependencies, testutil.TestConfig()).Recommend

	result, err := svc.Recommend(context.Background(), service.DraftInput{
		EnemyHeroes: []string{"zeus"},
		UserRole:    domain.RoleOfflane,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallback, result.Source)
	testutil.AssertSuggests(t, result, "juggernaut", "lion")
	testutil.AssertWarningMentions(t, result.Warnings, "ranking all heroes by winrate")
}

func TestRecommend_UnrecognizedRole(t *testing.T) {
	svc := newRecommendService(t, testutil.NewFakeOracle())

	result, err := svc.Recommend(context.Background(), service.DraftInput{UserRole: domain.Role("jungle")}, false)
	require.NoError(t, err)

	assert.Empty(t, result.SuggestedHeroes)
	assert.Equal(t, domain.SourceFallback, result.Source)
	testutil.AssertWarningMentions(t, result.Warnings, "jungle")
}

func TestRecommend_AISuccess(t *testing.T) {
	fake := testutil.NewFakeOracle().Reply(testutil.RecommendationAnswer)
	svc := newRecommendService(t, fake)

	result, err := svc.Recommend(context.Background(), midDraft(), true)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAI, result.Source)
	testutil.AssertSuggests(t, result, "invoker", "lina")
	testutil.AssertWarningMentions(t, result.Warnings, "not_a_real_hero")
	assert.Equal(t, "burst", result.RecommendedAspect)
	assert.Equal(t, []string{"tango", "faerie_fire", "branches"}, result.StartingItems)
	assert.Equal(t, []domain.HeroID{"phantom_assassin", "zeus"}, result.LaneOpponents)
	require.Len(t, result.Builds, 1)
	assert.Equal(t, 1, fake.CallCount())
	assert.Contains(t, fake.LastCall().UserPrompt, "Enemies: phantom_assassin, zeus")
}

func TestRecommend_AIBuildsForUnknownHeroesDropped(t *testing.T) {
	answer := "```json\n" + `{
  "suggested_heroes": [{"name": "lina", "score": 0.9, "reason": "burst"}],
  "builds": [
    {"name": "made_up_hero", "winrate_score": 0.7, "build": ["blink"], "starting_items": [], "skill_build": []},
    {"name": "Lina", "winrate_score": 0.5, "build": ["kaya"], "starting_items": [], "skill_build": []}
  ]
}` + "\n```"
	fake := testutil.NewFakeOracle().Reply(answer)
	svc := newRecommendService(t, fake)

	result, err := svc.Recommend(context.Background(), midDraft(), true)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAI, result.Source)
	require.Len(t, result.Builds, 1)
	assert.Equal(t, domain.HeroID("lina"), result.Builds[0].Name)
	testutil.AssertWarningMentions(t, result.Warnings, "made_up_hero")
}

func TestRecommend_AIHeroPicked(t *testing.T) {
	fake := testutil.NewFakeOracle().Reply(testutil.HeroPickedAnswer)
	svc := newRecommendService(t, fake)

	in := midDraft()
	in.UserHero = strPtr("invoker")

	result, err := svc.Recommend(context.Background(), in, true)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAI, result.Source)
	assert.Empty(t, result.SuggestedHeroes)
	require.Len(t, result.Builds, 1)
	assert.Equal(t, []string{"hand_of_midas", "blink"}, result.Builds[0].Build)
}

func TestRecommend_AIFailuresMatchDisabledPath(t *testing.T) {
	baseline, err := newRecommendService(t, testutil.NewFakeOracle()).Recommend(context.Background(), midDraft(), false)
	require.NoError(t, err)

	tests := []struct {
		name  string
		fake  *testutil.FakeOracle
		calls int
	}{
		{"transport error", testutil.NewFakeOracle().Fail(), 1},
		{"null answer", testutil.NewFakeOracle().Reply("null"), 1},
		{"malformed json", testutil.NewFakeOracle().Reply("```json\n{\"suggested_heroes\": [\n```"), 1},
		{"schema mismatch", testutil.NewFakeOracle().Reply(`{"suggested_heroes": "zeus", "builds": []}`), 1},
		{"only unknown heroes", testutil.NewFakeOracle().Reply(`{"suggested_heroes": [{"name": "ghost", "score": 1}], "builds": []}`), 1},
		{"only taken heroes", testutil.NewFakeOracle().Reply(`{"suggested_heroes": [{"name": "zeus", "score": 1}], "builds": []}`), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRecommendService(t, tt.fake)

			result, err := svc.Recommend(context.Background(), midDraft(), true)
			require.NoError(t, err)

			assert.NotEqual(t, domain.SourceAI, result.Source)
			assert.Equal(t, baseline, result)
			assert.Equal(t, tt.calls, tt.fake.CallCount())
		})
	}
}

func TestRecommend_CatalogUnavailable(t *testing.T) {
	deps := testutil.NewTestDependencies(t, testutil.NewFakeOracle(), t.TempDir())
	svc := service.NewServices(deps.Dependencies, testutil.TestConfig()).Recommend

	_, err := svc.Recommend(context.Background(), midDraft(), true)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Zero(t, deps.Oracle.CallCount())
}
