package service_test

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/service"
	"github.com/dom/dota-draft-assistant/internal/testutil"
)

func newBuildService(t *testing.T, fake *testutil.FakeOracle) (*service.BuildService, *testutil.Deps) {
	t.Helper()
	deps := testutil.NewTestDependencies(t, fake, testutil.StandardCatalog().Write(t))
	return service.NewServices(deps.Dependencies, testutil.TestConfig()).Builds, deps
}

func detailedInput(buildID string) service.DetailedBuildInput {
	return service.DetailedBuildInput{
		Hero:        "invoker",
		Role:        domain.RoleMid,
		Aspect:      "exort",
		BuildID:     buildID,
		EnemyHeroes: []string{"axe", "lion"},
		AllyHeroes:  []string{"juggernaut"},
	}
}

func TestBuildService_OptionsFromAI(t *testing.T) {
	fake := testutil.NewFakeOracle().Reply(testutil.BuildOptionsAnswer)
	svc, _ := newBuildService(t, fake)

	variants, source := svc.Options(context.Background(), service.BuildOptionsInput{
		Hero:            "Invoker",
		Role:            domain.RoleMid,
		EnemyLaneHeroes: []string{"Zeus"},
	})

	assert.Equal(t, domain.SourceAI, source)
	require.Len(t, variants, 4)
	assert.Equal(t, "invoker_mid_quas_wex", variants[0].ID)
	assert.Contains(t, fake.LastCall().UserPrompt, "Lane enemies: zeus")
}

func TestBuildService_OptionsFallback(t *testing.T) {
	tests := []struct {
		name string
		fake *testutil.FakeOracle
	}{
		{"oracle failure", testutil.NewFakeOracle().Fail()},
		{"too few variants", testutil.NewFakeOracle().Reply(`[{"id": "a", "label": "A", "description": ""}]`)},
		{"prose", testutil.NewFakeOracle().Reply("Try going blink.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newBuildService(t, tt.fake)

			variants, source := svc.Options(context.Background(), service.BuildOptionsInput{Hero: "axe", Role: domain.RoleOfflane})

			assert.Equal(t, domain.SourceFallback, source)
			assert.Equal(t, service.FallbackBuildOptions("axe", domain.RoleOfflane), variants)
		})
	}
}

func TestFallbackBuildOptions_IDsAreHeroScoped(t *testing.T) {
	axe := service.FallbackBuildOptions("axe", domain.RoleOfflane)
	mars := service.FallbackBuildOptions("mars", domain.RoleOfflane)

	require.Len(t, axe, 3)
	for i := range axe {
		assert.NotEqual(t, axe[i].ID, mars[i].ID)
		assert.Contains(t, axe[i].ID, "axe_offlane_")
	}
}

func TestBuildService_DetailedFromAIIsCachedAndReplayed(t *testing.T) {
	fake := testutil.NewFakeOracle().Reply(testutil.DetailedBuildAnswer)
	svc, deps := newBuildService(t, fake)
	ctx := context.Background()

	first := svc.Detailed(ctx, detailedInput("invoker_mid_exort"))

	assert.Equal(t, domain.SourceAI, first.Source)
	assert.Equal(t, []string{"refresher", "octarine_core"}, first.LateGameItems)
	assert.Equal(t, "double combo", first.ItemExplanations["refresher"])
	assert.NotNil(t, first.Warnings)

	cached, err := deps.Cache.Get(ctx, "invoker_mid_exort")
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	second := svc.Detailed(ctx, detailedInput("invoker_mid_exort"))

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
	assert.Equal(t, 1, fake.CallCount(), "cache hit must not call the oracle")
}

func TestBuildService_DetailedCacheHitSkipsOracle(t *testing.T) {
	fake := testutil.NewFakeOracle()
	svc, deps := newBuildService(t, fake)
	ctx := context.Background()

	stored := &domain.DetailedBuild{
		StartingItems:    []string{"tango"},
		EarlyGameItems:   []string{},
		MidGameItems:     []string{},
		LateGameItems:    []string{},
		SituationalItems: []string{},
		SkillBuild:       []string{},
		Talents:          map[string]string{},
		GamePlan:         map[string]string{},
		ItemExplanations: map[string]string{},
		Warnings:         []string{},
		Source:           domain.SourceAI,
	}
	require.NoError(t, deps.Cache.Put(ctx, "pre_seeded", stored))

	got := svc.Detailed(ctx, detailedInput("pre_seeded"))

	assert.Equal(t, stored, got)
	assert.Zero(t, fake.CallCount())
}

func TestBuildService_DetailedFallbackFromMeta(t *testing.T) {
	fake := testutil.NewFakeOracle().Fail()
	svc, deps := newBuildService(t, fake)
	ctx := context.Background()

	got := svc.Detailed(ctx, detailedInput("invoker_mid_exort"))

	assert.Equal(t, domain.SourceMeta, got.Source)
	assert.Equal(t, []string{"hand_of_midas", "boots"}, got.EarlyGameItems)
	assert.Equal(t, []string{"aghanims_scepter", "blink"}, got.MidGameItems)
	assert.Equal(t, []string{"octarine_core", "refresher"}, got.LateGameItems)
	assert.Equal(t, "Initiate tornado + meteor combos", got.ItemExplanations["blink"])
	assert.Equal(t, "+1 Forged Spirit", got.Talents["10"])

	_, err := deps.Cache.Get(ctx, "invoker_mid_exort")
	assert.ErrorIs(t, err, domain.ErrBuildNotFound, "fallback builds are never cached")
}

func TestBuildService_DetailedFallbackUnknownHero(t *testing.T) {
	svc, _ := newBuildService(t, testutil.NewFakeOracle())

	in := detailedInput("x")
	in.Hero = "nobody"
	got := svc.Detailed(context.Background(), in)

	assert.Equal(t, domain.SourceFallback, got.Source)
	assert.NotEmpty(t, got.StartingItems)
	testutil.AssertWarningMentions(t, got.Warnings, "nobody")
}

func TestBuildService_DetailedRejectedAnswerNotCached(t *testing.T) {
	fake := testutil.NewFakeOracle().
		Reply(`{"starting_items": ["tango"]}`).
		Reply(testutil.DetailedBuildAnswer)
	svc, deps := newBuildService(t, fake)
	ctx := context.Background()

	first := svc.Detailed(ctx, detailedInput("invoker_mid_exort"))
	assert.Equal(t, domain.SourceMeta, first.Source)

	_, err := deps.Cache.Get(ctx, "invoker_mid_exort")
	assert.ErrorIs(t, err, domain.ErrBuildNotFound)

	second := svc.Detailed(ctx, detailedInput("invoker_mid_exort"))
	assert.Equal(t, domain.SourceAI, second.Source)
	assert.Equal(t, 2, fake.CallCount())
}
