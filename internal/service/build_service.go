package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/metrics"
	"github.com/dom/dota-draft-assistant/internal/oracle"
	"github.com/dom/dota-draft-assistant/internal/prompt"
	"github.com/dom/dota-draft-assistant/internal/repository"
)

const (
	optionsMaxTokens  = 1000
	detailedMaxTokens = 1500
	maxBuildOptions   = 5
)

type BuildOptionsInput struct {
	Hero            string
	Role            domain.Role
	Aspect          string
	EnemyLaneHeroes []string
}

type DetailedBuildInput struct {
	Hero        string
	Role        domain.Role
	Aspect      string
	BuildID     string
	EnemyHeroes []string
	AllyHeroes  []string
}

type BuildService struct {
	catalog   CatalogSource
	oracle    oracle.Oracle
	composer  *prompt.Composer
	validator *oracle.Validator
	cache     repository.BuildCacheRepository
}

func NewBuildService(catalog CatalogSource, o oracle.Oracle, composer *prompt.Composer, validator *oracle.Validator, cache repository.BuildCacheRepository) *BuildService {
	return &BuildService{
		catalog:   catalog,
		oracle:    o,
		composer:  composer,
		validator: validator,
		cache:     cache,
	}
}

// Options returns 3 to 5 build variants for a hero, or a fixed fallback set
// when the oracle path fails.
func (s *BuildService) Options(ctx context.Context, in BuildOptionsInput) ([]domain.BuildVariant, domain.Source) {
	hero := domain.NormalizeHeroID(in.Hero)
	system, user := s.composer.BuildOptionsPrompt(hero, in.Role, in.Aspect, normalizeAll(in.EnemyLaneHeroes))

	if text, ok := s.oracle.Complete(ctx, system, user, optionsMaxTokens); ok {
		variants, err := oracle.DecodeAnswer[[]domain.BuildVariant](s.validator, oracle.DefBuildOptions, text, nil)
		if err == nil {
			if len(variants) > maxBuildOptions {
				variants = variants[:maxBuildOptions]
			}
			metrics.ResultsBySource.WithLabelValues("build_options", string(domain.SourceAI)).Inc()
			return variants, domain.SourceAI
		}
		logRejection(logging.Ctx(ctx), oracle.DefBuildOptions, err, text)
	}

	metrics.ResultsBySource.WithLabelValues("build_options", string(domain.SourceFallback)).Inc()
	return FallbackBuildOptions(hero, in.Role), domain.SourceFallback
}

// FallbackBuildOptions is the fixed variant set. Ids carry the hero and role so
// detailed builds of different heroes never share a cache key.
func FallbackBuildOptions(hero domain.HeroID, role domain.Role) []domain.BuildVariant {
	prefix := fmt.Sprintf("%s_%s", hero, role)
	return []domain.BuildVariant{
		{ID: prefix + "_standard", Label: "Standard", Description: "Balanced core build following the current meta."},
		{ID: prefix + "_aggressive", Label: "Aggressive", Description: "Early tempo items to win the lane and take fights early."},
		{ID: prefix + "_defensive", Label: "Defensive", Description: "Survivability first against heavy disable and burst."},
	}
}

// Detailed returns the detailed build for a variant. A cached build is replayed
// as stored. A fresh oracle answer is validated, tagged as ai and cached;
// otherwise a meta-derived build is returned and nothing is cached.
func (s *BuildService) Detailed(ctx context.Context, in DetailedBuildInput) *domain.DetailedBuild {
	log := logging.Ctx(ctx).With().Str("build_id", in.BuildID).Logger()

	cached, err := s.cache.Get(ctx, in.BuildID)
	switch {
	case err == nil:
		metrics.BuildCacheRequests.WithLabelValues("hit").Inc()
		metrics.ResultsBySource.WithLabelValues("detailed_build", string(cached.Source)).Inc()
		log.Info().Msg("build cache hit")
		return cached
	case errors.Is(err, domain.ErrBuildNotFound):
		metrics.BuildCacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.BuildCacheRequests.WithLabelValues("miss").Inc()
		log.Warn().Err(err).Msg("build cache read failed, treating as miss")
	}

	hero := domain.NormalizeHeroID(in.Hero)
	system, user := s.composer.BuildDetailedBuildPrompt(prompt.DetailedBuildRequest{
		Hero:    hero,
		Role:    in.Role,
		Aspect:  in.Aspect,
		BuildID: in.BuildID,
		Enemies: normalizeAll(in.EnemyHeroes),
		Allies:  normalizeAll(in.AllyHeroes),
	})

	if text, ok := s.oracle.Complete(ctx, system, user, detailedMaxTokens); ok {
		build, err := oracle.DecodeAnswer[domain.DetailedBuild](s.validator, oracle.DefDetailedBuild, text, hoistFirstBuild)
		if err == nil {
			build.Source = domain.SourceAI
			fillEmpty(&build)
			if err := s.cache.Put(ctx, in.BuildID, &build); err != nil {
				log.Warn().Err(err).Msg("failed to cache build")
			}
			metrics.ResultsBySource.WithLabelValues("detailed_build", string(domain.SourceAI)).Inc()
			return &build
		}
		logRejection(&log, oracle.DefDetailedBuild, err, text)
	}

	build := s.fallbackDetailedBuild(ctx, hero)
	metrics.ResultsBySource.WithLabelValues("detailed_build", string(build.Source)).Inc()
	return build
}

// hoistFirstBuild copies the fields of a nested builds[0] to the top level
// when the answer wraps the build. Top-level fields win.
func hoistFirstBuild(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	builds, ok := m["builds"].([]any)
	if !ok || len(builds) == 0 {
		return doc
	}
	first, ok := builds[0].(map[string]any)
	if !ok {
		return doc
	}
	for k, v := range first {
		if cur, exists := m[k]; !exists || cur == nil {
			m[k] = v
		}
	}
	return m
}

// fallbackDetailedBuild derives a build from the hero's meta entry. A missing
// catalog or meta entry still yields a generic build.
func (s *BuildService) fallbackDetailedBuild(ctx context.Context, hero domain.HeroID) *domain.DetailedBuild {
	build := &domain.DetailedBuild{
		StartingItems:    append([]string(nil), domain.DefaultStartingItems...),
		EarlyGameItems:   []string{"boots"},
		MidGameItems:     []string{},
		LateGameItems:    []string{},
		SituationalItems: []string{},
		SkillBuild:       []string{},
		Talents:          map[string]string{},
		GamePlan:         map[string]string{},
		ItemExplanations: map[string]string{},
		Warnings:         []string{},
		Source:           domain.SourceFallback,
	}

	snap, err := s.catalog.Snapshot()
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("catalog unavailable for build fallback")
		build.Warnings = append(build.Warnings, "Meta data is unavailable; showing a generic build.")
		return build
	}

	entry, ok := snap.Meta(hero)
	if !ok {
		build.Warnings = append(build.Warnings, fmt.Sprintf("No meta statistics for '%s'; showing a generic build.", hero))
		return build
	}

	build.Source = domain.SourceMeta
	build.EarlyGameItems, build.MidGameItems, build.LateGameItems = splitPhases(entry.PopularItems)
	build.SkillBuild = append(build.SkillBuild, entry.PopularSkills...)
	copyNotes(build.Talents, entry.Talents)
	copyNotes(build.GamePlan, entry.GamePlan)
	copyNotes(build.ItemExplanations, entry.ItemNotes)
	return build
}

// splitPhases cuts popular items into early, mid and late thirds. Leftovers go to the earlier phases.
func splitPhases(items []string) (early, mid, late []string) {
	if len(items) == 0 {
		return []string{"boots"}, []string{}, []string{}
	}
	n := len(items)
	a := (n + 2) / 3
	b := a + (n-a+1)/2
	early = append([]string{}, items[:a]...)
	mid = append([]string{}, items[a:b]...)
	late = append([]string{}, items[b:]...)
	return early, mid, late
}

func copyNotes(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func fillEmpty(b *domain.DetailedBuild) {
	for _, list := range []*[]string{&b.StartingItems, &b.EarlyGameItems, &b.MidGameItems, &b.LateGameItems, &b.SituationalItems, &b.SkillBuild, &b.Warnings} {
		if *list == nil {
			*list = []string{}
		}
	}
	for _, m := range []*map[string]string{&b.Talents, &b.GamePlan, &b.ItemExplanations} {
		if *m == nil {
			*m = map[string]string{}
		}
	}
}

func normalizeAll(names []string) []domain.HeroID {
	out := make([]domain.HeroID, 0, len(names))
	for _, n := range names {
		if id := domain.NormalizeHeroID(n); id != "" {
			out = append(out, id)
		}
	}
	return out
}
