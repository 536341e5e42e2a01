package service

import (
	"fmt"
	"sort"

	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
)

const maxSuggestions = 3

// RecommendByMeta ranks the non-excluded heroes whose role tags match role by
// winrate, keeping the top three. Ties keep hero-list order.
func RecommendByMeta(role domain.Role, excluded map[domain.HeroID]struct{}, snap *catalog.Snapshot) []domain.HeroSuggestion {
	tags := role.Tags()
	if len(tags) == 0 {
		logging.Warn().Str("role", role.String()).Msg("no role tags for role, meta ranking skipped")
		return []domain.HeroSuggestion{}
	}

	reason := fmt.Sprintf("Top winrate for the %s role", role.DisplayName())
	return rank(excluded, snap, reason, func(m domain.HeroMetaEntry) bool {
		return m.HasAnyRole(tags)
	})
}

// RankByWinrate ranks every non-excluded hero by winrate regardless of role.
func RankByWinrate(excluded map[domain.HeroID]struct{}, snap *catalog.Snapshot) []domain.HeroSuggestion {
	return rank(excluded, snap, "Top overall winrate", func(domain.HeroMetaEntry) bool { return true })
}

func rank(excluded map[domain.HeroID]struct{}, snap *catalog.Snapshot, reason string, match func(domain.HeroMetaEntry) bool) []domain.HeroSuggestion {
	type candidate struct {
		id      domain.HeroID
		winrate float64
	}

	var candidates []candidate
	for _, id := range snap.Ordered() {
		if _, skip := excluded[id]; skip {
			continue
		}
		entry, _ := snap.Meta(id)
		if !match(entry) {
			continue
		}
		candidates = append(candidates, candidate{id: id, winrate: entry.Winrate})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].winrate > candidates[j].winrate
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]domain.HeroSuggestion, len(candidates))
	for i, c := range candidates {
		out[i] = domain.HeroSuggestion{Name: c.id, Score: c.winrate, Reason: reason}
	}
	return out
}

// HeroBuildPlan derives a build plan for a chosen hero from its meta entry.
func HeroBuildPlan(hero domain.HeroID, snap *catalog.Snapshot) domain.BuildPlan {
	plan := domain.BuildPlan{
		Name:          hero,
		Build:         append([]string(nil), domain.DefaultBuildEven...),
		StartingItems: append([]string(nil), domain.DefaultStartingItems...),
		SkillBuild:    []string{},
		Description:   "Generic build; no meta statistics are available for this hero.",
	}

	entry, ok := snap.Meta(hero)
	if !ok {
		return plan
	}

	plan.WinrateScore = entry.Winrate
	plan.Description = "Build based on current meta statistics."
	plan.Highlight = fmt.Sprintf("%.1f%% winrate", entry.Winrate*100)
	if len(entry.PopularItems) > 0 {
		plan.Build = append([]string(nil), entry.PopularItems...)
	}
	if len(entry.PopularSkills) > 0 {
		plan.SkillBuild = append([]string(nil), entry.PopularSkills...)
	}
	plan.Talents = entry.Talents
	plan.GamePlan = entry.GamePlan
	plan.ItemNotes = entry.ItemNotes
	return plan
}
