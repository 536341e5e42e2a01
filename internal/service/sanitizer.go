package service

import (
	"fmt"
	"strings"

	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/domain"
)

// DraftInput is a draft as received from the caller, before any validation.
type DraftInput struct {
	EnemyHeroes []string
	AllyHeroes  []string
	UserRole    domain.Role
	UserHero    *string
	Aspect      string
}

// SanitizeDraft normalizes a raw draft against the catalog. Unknown heroes are
// dropped with a warning; lists are deduplicated and capped at 5 enemies and 4 allies.
// Warnings are returned in detection order.
func SanitizeDraft(in DraftInput, snap *catalog.Snapshot) (domain.Draft, []string) {
	warnings := []string{}

	d := domain.Draft{
		EnemyHeroes: cleanHeroes(in.EnemyHeroes, snap, domain.MaxEnemyHeroes, "enemy heroes", &warnings),
		AllyHeroes:  cleanHeroes(in.AllyHeroes, snap, domain.MaxAllyHeroes, "ally heroes", &warnings),
		UserRole:    in.UserRole,
		Aspect:      strings.TrimSpace(in.Aspect),
	}

	if in.UserHero != nil && strings.TrimSpace(*in.UserHero) != "" {
		id := domain.NormalizeHeroID(*in.UserHero)
		if snap.IsValid(id) {
			d.UserHero = &id
		} else {
			warnings = append(warnings, fmt.Sprintf("Your hero '%s' was not found in the hero list and is ignored.", strings.TrimSpace(*in.UserHero)))
		}
	}

	return d, warnings
}

// cleanHeroes filters by catalog membership first, then dedupes, then truncates.
func cleanHeroes(raw []string, snap *catalog.Snapshot, max int, list string, warnings *[]string) []domain.HeroID {
	out := make([]domain.HeroID, 0, len(raw))
	seen := make(map[domain.HeroID]struct{}, len(raw))

	for _, name := range raw {
		id := domain.NormalizeHeroID(name)
		if !snap.IsValid(id) {
			*warnings = append(*warnings, fmt.Sprintf("Hero '%s' is not recognized and was removed from %s.", strings.TrimSpace(name), list))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) > max {
		out = out[:max]
	}
	return out
}
