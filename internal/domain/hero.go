package domain

import "strings"

// HeroID is the normalized identifier of a hero, e.g. "phantom_assassin".
type HeroID string

const heroNamePrefix = "npc_dota_hero_"

// NormalizeHeroID lowercases a hero name and folds punctuation so that
// "Nature's Prophet", "natures-prophet" and "npc_dota_hero_natures_prophet"
// compare equal.
func NormalizeHeroID(name string) HeroID {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, heroNamePrefix)
	s = strings.NewReplacer(" ", "_", "-", "_", "'", "", "’", "").Replace(s)
	return HeroID(s)
}

func (h HeroID) String() string {
	return string(h)
}

// Hero is an entry of the hero list file.
type Hero struct {
	Name          HeroID `json:"name"`           // e.g. "anti_mage"
	LocalizedName string `json:"localized_name"` // e.g. "Anti-Mage"
}

// HeroMetaEntry holds aggregate statistics for a hero.
type HeroMetaEntry struct {
	LocalizedName string            `json:"localized_name,omitempty"`
	Roles         []string          `json:"roles"`
	Winrate       float64           `json:"winrate"`
	PickRate      float64           `json:"pick_rate,omitempty"`
	BanRate       float64           `json:"ban_rate,omitempty"`
	PopularItems  []string          `json:"popular_items,omitempty"`
	PopularSkills []string          `json:"popular_skills,omitempty"`
	Talents       map[string]string `json:"talents,omitempty"`
	GamePlan      map[string]string `json:"game_plan,omitempty"`
	ItemNotes     map[string]string `json:"item_notes,omitempty"`
}

// HasAnyRole reports whether the entry carries one of the given role tags (case-insensitive).
func (m HeroMetaEntry) HasAnyRole(tags []string) bool {
	for _, have := range m.Roles {
		for _, want := range tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// IsMetadataKey reports whether a meta map key is a reserved pseudo-entry
// such as "_last_updated" rather than a hero.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, "_")
}
