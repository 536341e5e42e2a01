package domain

import (
	"time"

	"gorm.io/datatypes"
)

// BuildVariant is a short build option offered after a hero and aspect are chosen.
type BuildVariant struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DetailedBuild is the full build document for one build variant.
type DetailedBuild struct {
	StartingItems    []string          `json:"starting_items"`
	EarlyGameItems   []string          `json:"early_game_items"`
	MidGameItems     []string          `json:"mid_game_items"`
	LateGameItems    []string          `json:"late_game_items"`
	SituationalItems []string          `json:"situational_items"`
	SkillBuild       []string          `json:"skill_build"`
	Talents          map[string]string `json:"talents"`
	GamePlan         map[string]string `json:"game_plan"`
	ItemExplanations map[string]string `json:"item_explanations"`
	Warnings         []string          `json:"warnings"`
	Source           Source            `json:"source"`
}

// CachedBuild is the persisted form of a DetailedBuild, keyed by the build id.
type CachedBuild struct {
	BuildID   string         `json:"buildId" gorm:"primaryKey"`
	Document  datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
