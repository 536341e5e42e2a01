package domain

// Source marks which branch of the pipeline produced a result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceMeta     Source = "meta"
	SourceFallback Source = "fallback"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceAI, SourceMeta, SourceFallback:
		return true
	}
	return false
}

// Default item lists returned with every recommendation.
var (
	DefaultStartingItems = []string{"tango", "branches", "circlet"}
	DefaultBuildEasy     = []string{"boots", "witch_blade", "aghanims_scepter"}
	DefaultBuildEven     = []string{"boots", "kaya", "bkb"}
	DefaultBuildHard     = []string{"boots", "euls", "ghost_scepter"}
)

type HeroSuggestion struct {
	Name   HeroID  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// BuildPlan is a per-hero item and skill plan.
type BuildPlan struct {
	Name          HeroID            `json:"name"`
	WinrateScore  float64           `json:"winrate_score"`
	Build         []string          `json:"build"`
	StartingItems []string          `json:"starting_items"`
	SkillBuild    []string          `json:"skill_build"`
	Description   string            `json:"description,omitempty"`
	Highlight     string            `json:"highlight,omitempty"`
	Talents       map[string]string `json:"talents,omitempty"`
	GamePlan      map[string]string `json:"game_plan,omitempty"`
	ItemNotes     map[string]string `json:"item_notes,omitempty"`
}

type RecommendationResult struct {
	RecommendedAspect string           `json:"recommended_aspect,omitempty"`
	SuggestedHeroes   []HeroSuggestion `json:"suggested_heroes"`
	LaneOpponents     []HeroID         `json:"lane_opponents"`
	StartingItems     []string         `json:"starting_items"`
	BuildEasy         []string         `json:"build_easy"`
	BuildEven         []string         `json:"build_even"`
	BuildHard         []string         `json:"build_hard"`
	Builds            []BuildPlan      `json:"builds"`
	Warnings          []string         `json:"warnings"`
	Source            Source           `json:"source"`
}

// NewRecommendationResult returns a result populated with the default item lists
// and empty (non-nil) collections.
func NewRecommendationResult(source Source) *RecommendationResult {
	return &RecommendationResult{
		SuggestedHeroes: []HeroSuggestion{},
		LaneOpponents:   []HeroID{},
		StartingItems:   append([]string(nil), DefaultStartingItems...),
		BuildEasy:       append([]string(nil), DefaultBuildEasy...),
		BuildEven:       append([]string(nil), DefaultBuildEven...),
		BuildHard:       append([]string(nil), DefaultBuildHard...),
		Builds:          []BuildPlan{},
		Warnings:        []string{},
		Source:          source,
	}
}
