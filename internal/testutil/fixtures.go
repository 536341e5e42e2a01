package testutil

// Canned oracle answers shaped like real model output.

// RecommendationAnswer suggests heroes for a mid player and includes a stray
// unknown hero and an extra key that must be ignored.
const RecommendationAnswer = "Here is my analysis of the draft.\n\n```json\n" + `{
  "recommended_aspect": "burst",
  "suggested_heroes": [
    {"name": "Invoker", "score": 0.91, "reason": "Strong against squishy cores"},
    {"name": "not_a_real_hero", "score": 0.8, "reason": "hallucinated"},
    {"name": "lina", "score": 0.85, "reason": "Fast burst"}
  ],
  "starting_items": ["tango", "faerie_fire", "branches"],
  "build_easy": ["hand_of_midas", "aghanims_scepter"],
  "build_even": ["boots", "blink"],
  "build_hard": ["boots", "black_king_bar"],
  "builds": [
    {
      "name": "invoker",
      "winrate_score": 0.52,
      "build": ["hand_of_midas", "boots", "aghanims_scepter"],
      "starting_items": ["tango", "faerie_fire"],
      "skill_build": ["quas", "exort", "quas"]
    }
  ],
  "source": "openai"
}` + "\n```\nGood luck!"

// HeroPickedAnswer returns a build for invoker only.
const HeroPickedAnswer = "```json\n" + `{
  "suggested_heroes": [],
  "builds": [
    {
      "name": "invoker",
      "winrate_score": 0.6,
      "build": ["hand_of_midas", "blink"],
      "starting_items": ["tango"],
      "skill_build": ["quas", "exort"]
    }
  ]
}` + "\n```"

// BuildOptionsAnswer is a valid list of four variants.
const BuildOptionsAnswer = "```json\n" + `[
  {"id": "invoker_mid_quas_wex", "label": "Quas-Wex", "description": "Tempo ganker"},
  {"id": "invoker_mid_exort", "label": "Exort", "description": "Late game damage"},
  {"id": "invoker_mid_midas", "label": "Midas", "description": "Farm first"},
  {"id": "invoker_mid_blink", "label": "Blink", "description": "Initiation"}
]` + "\n```"

// DetailedBuildAnswer wraps the build in a builds array, as models sometimes do.
const DetailedBuildAnswer = "```json\n" + `{
  "builds": [
    {
      "starting_items": ["tango", "branches"],
      "early_game_items": ["hand_of_midas", "boots"],
      "mid_game_items": ["aghanims_scepter", "blink"],
      "late_game_items": ["refresher", "octarine_core"],
      "situational_items": ["black_king_bar"],
      "skill_build": ["quas", "exort", "quas", "wex"],
      "talents": {"10": "+1 Forged Spirit", "15": "-cooldown"},
      "game_plan": {"early": "farm", "late": "teamfight"},
      "item_explanations": {"refresher": "double combo"}
    }
  ],
  "source": "openai",
  "confidence": "high"
}` + "\n```"
