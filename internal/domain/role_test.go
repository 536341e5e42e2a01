package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		valid    bool
	}{
		{"mid", RoleMid, true},
		{"  Mid ", RoleMid, true},
		{"Hard Support", RoleHardSupport, true},
		{"hard-support", RoleHardSupport, true},
		{"SAFELANE", RoleSafelane, true},
		{"jungle", Role("jungle"), false},
		{"", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role := ParseRole(tt.input)
			assert.Equal(t, tt.expected, role)
			assert.Equal(t, tt.valid, role.IsValid())
		})
	}
}

func TestRoleTags(t *testing.T) {
	for _, role := range AllRoles {
		assert.NotEmpty(t, role.Tags(), "role %s has no tags", role)
	}
	assert.Equal(t, []string{"Support", "Disabler"}, RoleSupport.Tags())
	assert.Nil(t, Role("jungle").Tags())
}

func TestNormalizeHeroID(t *testing.T) {
	tests := map[string]HeroID{
		"Anti-Mage":                      "anti_mage",
		"npc_dota_hero_phantom_assassin": "phantom_assassin",
		"Nature's Prophet":               "natures_prophet",
		"  Zeus ":                        "zeus",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeHeroID(input), input)
	}
}

func TestDraftExcludedAndLaneOpponents(t *testing.T) {
	me := HeroID("invoker")
	d := Draft{
		EnemyHeroes: []HeroID{"zeus", "axe", "lion"},
		AllyHeroes:  []HeroID{"lina"},
		UserHero:    &me,
	}

	assert.True(t, d.HasUserHero())
	assert.Len(t, d.Excluded(), 5)
	assert.Equal(t, []HeroID{"zeus", "axe"}, d.LaneOpponents())
	assert.Empty(t, Draft{}.LaneOpponents())
}
