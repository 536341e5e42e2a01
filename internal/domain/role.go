package domain

import "strings"

// Role represents a Dota 2 position
type Role string

const (
	RoleMid         Role = "mid"
	RoleSafelane    Role = "safelane"
	RoleOfflane     Role = "offlane"
	RoleSupport     Role = "support"
	RoleHardSupport Role = "hard_support"
)

// AllRoles contains all valid roles in position order
var AllRoles = []Role{RoleSafelane, RoleMid, RoleOfflane, RoleSupport, RoleHardSupport}

// ParseRole normalizes user input ("Hard Support", "hard-support") into a Role.
// The returned role may still be invalid; check IsValid.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return Role(s)
}

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleMid, RoleSafelane, RoleOfflane, RoleSupport, RoleHardSupport:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// DisplayName returns a user-friendly display name for the role
func (r Role) DisplayName() string {
	switch r {
	case RoleMid:
		return "Mid"
	case RoleSafelane:
		return "Safe Lane"
	case RoleOfflane:
		return "Off Lane"
	case RoleSupport:
		return "Support"
	case RoleHardSupport:
		return "Hard Support"
	default:
		return string(r)
	}
}

// roleTags maps a position to the catalog role tags that qualify a hero for it.
var roleTags = map[Role][]string{
	RoleMid:         {"Nuker"},
	RoleSafelane:    {"Carry"},
	RoleOfflane:     {"Initiator", "Durable"},
	RoleSupport:     {"Support", "Disabler"},
	RoleHardSupport: {"Support"},
}

// Tags returns the catalog role tags for the role, or nil for an unknown role.
func (r Role) Tags() []string {
	return roleTags[r]
}
