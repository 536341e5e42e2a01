package domain

const (
	MaxEnemyHeroes = 5
	MaxAllyHeroes  = 4
)

// Draft is the picking state a recommendation is computed for.
type Draft struct {
	EnemyHeroes []HeroID `json:"enemy_heroes"`
	AllyHeroes  []HeroID `json:"ally_heroes"`
	UserRole    Role     `json:"user_role"`
	UserHero    *HeroID  `json:"user_hero"`
	Aspect      string   `json:"aspect,omitempty"`
}

// HasUserHero reports whether the player already picked a hero.
func (d Draft) HasUserHero() bool {
	return d.UserHero != nil && *d.UserHero != ""
}

// Excluded returns every hero already taken in the draft, including the user's own pick.
func (d Draft) Excluded() map[HeroID]struct{} {
	excluded := make(map[HeroID]struct{}, len(d.EnemyHeroes)+len(d.AllyHeroes)+1)
	for _, h := range d.EnemyHeroes {
		excluded[h] = struct{}{}
	}
	for _, h := range d.AllyHeroes {
		excluded[h] = struct{}{}
	}
	if d.HasUserHero() {
		excluded[*d.UserHero] = struct{}{}
	}
	return excluded
}

// LaneOpponents returns the first two enemy heroes.
func (d Draft) LaneOpponents() []HeroID {
	n := len(d.EnemyHeroes)
	if n > 2 {
		n = 2
	}
	out := make([]HeroID, n)
	copy(out, d.EnemyHeroes[:n])
	return out
}
