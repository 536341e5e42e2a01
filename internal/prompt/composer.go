// Package prompt assembles the instructions sent to the language model.
//
// Templates are read once at construction time; every Build* call is pure string assembly.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dom/dota-draft-assistant/internal/domain"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/oracle"
)

//go:embed templates/*.txt
var embedded embed.FS

// Template fragment names, in the order they follow the draft section.
const (
	FragmentBase     = "base"
	FragmentSkills   = "skills"
	FragmentItems    = "items"
	FragmentStrategy = "strategy"
	FragmentLane     = "lane"
)

var fragments = []string{FragmentBase, FragmentSkills, FragmentItems, FragmentStrategy, FragmentLane}

// SchemaSource supplies the JSON schema text the answer is validated against.
type SchemaSource interface {
	Definition(name string) (string, bool)
}

// Composer builds prompts from fixed template fragments.
type Composer struct {
	templates map[string]string
	schemas   SchemaSource
}

// NewComposer loads the template fragments. Files in dir override the embedded
// defaults; dir may be empty.
func NewComposer(dir string, schemas SchemaSource) (*Composer, error) {
	c := &Composer{
		templates: make(map[string]string, len(fragments)),
		schemas:   schemas,
	}

	for _, name := range fragments {
		text, err := readFragment(dir, name)
		if err != nil {
			return nil, err
		}
		c.templates[name] = text
	}
	return c, nil
}

func readFragment(dir, name string) (string, error) {
	file := name + ".txt"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		switch {
		case err == nil:
			return strings.TrimSpace(string(data)), nil
		case errors.Is(err, fs.ErrNotExist):
			logging.Warn().Str("template", file).Str("dir", dir).Msg("prompt template override not found, using built-in")
		default:
			return "", fmt.Errorf("failed to read prompt template %s: %w", file, err)
		}
	}

	data, err := embedded.ReadFile("templates/" + file)
	if err != nil {
		return "", fmt.Errorf("failed to read built-in prompt template %s: %w", file, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Template returns a loaded fragment.
func (c *Composer) Template(name string) string {
	return c.templates[name]
}

// SystemPrompt is the system message for recommendation calls.
func (c *Composer) SystemPrompt() string {
	return c.templates[FragmentBase]
}

// BuildRecommendPrompt composes the user message for a sanitized draft.
func (c *Composer) BuildRecommendPrompt(d domain.Draft) string {
	parts := []string{
		c.templates[FragmentBase],
		"---",
		"Player role: " + d.UserRole.DisplayName() + " (" + d.UserRole.String() + ")",
		"Allies: " + joinHeroes(d.AllyHeroes),
		"Enemies: " + joinHeroes(d.EnemyHeroes),
	}

	if d.HasUserHero() {
		parts = append(parts, fmt.Sprintf("The player has already picked %s. Do not suggest other heroes; return builds for %s only.", *d.UserHero, *d.UserHero))
	} else {
		parts = append(parts, "No hero picked yet. Suggest the 3 best candidates with a short reason each.")
	}
	if d.Aspect != "" {
		parts = append(parts, "Preferred aspect: "+d.Aspect)
	}

	parts = append(parts, "---",
		c.templates[FragmentSkills],
		c.templates[FragmentItems],
		c.templates[FragmentStrategy],
		c.templates[FragmentLane],
		c.answerInstruction("a single JSON object", oracle.DefRecommendation),
	)
	return strings.Join(parts, "\n\n")
}

// BuildOptionsPrompt composes the system and user messages for build variants.
func (c *Composer) BuildOptionsPrompt(hero domain.HeroID, role domain.Role, aspect string, laneEnemies []domain.HeroID) (system, user string) {
	system = "You are a Dota 2 assistant. Your task is to propose build options for a hero."
	user = strings.Join([]string{
		"Hero: " + hero.String(),
		"Role: " + role.String(),
		"Aspect: " + orNone(aspect),
		"Lane enemies: " + joinHeroes(laneEnemies),
		"Generate 3 to 5 build variants, each with a short stable id, a label and a one-sentence description.",
		c.answerInstruction("a single JSON array", oracle.DefBuildOptions),
	}, "\n")
	return system, user
}

// DetailedBuildRequest carries the inputs of a detailed build prompt.
type DetailedBuildRequest struct {
	Hero    domain.HeroID
	Role    domain.Role
	Aspect  string
	BuildID string
	Enemies []domain.HeroID
	Allies  []domain.HeroID
}

// BuildDetailedBuildPrompt composes the system and user messages for a detailed build.
func (c *Composer) BuildDetailedBuildPrompt(req DetailedBuildRequest) (system, user string) {
	system = "You are a Dota 2 strategist. Return a detailed build for the requested variant."
	user = strings.Join([]string{
		fmt.Sprintf("Hero: %s, Role: %s, Aspect: %s", req.Hero, req.Role, orNone(req.Aspect)),
		"Build variant: " + req.BuildID,
		"Enemies: " + joinHeroes(req.Enemies),
		"Allies: " + joinHeroes(req.Allies),
		"",
		c.templates[FragmentSkills],
		c.templates[FragmentItems],
		c.templates[FragmentStrategy],
		c.answerInstruction("a single JSON object", oracle.DefDetailedBuild),
	}, "\n")
	return system, user
}

func (c *Composer) answerInstruction(shape, schema string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer with %s and nothing else, inside one ```json fenced block.", shape)
	if c.schemas != nil {
		if def, ok := c.schemas.Definition(schema); ok {
			b.WriteString(" It must conform to this JSON Schema:\n")
			b.WriteString(def)
		}
	}
	b.WriteString("\nIf you cannot answer, reply with null.")
	return b.String()
}

func joinHeroes(heroes []domain.HeroID) string {
	if len(heroes) == 0 {
		return "none"
	}
	names := make([]string, len(heroes))
	for i, h := range heroes {
		names[i] = h.String()
	}
	return strings.Join(names, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
