// Package content loads the static onboarding material: training modules
// with their quizzes, mini-games and badge definitions.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

//go:embed assets/*.toml
var assets embed.FS

var (
	ErrUnknownModule = errors.New("unknown module")
	ErrAnswerCount   = errors.New("answer count does not match question count")
)

const (
	CriterionModulesCompleted = "modules_completed"
	CriterionQuizzesCompleted = "quizzes_completed"
	CriterionLevel            = "level"
	CriterionXP               = "xp"
	CriterionAllModules       = "all_modules"
	CriterionManual           = "manual"
)

type Question struct {
	Question string   `toml:"question" json:"question"`
	Options  []string `toml:"options" json:"options"`
	Answer   int      `toml:"answer" json:"-"`
}

type Module struct {
	ID        string     `toml:"id" json:"id"`
	Name      string     `toml:"name" json:"name"`
	Title     string     `toml:"title" json:"title"`
	Duration  string     `toml:"duration" json:"duration"`
	XP        int64      `toml:"xp" json:"xp"`
	QuizXP    int64      `toml:"quiz_xp" json:"quizXp"`
	Location  string     `toml:"location" json:"location"`
	Story     string     `toml:"story" json:"story"`
	Questions []Question `toml:"questions" json:"questions"`
}

type Game struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	ModuleID    string `toml:"module" json:"moduleId"`
	Description string `toml:"description" json:"description"`
	MaxScore    int64  `toml:"max_score" json:"maxScore"`
}

type Badge struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description"`
	Criterion   string `toml:"criterion" json:"criterion"`
	Threshold   int64  `toml:"threshold" json:"threshold,omitempty"`
}

// Catalog is immutable after Load and safe for concurrent use.
type Catalog struct {
	modules     []Module
	games       []Game
	badges      []Badge
	moduleIndex map[string]int
	gameIndex   map[string]int
	badgeIndex  map[string]int
}

// Load reads the embedded assets.
func Load() (*Catalog, error) {
	return LoadFS(assets, "assets")
}

// MustLoad panics when the embedded assets are broken. Used at startup.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads modules.toml, games.toml and badges.toml from dir in fsys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	var modules struct {
		Modules []Module `toml:"modules"`
	}
	var games struct {
		Games []Game `toml:"games"`
	}
	var badges struct {
		Badges []Badge `toml:"badges"`
	}

	files := []struct {
		name string
		dst  any
	}{
		{"modules.toml", &modules},
		{"games.toml", &games},
		{"badges.toml", &badges},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, dir+"/"+f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		if err := toml.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
	}

	c := &Catalog{
		modules:     modules.Modules,
		games:       games.Games,
		badges:      badges.Badges,
		moduleIndex: make(map[string]int, len(modules.Modules)),
		gameIndex:   make(map[string]int, len(games.Games)),
		badgeIndex:  make(map[string]int, len(badges.Badges)),
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	for i, m := range c.modules {
		if m.ID == "" {
			return fmt.Errorf("module %d has no id", i)
		}
		if _, dup := c.moduleIndex[m.ID]; dup {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		if m.XP < 0 || m.QuizXP < 0 {
			return fmt.Errorf("module %q has negative xp", m.ID)
		}
		for j, q := range m.Questions {
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				return fmt.Errorf("module %q question %d answer out of range", m.ID, j)
			}
		}
		c.moduleIndex[m.ID] = i
	}

	for i, g := range c.games {
		if _, dup := c.gameIndex[g.ID]; dup || g.ID == "" {
			return fmt.Errorf("invalid or duplicate game id %q", g.ID)
		}
		if _, ok := c.moduleIndex[g.ModuleID]; !ok {
			return fmt.Errorf("game %q references unknown module %q", g.ID, g.ModuleID)
		}
		c.gameIndex[g.ID] = i
	}

	for i, b := range c.badges {
		if _, dup := c.badgeIndex[b.ID]; dup || b.ID == "" {
			return fmt.Errorf("invalid or duplicate badge id %q", b.ID)
		}
		switch b.Criterion {
		case CriterionModulesCompleted, CriterionQuizzesCompleted, CriterionLevel,
			CriterionXP, CriterionAllModules, CriterionManual:
		default:
			return fmt.Errorf("badge %q has unknown criterion %q", b.ID, b.Criterion)
		}
		c.badgeIndex[b.ID] = i
	}
	return nil
}

// Modules returns the modules in map order.
func (c *Catalog) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

func (c *Catalog) Games() []Game {
	return append([]Game(nil), c.games...)
}

func (c *Catalog) Badges() []Badge {
	return append([]Badge(nil), c.badges...)
}

func (c *Catalog) Module(id string) (Module, bool) {
	i, ok := c.moduleIndex[id]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

func (c *Catalog) Game(id string) (Game, bool) {
	i, ok := c.gameIndex[id]
	if !ok {
		return Game{}, false
	}
	return c.games[i], true
}

func (c *Catalog) Badge(id string) (Badge, bool) {
	i, ok := c.badgeIndex[id]
	if !ok {
		return Badge{}, false
	}
	return c.badges[i], true
}

func (c *Catalog) ModuleCount() int {
	return len(c.modules)
}

// ScoreQuiz grades answers against the module's questions and returns a
// 0-100 score rounded to the nearest integer.
func (c *Catalog) ScoreQuiz(moduleID string, answers []int) (int, error) {
	m, ok := c.Module(moduleID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	if len(answers) != len(m.Questions) || len(m.Questions) == 0 {
		return 0, ErrAnswerCount
	}

	correct := 0
	for i, q := range m.Questions {
		if answers[i] == q.Answer {
			correct++
		}
	}
	n := len(m.Questions)
	return (correct*100 + n/2) / n, nil
}

// Met reports whether progress satisfies the badge criterion. Manual
// badges are never met automatically.
func (b Badge) Met(p *models.Progress, totalModules int) bool {
	switch b.Criterion {
	case CriterionModulesCompleted:
		return int64(len(p.CompletedModules)) >= b.Threshold
	case CriterionQuizzesCompleted:
		return int64(len(p.CompletedQuizzes)) >= b.Threshold
	case CriterionLevel:
		return p.Level >= b.Threshold
	case CriterionXP:
		return p.XP >= b.Threshold
	case CriterionAllModules:
		return totalModules > 0 && len(p.CompletedModules) >= totalModules
	default:
		return false
	}
}
