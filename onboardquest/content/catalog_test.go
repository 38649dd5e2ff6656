package content

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, c.ModuleCount())

	btss, ok := c.Module("btss")
	require.True(t, ok)
	assert.Equal(t, int64(50), btss.XP)
	assert.Equal(t, int64(25), btss.QuizXP)
	assert.NotEmpty(t, btss.Questions)

	_, ok = c.Module("csis")
	assert.True(t, ok)

	for _, m := range c.Modules() {
		assert.Equal(t, int64(50), m.XP, m.ID)
	}

	g, ok := c.Game("phishing-hunt")
	require.True(t, ok)
	assert.Equal(t, "csis", g.ModuleID)

	_, ok = c.Badge("first-steps")
	assert.True(t, ok)
	_, ok = c.Module("nope")
	assert.False(t, ok)
}

func TestScoreQuiz(t *testing.T) {
	c := MustLoad()
	btss, _ := c.Module("btss")

	answers := make([]int, len(btss.Questions))
	for i, q := range btss.Questions {
		answers[i] = q.Answer
	}
	score, err := c.ScoreQuiz("btss", answers)
	require.NoError(t, err)
	assert.Equal(t, 100, score)

	answers[0] = (answers[0] + 1) % len(btss.Questions[0].Options)
	score, err = c.ScoreQuiz("btss", answers)
	require.NoError(t, err)
	assert.Equal(t, 67, score)

	_, err = c.ScoreQuiz("btss", []int{0})
	assert.ErrorIs(t, err, ErrAnswerCount)

	_, err = c.ScoreQuiz("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestLoadFSRejectsBrokenAssets(t *testing.T) {
	base := fstest.MapFS{
		"a/modules.toml": {Data: []byte("[[modules]]\nid = \"m1\"\nxp = 10\n")},
		"a/games.toml":   {Data: []byte("[[games]]\nid = \"g1\"\nmodule = \"m2\"\n")},
		"a/badges.toml":  {Data: []byte("")},
	}
	_, err := LoadFS(base, "a")
	assert.ErrorContains(t, err, "unknown module")

	base["a/games.toml"] = &fstest.MapFile{Data: []byte("")}
	base["a/badges.toml"] = &fstest.MapFile{Data: []byte("[[badges]]\nid = \"b\"\ncriterion = \"magic\"\n")}
	_, err = LoadFS(base, "a")
	assert.ErrorContains(t, err, "unknown criterion")

	base["a/badges.toml"] = &fstest.MapFile{Data: []byte("")}
	c, err := LoadFS(base, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ModuleCount())
}

func TestBadgeMet(t *testing.T) {
	p := models.NewProgress("u1")
	p.CompletedModules = []string{"btss", "csis"}
	p.CompletedQuizzes = []string{"btss"}
	p.XP = 125
	p.Level = 2

	assert.True(t, Badge{Criterion: CriterionModulesCompleted, Threshold: 1}.Met(p, 6))
	assert.False(t, Badge{Criterion: CriterionQuizzesCompleted, Threshold: 3}.Met(p, 6))
	assert.True(t, Badge{Criterion: CriterionLevel, Threshold: 2}.Met(p, 6))
	assert.False(t, Badge{Criterion: CriterionXP, Threshold: 500}.Met(p, 6))
	assert.False(t, Badge{Criterion: CriterionAllModules}.Met(p, 6))
	assert.True(t, Badge{Criterion: CriterionAllModules}.Met(p, 2))
	assert.False(t, Badge{Criterion: CriterionManual}.Met(p, 6))
}
