// Package progression holds the XP and level arithmetic shared by every
// code path that changes a user's progress.
package progression

// DefaultXPPerLevel is used when no positive value is configured.
const DefaultXPPerLevel int64 = 100

// GameXPDivisor converts a mini-game score into XP.
const GameXPDivisor int64 = 10

type Calculator struct {
	XPPerLevel int64
}

func NewCalculator(xpPerLevel int64) Calculator {
	if xpPerLevel <= 0 {
		xpPerLevel = DefaultXPPerLevel
	}
	return Calculator{XPPerLevel: xpPerLevel}
}

func (c Calculator) perLevel() int64 {
	if c.XPPerLevel <= 0 {
		return DefaultXPPerLevel
	}
	return c.XPPerLevel
}

// Level returns floor(xp / XPPerLevel) + 1. Negative xp is treated as zero.
func (c Calculator) Level(xp int64) int64 {
	if xp < 0 {
		xp = 0
	}
	return xp/c.perLevel() + 1
}

// XPIntoLevel is the xp earned since the current level started.
func (c Calculator) XPIntoLevel(xp int64) int64 {
	if xp < 0 {
		return 0
	}
	return xp % c.perLevel()
}

// XPToNextLevel is the xp still missing for the next level.
func (c Calculator) XPToNextLevel(xp int64) int64 {
	return c.perLevel() - c.XPIntoLevel(xp)
}

// LevelFloor is the minimum xp of the given level.
func (c Calculator) LevelFloor(level int64) int64 {
	if level <= 1 {
		return 0
	}
	return (level - 1) * c.perLevel()
}

// GameXP awards floor(score / 10). Negative scores award nothing.
func GameXP(score int64) int64 {
	if score <= 0 {
		return 0
	}
	return score / GameXPDivisor
}

// Summary is the level breakdown returned alongside progress snapshots.
type Summary struct {
	Level         int64 `json:"level"`
	XP            int64 `json:"xp"`
	LevelStartXP  int64 `json:"levelStartXp"`
	XPIntoLevel   int64 `json:"xpIntoLevel"`
	XPToNextLevel int64 `json:"xpToNextLevel"`
	XPPerLevel    int64 `json:"xpPerLevel"`
}

func (c Calculator) Summarize(xp int64) Summary {
	level := c.Level(xp)
	return Summary{
		Level:         level,
		XP:            xp,
		LevelStartXP:  c.LevelFloor(level),
		XPIntoLevel:   c.XPIntoLevel(xp),
		XPToNextLevel: c.XPToNextLevel(xp),
		XPPerLevel:    c.perLevel(),
	}
}
