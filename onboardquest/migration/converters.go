package migration

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/progression"
)

func (im *Importer) convertUser(lu LegacyUser) (*models.User, error) {
	hash := lu.Password
	if !isBcryptHash(hash) {
		b, err := bcrypt.GenerateFromPassword([]byte(lu.Password), im.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", lu.Username, err)
		}
		hash = string(b)
	}

	createdAt := lu.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &models.User{
		ID:           lu.ID.Hex(),
		Username:     strings.ToLower(strings.TrimSpace(lu.Username)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(lu.Name),
		Department:   strings.TrimSpace(lu.Department),
		Role:         convertRole(lu.Role),
		Experience:   strings.TrimSpace(lu.Experience),
		Email:        strings.TrimSpace(lu.Email),
		CreatedAt:    createdAt,
		UpdatedAt:    time.Now(),
	}, nil
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func convertRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleHR:
		return models.RoleHR
	case models.RoleAdmin:
		return models.RoleAdmin
	default:
		return models.RoleEmployee
	}
}

// convertProgress drops duplicate set members and recomputes the level,
// since the old store used a different constant per endpoint.
func convertProgress(lp LegacyProgress, calc progression.Calculator) *models.Progress {
	xp := int64(math.Max(0, math.Floor(lp.XP)))
	p := models.NewProgress(lp.UserID.Hex())
	p.XP = xp
	p.Level = calc.Level(xp)
	p.CompletedModules = dedupe(lp.CompletedModules)
	p.CompletedQuizzes = dedupe(lp.CompletedQuizzes)
	p.UnlockedLocations = dedupe(lp.UnlockedLocations)
	return p
}

func convertQuizResult(lq LegacyQuizResult) []any {
	score := int(math.Round(lq.Score))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	completedAt := lq.CompletedAt
	if completedAt.IsZero() {
		completedAt = lq.ID.Timestamp()
	}
	return []any{lq.UserID.Hex(), lq.ModuleID, score, completedAt}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
