package models

import (
	"slices"
	"time"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/progression"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

// UserSession represents a user session for web authentication
type UserSession struct {
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewUserSession(user *models.User, ttl time.Duration) *UserSession {
	return &UserSession{
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (s *UserSession) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// HasRole reports whether the session role is one of roles. Admins pass
// every role check.
func (s *UserSession) HasRole(roles ...string) bool {
	return s.IsAdmin() || slices.Contains(roles, s.Role)
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,notblank,min=3,max=32"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required,notblank,max=100"`
	Department string `json:"department" validate:"required,notblank,max=100"`
	Role       string `json:"role" validate:"omitempty,oneof=employee hr"`
	Experience string `json:"experience" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (r RegisterRequest) Input() services.RegisterInput {
	return services.RegisterInput{
		Username:   r.Username,
		Password:   r.Password,
		Name:       r.Name,
		Department: r.Department,
		Role:       r.Role,
		Experience: r.Experience,
		Email:      r.Email,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// ProgressRequest is the body of POST /api/user/progress. Score is a
// pointer so a missing score can be told apart from 0.
type ProgressRequest struct {
	ModuleID string `json:"moduleId" validate:"required,notblank"`
	Type     string `json:"type" validate:"required,oneof=module quiz game"`
	Score    *int64 `json:"score" validate:"omitempty,min=0"`
}

func (r ProgressRequest) Update() services.ProgressUpdate {
	return services.ProgressUpdate{
		ModuleID: r.ModuleID,
		Type:     r.Type,
		Score:    r.Score,
	}
}

type ProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,notblank,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Experience *string `json:"experience" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

func (r ProfileRequest) Update() services.ProfileUpdate {
	return services.ProfileUpdate{
		Name:       r.Name,
		Department: r.Department,
		Experience: r.Experience,
		Email:      r.Email,
	}
}

type BadgeRequest struct {
	BadgeID string `json:"badgeId" validate:"required,notblank"`
}

type LocationRequest struct {
	LocationID string `json:"locationId" validate:"required,notblank"`
}

type QuizSubmitRequest struct {
	Answers []int `json:"answers" validate:"required,min=1,dive,min=0"`
}

// TrainingUploadRequest holds the text fields of the admin upload form.
type TrainingUploadRequest struct {
	Name     string `form:"name" json:"name" validate:"required,notblank,max=200"`
	Title    string `form:"title" json:"title" validate:"required,notblank,max=200"`
	Duration string `form:"duration" json:"duration" validate:"required,notblank,max=50"`
}

// AuthResponse is returned by register, login and me.
type AuthResponse struct {
	User      *models.User             `json:"user"`
	Progress  *models.Progress         `json:"progress"`
	LevelInfo *progression.Summary     `json:"levelInfo,omitempty"`
	Badges    []services.UnlockedBadge `json:"badges,omitempty"`
	Token     string                   `json:"token,omitempty"`
}

// ProgressResponse is the body of POST /api/user/progress. It is sent
// without the APIResponse envelope.
type ProgressResponse struct {
	Success          bool                `json:"success"`
	Progress         *models.Progress    `json:"progress"`
	LevelInfo        progression.Summary `json:"levelInfo"`
	XPGained         int64               `json:"xpGained"`
	AlreadyCompleted bool                `json:"alreadyCompleted"`
	NewBadges        []string            `json:"newBadges"`
	Score            *int                `json:"score,omitempty"`
}

func NewProgressResponse(out *services.ProgressOutcome) *ProgressResponse {
	return &ProgressResponse{
		Success:          true,
		Progress:         out.Progress,
		LevelInfo:        out.LevelInfo,
		XPGained:         out.XPGained,
		AlreadyCompleted: out.AlreadyCompleted,
		NewBadges:        out.NewBadges,
	}
}

type BadgeUnlockResponse struct {
	Badge           *models.BadgeUnlock `json:"badge"`
	AlreadyUnlocked bool                `json:"alreadyUnlocked"`
}
