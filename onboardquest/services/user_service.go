package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/bcrypt"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

const defaultUserCacheSize = 1024

// Notifier sends account emails. Failures never fail the calling operation.
type Notifier interface {
	SendWelcome(ctx context.Context, user *models.User) error
}

type RegisterInput struct {
	Username   string
	Password   string
	Name       string
	Department string
	Role       string
	Experience string
	Email      string
}

// ProfileUpdate changes only the non-nil fields.
type ProfileUpdate struct {
	Name       *string
	Department *string
	Experience *string
	Email      *string
}

type UserServiceConfig struct {
	AdminUsernames []string
	CacheSize      int
	BcryptCost     int
}

type UserService struct {
	users    repositories.UserRepository
	progress repositories.ProgressRepository
	notifier Notifier
	cache    *lru.Cache
	admins   map[string]struct{}
	cost     int
}

func NewUserService(users repositories.UserRepository, progress repositories.ProgressRepository, notifier Notifier, cfg UserServiceConfig) (*UserService, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultUserCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create user cache: %w", err)
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	admins := make(map[string]struct{}, len(cfg.AdminUsernames))
	for _, name := range cfg.AdminUsernames {
		admins[NormalizeUsername(name)] = struct{}{}
	}

	return &UserService{
		users:    users,
		progress: progress,
		notifier: notifier,
		cache:    cache,
		admins:   admins,
		cost:     cost,
	}, nil
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates the user and its zero-state progress together.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Progress, error) {
	username := NormalizeUsername(in.Username)
	if username == "" {
		return nil, nil, NewValidationError("username", "is required")
	}
	if in.Password == "" {
		return nil, nil, NewValidationError("password", "is required")
	}

	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleEmployee && role != models.RoleHR {
		return nil, nil, NewValidationError("role", "must be one of employee, hr")
	}
	if _, ok := s.admins[username]; ok {
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, nil, NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Department:   strings.TrimSpace(in.Department),
		Role:         role,
		Experience:   strings.TrimSpace(in.Experience),
		Email:        strings.TrimSpace(in.Email),
	}
	progress := models.NewProgress(user.ID)

	if err := s.users.CreateWithProgress(ctx, user, progress); err != nil {
		if repositories.IsConflict(err) {
			return nil, nil, NewValidationError("username", "already taken")
		}
		return nil, nil, translate("register", err)
	}
	s.cache.Add(user.ID, *user)

	slog.Info("User registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role))

	if s.notifier != nil && user.Email != "" {
		if err := s.notifier.SendWelcome(ctx, user); err != nil {
			slog.Warn("Welcome email failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err))
		}
	}
	return user, progress, nil
}

// Authenticate checks the credentials and makes sure the user has a
// progress row.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, *models.Progress, error) {
	user, err := s.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, translate("authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}

	progress, err := s.progress.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, nil, translate("authenticate", err)
	}
	s.cache.Add(user.ID, *user)
	return user, progress, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if v, ok := s.cache.Get(id); ok {
		user := v.(models.User)
		return &user, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate("get user", err)
	}
	s.cache.Add(id, *user)
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, NewValidationError("name", "must not be empty")
		}
		user.Name = name
	}
	if in.Department != nil {
		user.Department = strings.TrimSpace(*in.Department)
	}
	if in.Experience != nil {
		user.Experience = strings.TrimSpace(*in.Experience)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}

	s.cache.Remove(id)
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, translate("update profile", err)
	}
	return user, nil
}

