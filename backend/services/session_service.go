package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/questforge/onboard-quest/backend/config"
	"github.com/questforge/onboard-quest/backend/models"
)

const (
	SessionCookieName = "onboardquest_session"
	sessionIssuer     = "onboard-quest"
)

var (
	ErrNoSession      = errors.New("no session found")
	ErrInvalidSession = errors.New("invalid session")
)

// SessionClaims is the signed payload of the session token.
type SessionClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService handles user session management
type SessionService struct {
	config *config.WebAppConfig
}

// NewSessionService creates a new session service
func NewSessionService(cfg *config.WebAppConfig) *SessionService {
	return &SessionService{
		config: cfg,
	}
}

// Sign returns the HS256 token for userSession.
func (s *SessionService) Sign(userSession *models.UserSession) (string, error) {
	if len(s.config.SessionSecret()) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}
	claims := SessionClaims{
		Username: userSession.Username,
		Name:     userSession.Name,
		Role:     userSession.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userSession.UserID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(userSession.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SessionSecret())
}

// Parse verifies token and returns the session it carries.
func (s *SessionService) Parse(token string) (*models.UserSession, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.config.SessionSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidSession
	}

	return &models.UserSession{
		UserID:    claims.Subject,
		Username:  claims.Username,
		Name:      claims.Name,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CreateSession signs the session, sets the session cookie and returns the
// token for clients that prefer the Authorization header.
func (s *SessionService) CreateSession(c *fiber.Ctx, userSession *models.UserSession) (string, error) {
	token, err := s.Sign(userSession)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  userSession.ExpiresAt,
		MaxAge:   int(time.Until(userSession.ExpiresAt) / time.Second),
		Secure:   s.config.IsProduction(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session created for user",
		slog.String("type", "http"),
		slog.String("user_id", userSession.UserID),
		slog.String("username", userSession.Username),
		slog.String("role", userSession.Role))

	return token, nil
}

// GetSession reads the session from the cookie, falling back to a bearer
// token in the Authorization header.
func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if token == "" {
		return nil, ErrNoSession
	}
	return s.Parse(token)
}

// DestroySession removes the session cookie
func (s *SessionService) DestroySession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.config.IsProduction(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session destroyed for request",
		slog.String("type", "http"),
		slog.String("ip", c.IP()),
		slog.String("user_agent", c.Get("User-Agent")))
}

// RefreshSession extends the session expiration time
func (s *SessionService) RefreshSession(c *fiber.Ctx, userSession *models.UserSession) (string, error) {
	userSession.ExpiresAt = time.Now().Add(s.config.SessionTTL())
	return s.CreateSession(c, userSession)
}
