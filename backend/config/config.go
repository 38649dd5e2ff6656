package config

import (
	"strings"
	"time"

	"github.com/questforge/onboard-quest/onboardquest"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *onboardquest.Config
	Debug       bool
	Environment string
}

// NewWebAppConfig creates a new web app configuration
func NewWebAppConfig(cfg *onboardquest.Config) *WebAppConfig {
	return &WebAppConfig{
		Config:      cfg,
		Debug:       !cfg.IsProduction(),
		Environment: cfg.Server.Environment,
	}
}

func (w *WebAppConfig) IsProduction() bool {
	return w.Environment == "production"
}

func (w *WebAppConfig) SessionSecret() []byte {
	return []byte(w.Config.Server.SessionSecret)
}

func (w *WebAppConfig) SessionTTL() time.Duration {
	return w.Config.Server.SessionTTL.Duration
}

// UploadLimitBytes is the request body limit handed to fiber.
func (w *WebAppConfig) UploadLimitBytes() int {
	return w.Config.Server.UploadLimitMB * 1024 * 1024
}

// AllowedOrigins returns the CORS origin list, defaulting to the local
// frontend dev servers.
func (w *WebAppConfig) AllowedOrigins() string {
	origins := strings.TrimSpace(w.Config.Server.AllowedOrigins)
	if origins == "" {
		return "http://localhost:3000,http://localhost:5173"
	}
	return origins
}
