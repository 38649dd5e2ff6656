package onboardquest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultXPPerLevel   = 100
	DefaultSessionTTL   = 24 * time.Hour
	DefaultUploadLimit  = 25
	DefaultQueryTimeout = 10 * time.Second
)

// LoadConfig reads the TOML file at path, loads a sibling .env file if one
// exists and applies environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	DB       DBConfig       `toml:"db"`
	Progress ProgressConfig `toml:"progress"`
	Spaces   SpacesConfig   `toml:"spaces"`
	Mail     MailConfig     `toml:"mail"`
	Admin    AdminConfig    `toml:"admin"`
}

type ServerConfig struct {
	Address        string   `toml:"address"`
	Environment    string   `toml:"environment"`
	AppName        string   `toml:"app_name"`
	AllowedOrigins string   `toml:"allowed_origins"`
	SessionSecret  string   `toml:"session_secret"`
	SessionTTL     Duration `toml:"session_ttl"`
	UploadLimitMB  int      `toml:"upload_limit_mb"`
	UploadDir      string   `toml:"upload_dir"`
	// TrustedProxies may set X-Forwarded-For. Other peers are keyed by
	// their socket address.
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Duration decodes TOML strings such as "24h" or "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string   `toml:"host"`
	Port     int      `toml:"port"`
	User     string   `toml:"user"`
	Password string   `toml:"password"`
	Database string   `toml:"database"`
	PoolSize int      `toml:"pool_size"`
	Timeout  Duration `toml:"timeout"`
}

type ProgressConfig struct {
	XPPerLevel int64 `toml:"xp_per_level"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

// Enabled reports whether uploads should go to object storage instead of the
// local upload directory.
func (s SpacesConfig) Enabled() bool {
	return s.Key != "" && s.Secret != "" && s.Bucket != ""
}

type MailConfig struct {
	SendgridKey string `toml:"sendgrid_key"`
	FromName    string `toml:"from_name"`
	FromEmail   string `toml:"from_email"`
}

type AdminConfig struct {
	Usernames []string `toml:"usernames"`
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(&c.Server.SessionSecret, "ONBOARDQUEST_SESSION_SECRET")
	setString(&c.DB.Host, "ONBOARDQUEST_DB_HOST")
	setString(&c.DB.Password, "ONBOARDQUEST_DB_PASSWORD")
	setString(&c.Mail.SendgridKey, "SENDGRID_API_KEY")
	setString(&c.Spaces.Key, "SPACES_KEY")
	setString(&c.Spaces.Secret, "SPACES_SECRET")

	if v, ok := os.LookupEnv("ONBOARDQUEST_DB_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.DB.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.AppName == "" {
		c.Server.AppName = "Onboard Quest"
	}
	if c.Server.SessionTTL.Duration <= 0 {
		c.Server.SessionTTL.Duration = DefaultSessionTTL
	}
	if c.Server.UploadLimitMB <= 0 {
		c.Server.UploadLimitMB = DefaultUploadLimit
	}
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = "uploads"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.PoolSize == 0 {
		c.DB.PoolSize = 10
	}
	if c.DB.Timeout.Duration <= 0 {
		c.DB.Timeout.Duration = DefaultQueryTimeout
	}
	if c.Progress.XPPerLevel <= 0 {
		c.Progress.XPPerLevel = DefaultXPPerLevel
	}
	if c.Mail.FromName == "" {
		c.Mail.FromName = c.Server.AppName
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.Server.SessionSecret) < 32 {
		return errors.New("server.session_secret must be at least 32 characters")
	}
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("db.host and db.database are required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
