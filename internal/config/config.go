package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL"`

	SessionSecret      string `env:"SESSION_SECRET,required"`
	SessionTTLHours    int    `env:"SESSION_TTL_HOURS" envDefault:"336"`
	SessionSliding     bool   `env:"SESSION_SLIDING" envDefault:"false"`
	CookieDomain       string `env:"COOKIE_DOMAIN"`
	CookieSameSite     string `env:"COOKIE_SAMESITE" envDefault:"lax"`
	CleanupIntervalMin int    `env:"CLEANUP_INTERVAL_MINUTES" envDefault:"60"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailReceiver string `env:"MAIL_RECEIVER"`

	ViewsDir  string `env:"VIEWS_DIR"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMin) * time.Minute
}

// SameSite maps the configured policy to the http constant. Unknown values
// fall back to Lax rather than None so a typo never loosens the cookie.
func (c *Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// MailTo is the contact-form recipient, falling back to the SMTP account
// the way the original deployment did.
func (c *Config) MailTo() string {
	if c.MailReceiver != "" {
		return c.MailReceiver
	}
	return c.SMTPUser
}

func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

func (c *Config) Validate() error {
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}

	if c.IsProduction() {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if !c.MailConfigured() {
			log.Warn().Msg("SMTP is not configured in production: contact form and password reset mail will fail")
		}
		if strings.HasPrefix(c.BaseURL, "http://") {
			log.Warn().Msg("BASE_URL uses http:// in production: password reset links will not be served over TLS")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// ResolveViewsDir probes the candidate template locations and returns the
// first that exists. The build pipeline of the original deployment emitted
// templates into dist/views, so both layouts are accepted.
func (c *Config) ResolveViewsDir() (string, error) {
	candidates := []string{c.ViewsDir, "views", filepath.Join("dist", "views")}

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no views directory found (tried %v)", candidates)
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
