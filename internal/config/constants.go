package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout at startup
const DBPingTimeout = 5 * time.Second

// Outbound mail must not hold a request open indefinitely
const MailSendTimeout = 10 * time.Second

// Request body limit for form posts
const MaxBodySize = 1 << 20 // 1MB

// Password policy
const (
	PasswordMinLength = 8
	BcryptCost        = 12
)

// Password reset tokens are short-lived and single use
const ResetTokenTTL = time.Hour

// Static asset cache lifetime
const StaticCacheMaxAge = 24 * time.Hour
