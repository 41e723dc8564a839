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

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Default rate limiting
const DefaultRateLimitPerMin = 60

// Fasting rules
const (
	// Target duration bounds in whole hours, inclusive.
	MinTargetHours = 1
	MaxTargetHours = 72
)

// History listing bounds
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)
