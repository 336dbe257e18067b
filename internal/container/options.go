package container

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMissingDatabaseURL is returned when no database connection string is configured.
var ErrMissingDatabaseURL = errors.New("database url is required (--database-url or DATABASE_URL)")

type Options struct {
	Port             int    `default:"5800"           help:"Port to listen on"                                   short:"p"`
	DatabaseURL      string `help:"PostgreSQL connection string"                                              short:"d"`
	DBMaxConns       int    `default:"5"              help:"Maximum pooled database connections"`
	CleanupInterval  int    `default:"60"             help:"Seconds between expired link sweeps"`
	CodeLength       int    `default:"8"              help:"Length of generated short codes"                     short:"c"`
	CodeRetries      int    `default:"5"              help:"Generated codes tried before a collision is reported"`
	RedisAddr        string `default:"localhost:6379" help:"Redis server address, empty disables events"         short:"r"`
	RateLimitBackend string `default:"memory"         help:"Rate limit store: memory or redis"`
	LogFormat        string `default:"console"        help:"Log encoding: console or json"`
	LogLevel         string `default:"info"           help:"Minimum log level"`
	LogFile          string `help:"Also write logs to this file, rotated by size"`
}

// ApplyEnvFallbacks fills settings from the unprefixed environment variables
// DATABASE_URL and CLEANUP_INTERVAL_SECS. Precedence, highest first: the flag,
// the SERVICE_ prefixed variable, the unprefixed variable, the default.
// changed reports whether a flag was given on the command line.
func (o *Options) ApplyEnvFallbacks(lookup func(string) (string, bool), changed func(flag string) bool) error {
	if o.DatabaseURL == "" {
		if v, ok := lookup("DATABASE_URL"); ok {
			o.DatabaseURL = v
		}
	}

	if _, ok := lookup("SERVICE_CLEANUP_INTERVAL"); !ok && !changed("cleanup-interval") {
		if v, ok := lookup("CLEANUP_INTERVAL_SECS"); ok {
			secs, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse CLEANUP_INTERVAL_SECS: %w", err)
			}

			o.CleanupInterval = secs
		}
	}

	return nil
}

// Validate reports settings the server cannot start with.
func (o *Options) Validate() error {
	if o.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}

	if o.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive, got %d", o.CleanupInterval)
	}

	switch o.RateLimitBackend {
	case "memory":
	case "redis":
		if o.RedisAddr == "" {
			return errors.New("redis rate limit backend requires a redis address")
		}
	default:
		return fmt.Errorf("unknown rate limit backend %q", o.RateLimitBackend)
	}

	return nil
}

func (o *Options) cleanupInterval() time.Duration {
	return time.Duration(o.CleanupInterval) * time.Second
}
