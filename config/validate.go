package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	switch c.Insight.Provider {
	case "gemini", "openai", "none":
	default:
		errs = append(errs, fmt.Errorf("insight.provider: unknown provider %q", c.Insight.Provider))
	}
	if c.Insight.MaxOutputTokens < 0 {
		errs = append(errs, errors.New("insight.max_output_tokens must not be negative"))
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.RedisAddr == "" {
			errs = append(errs, errors.New("session.redis_addr is required when session.store is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store: unknown store %q", c.Session.Store))
	}

	if c.RateLimit.Capacity < 0 {
		errs = append(errs, errors.New("rate_limit.capacity must not be negative"))
	}

	for name, d := range map[string]int64{
		"server.read_timeout":   int64(c.Server.ReadTimeout),
		"server.idle_timeout":   int64(c.Server.IdleTimeout),
		"server.shutdown_wait":  int64(c.Server.ShutdownWait),
		"insight.timeout":       int64(c.Insight.Timeout),
		"session.ttl":           int64(c.Session.TTL),
		"session.idle_eviction": int64(c.Session.IdleEviction),
		"rate_limit.refill":     int64(c.RateLimit.Refill),
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
