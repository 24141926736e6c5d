package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the synergy server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Insight   InsightConfig   `yaml:"insight"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	ShutdownWait time.Duration `yaml:"shutdown_wait"`
}

type InsightConfig struct {
	Provider        string        `yaml:"provider"` // gemini | openai | none; empty picks by API key
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"-"` // environment only
	MaxOutputTokens int           `yaml:"max_output_tokens"` // 0 = provider default
	Timeout         time.Duration `yaml:"timeout"` // 0 = transport decides
}

type SessionConfig struct {
	Store        string        `yaml:"store"` // memory | redis
	RedisAddr    string        `yaml:"redis_addr"`
	TTL          time.Duration `yaml:"ttl"`
	IdleEviction time.Duration `yaml:"idle_eviction"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | console
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const defaultProvider = "gemini"

// Default returns the built-in configuration. Insight.Provider is left empty
// so Load can pick it from the API keys present; it falls back to gemini.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			IdleTimeout:  60 * time.Second,
			ShutdownWait: 10 * time.Second,
		},
		Session: SessionConfig{
			Store:        "memory",
			TTL:          24 * time.Hour,
			IdleEviction: time.Hour,
		},
		RateLimit: RateLimitConfig{
			Capacity: 30,
			Refill:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SYNERGY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Session.RedisAddr = v
		c.Session.Store = "redis"
	}

	geminiKey := cmp.Or(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY"))
	openaiKey := os.Getenv("OPENAI_API_KEY")

	// A configured provider only takes its own key. Without one, the Gemini
	// key wins and OpenAI is picked only when it is the sole key.
	switch c.Insight.Provider {
	case "gemini":
		c.Insight.APIKey = cmp.Or(geminiKey, c.Insight.APIKey)
	case "openai":
		c.Insight.APIKey = cmp.Or(openaiKey, os.Getenv("API_KEY"), c.Insight.APIKey)
	case "":
		switch {
		case geminiKey != "":
			c.Insight.APIKey = geminiKey
			c.Insight.Provider = "gemini"
		case openaiKey != "":
			c.Insight.APIKey = openaiKey
			c.Insight.Provider = "openai"
		}
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Insight.Provider == "" {
		c.Insight.Provider = defaultProvider
	}
	if c.Session.Store == "" {
		c.Session.Store = def.Session.Store
	}
	if c.RateLimit.Refill == 0 {
		c.RateLimit.Refill = def.RateLimit.Refill
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
}
