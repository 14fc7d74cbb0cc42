// Package config loads runtime settings from an optional .env file and
// GRIDPICKS_* environment variables. Command-line flags are applied on top
// by cmd/gridpicks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GRIDPICKS_"

// Config holds runtime settings
type Config struct {
	Port           int
	DBPath         string
	AdminPassword  string
	JWTSecret      string
	LogLevel       string
	LogFormat      string
	HTTPLogging    bool
	AllowLate      bool
	Season         int
	BaseURL        string
	TimingFeedURL  string
	TimingRPS      float64
	CORSOrigins    []string
	TrustProxy     bool
	PlayerTokenTTL time.Duration
}

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Port:           8081,
		DBPath:         "gridpicks.db",
		LogLevel:       "info",
		LogFormat:      "text",
		HTTPLogging:    false,
		AllowLate:      true,
		Season:         time.Now().Year(),
		TimingRPS:      1,
		PlayerTokenTTL: 30 * 24 * time.Hour,
	}
}

// Load reads envFile when it exists and then the process environment.
// A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from defaults overridden by lookup
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.int("PORT", &c.Port)
	p.string("DB", &c.DBPath)
	p.string("ADMIN_PASSWORD", &c.AdminPassword)
	p.string("JWT_SECRET", &c.JWTSecret)
	p.string("LOG_LEVEL", &c.LogLevel)
	p.string("LOG_FORMAT", &c.LogFormat)
	p.bool("HTTP_LOGGING", &c.HTTPLogging)
	p.bool("ALLOW_LATE", &c.AllowLate)
	p.bool("TRUST_PROXY", &c.TrustProxy)
	p.int("SEASON", &c.Season)
	p.string("BASE_URL", &c.BaseURL)
	p.string("TIMING_FEED_URL", &c.TimingFeedURL)
	p.float("TIMING_RPS", &c.TimingRPS)
	p.duration("PLAYER_TOKEN_TTL", &c.PlayerTokenTTL)
	if raw, ok := lookup(envPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(raw)
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if p.err != nil {
		return Config{}, p.err
	}
	return c, c.Validate()
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	if c.Season < 1949 {
		return fmt.Errorf("season %d is not a valid year", c.Season)
	}
	if c.TimingRPS <= 0 {
		return fmt.Errorf("timing rps must be positive")
	}
	return nil
}

type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.lookup(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
}

func (p *parser) string(key string, dst *string) {
	if v, ok := p.raw(key); ok {
		*dst = v
	}
}

func (p *parser) int(key string, dst *int) {
	if v, ok := p.raw(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.raw(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = f
	}
}

func (p *parser) bool(key string, dst *bool) {
	if v, ok := p.raw(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.raw(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = d
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
