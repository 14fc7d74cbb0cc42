package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != 8081 || c.DBPath != "gridpicks.db" || !c.AllowLate {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.PlayerTokenTTL != 30*24*time.Hour {
		t.Errorf("unexpected token ttl %v", c.PlayerTokenTTL)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"GRIDPICKS_PORT":             "9000",
		"GRIDPICKS_ALLOW_LATE":       "false",
		"GRIDPICKS_SEASON":           "2026",
		"GRIDPICKS_BASE_URL":         "http://picks.local/",
		"GRIDPICKS_CORS_ORIGINS":     "http://a.test, http://b.test,,",
		"GRIDPICKS_LOG_FORMAT":       "json",
		"GRIDPICKS_PLAYER_TOKEN_TTL": "2h",
		"GRIDPICKS_TIMING_RPS":       "0.5",
		"GRIDPICKS_TRUST_PROXY":      "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != 9000 || c.AllowLate || c.Season != 2026 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.BaseURL != "http://picks.local" {
		t.Errorf("expected trailing slash trimmed, got %q", c.BaseURL)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", c.CORSOrigins)
	}
	if c.PlayerTokenTTL != 2*time.Hour || c.TimingRPS != 0.5 {
		t.Errorf("unexpected ttl/rps: %v %v", c.PlayerTokenTTL, c.TimingRPS)
	}
	if !c.TrustProxy {
		t.Error("expected trust proxy enabled")
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"GRIDPICKS_PORT":       "eighty",
		"GRIDPICKS_ALLOW_LATE": "maybe",
		"GRIDPICKS_LOG_FORMAT": "xml",
		"GRIDPICKS_SEASON":     "12",
		"GRIDPICKS_TIMING_RPS": "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			if _, err := FromEnv(envMap(map[string]string{key: value})); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GRIDPICKS_DB=/tmp/from-dotenv.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRIDPICKS_DB", "")
	os.Unsetenv("GRIDPICKS_DB")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.DBPath != "/tmp/from-dotenv.db" {
		t.Errorf("expected db path from .env, got %q", c.DBPath)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}
