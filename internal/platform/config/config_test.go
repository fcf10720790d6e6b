package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_UsesDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("ADMIN_ADDR", "")
	t.Setenv("SHEET_CSV_URL", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("CACHE_FRESH_TTL", "")
	t.Setenv("CACHE_STALE_TTL", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("RATELIMIT_PER_MIN", "")

	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Fatalf("Addr: got %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.AdminAddr != "127.0.0.1:6060" {
		t.Fatalf("AdminAddr: got %q", cfg.AdminAddr)
	}
	if cfg.SheetCSVURL != "" {
		t.Fatalf("SheetCSVURL should default to empty, got %q", cfg.SheetCSVURL)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Fatalf("FetchTimeout: got %v", cfg.FetchTimeout)
	}
	if cfg.CacheFreshTTL != 5*time.Minute {
		t.Fatalf("CacheFreshTTL: got %v", cfg.CacheFreshTTL)
	}
	if cfg.CacheStaleTTL != 15*time.Minute {
		t.Fatalf("CacheStaleTTL: got %v", cfg.CacheStaleTTL)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("RefreshInterval: got %v", cfg.RefreshInterval)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("RateLimitPerMin: got %d", cfg.RateLimitPerMin)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("logging defaults: format=%q level=%v", cfg.LogFormat, cfg.LogLevel)
	}
}

func TestLoad_ReadsEnv(t *testing.T) {
	t.Setenv("ADDR", ":18080")
	t.Setenv("SHEET_CSV_URL", "https://docs.example.com/pub?output=csv")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("CACHE_FRESH_TTL", "1m")
	t.Setenv("CACHE_STALE_TTL", "3m")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("RATELIMIT_PER_MIN", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Addr != ":18080" {
		t.Fatalf("Addr: got %q", cfg.Addr)
	}
	if cfg.SheetCSVURL != "https://docs.example.com/pub?output=csv" {
		t.Fatalf("SheetCSVURL: got %q", cfg.SheetCSVURL)
	}
	if cfg.FetchTimeout != 2*time.Second {
		t.Fatalf("FetchTimeout: got %v", cfg.FetchTimeout)
	}
	if cfg.CacheFreshTTL != time.Minute {
		t.Fatalf("CacheFreshTTL: got %v", cfg.CacheFreshTTL)
	}
	if cfg.CacheStaleTTL != 3*time.Minute {
		t.Fatalf("CacheStaleTTL: got %v", cfg.CacheStaleTTL)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("RefreshInterval: got %v", cfg.RefreshInterval)
	}
	if cfg.RateLimitPerMin != 10 {
		t.Fatalf("RateLimitPerMin: got %d", cfg.RateLimitPerMin)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel: got %v", cfg.LogLevel)
	}
}

func TestLoad_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	t.Setenv("RATELIMIT_PER_MIN", "-5")
	t.Setenv("REDIS_DB", "abc")

	cfg := Load()

	if cfg.FetchTimeout != 5*time.Second {
		t.Fatalf("invalid duration must fall back to default, got %v", cfg.FetchTimeout)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("non-positive limit must fall back to default, got %d", cfg.RateLimitPerMin)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("invalid db index must fall back to default, got %d", cfg.RedisDB)
	}
}
