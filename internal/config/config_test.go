package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DB_PATH", "PORT", "REDIS_URL", "SESSION_TTL", "LOCK_WAIT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.DBPath != "data/app.db" || cfg.Port != "8080" || cfg.DatabaseURL != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.LockWait != 3*time.Second {
		t.Fatalf("unexpected duration defaults: ttl=%s wait=%s", cfg.SessionTTL, cfg.LockWait)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("LOCK_TTL", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("session ttl = %s", cfg.SessionTTL)
	}
	if cfg.LockTTL != 15*time.Second {
		t.Fatalf("lock ttl = %s", cfg.LockTTL)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestTypedGettersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "ten")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	if got := GetInt("X_INT", 3); got != 3 {
		t.Errorf("GetInt = %d", got)
	}
	if got := GetBool("X_BOOL", true); !got {
		t.Errorf("GetBool = %v", got)
	}
	if got := GetDuration("X_DUR", time.Second); got != time.Second {
		t.Errorf("GetDuration = %s", got)
	}
}
