package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the process settings read from the environment.
type Config struct {
	DatabaseURL string
	DBPath      string
	SeedPath    string
	Port        string

	RedisURL   string
	SessionTTL time.Duration
	LockTTL    time.Duration
	LockWait   time.Duration

	CORSAllowedOrigins []string
}

// Load reads Config from the environment, applying defaults for unset keys.
func Load() Config {
	return Config{
		DatabaseURL:        Get("DATABASE_URL", ""),
		DBPath:             Get("DB_PATH", "data/app.db"),
		SeedPath:           Get("SEED_PATH", "data/seeds/seed.json"),
		Port:               Get("PORT", "8080"),
		RedisURL:           Get("REDIS_URL", ""),
		SessionTTL:         GetDuration("SESSION_TTL", 30*time.Minute),
		LockTTL:            GetDuration("LOCK_TTL", 10*time.Second),
		LockWait:           GetDuration("LOCK_WAIT", 3*time.Second),
		CORSAllowedOrigins: GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: %s=%q is not a bool, using %v", key, v, fallback)
		return fallback
	}
	return b
}

// GetDuration accepts Go duration strings ("90s", "5m") or a bare number of seconds.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("config: %s=%q is not a duration, using %s", key, v, fallback)
	return fallback
}

// GetList splits a comma separated value, dropping empty items.
func GetList(key string, fallback []string) []string {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
