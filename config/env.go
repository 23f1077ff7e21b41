package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

const (
	defaultAppPort         = "8080"
	defaultAppEnv          = "local"
	defaultBackendURL      = "http://localhost:3000"
	defaultBackendTimeout  = "10s"
	defaultCacheDriver     = "memory"
	defaultRedisAddr       = "localhost:6379"
	defaultCatalogCacheTTL = "30s"
	defaultSessionTTL      = "2h"
	defaultTokenStore      = "cookie"
	defaultTokenTTL        = "720h"
	defaultJWTSecret       = "change-me-in-production"
	defaultRateLimit       = "200"
	defaultLogLevel        = "debug"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, .env and the process environment (in that
// order of precedence, lowest first). It runs once per process.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":           defaultAppEnv,
		"APP_PORT":          defaultAppPort,
		"APP_KEY":           "",
		"BACKEND_URL":       defaultBackendURL,
		"BACKEND_TIMEOUT":   defaultBackendTimeout,
		"CACHE_DRIVER":      defaultCacheDriver,
		"REDIS_ADDR":        defaultRedisAddr,
		"REDIS_PASSWORD":    "",
		"CATALOG_CACHE_TTL": defaultCatalogCacheTTL,
		"SESSION_TTL":       defaultSessionTTL,
		"TOKEN_STORE":       defaultTokenStore,
		"TOKEN_TTL":         defaultTokenTTL,
		"JWT_SECRET":        defaultJWTSecret,
		"RATE_LIMIT":        defaultRateLimit,
		"LOG_LEVEL":         defaultLogLevel,
	}
}

func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

// AppKey is the secret used to encrypt tokens at rest. Falls back to the JWT
// secret so a fresh checkout works without extra setup.
func AppKey() string { _ = Load(); return get("APP_KEY", JWTSecret()) }

func IsProduction() bool {
	switch AppEnv() {
	case "production", "prod":
		return true
	}
	return false
}

// ── Backend ──────────────────────────────────────────────────────────────────

func BackendURL() string {
	_ = Load()
	return strings.TrimRight(get("BACKEND_URL", defaultBackendURL), "/")
}

func BackendTimeout() time.Duration { return duration("BACKEND_TIMEOUT", defaultBackendTimeout) }

// ── Cache / session ──────────────────────────────────────────────────────────

func CacheDriver() string {
	_ = Load()
	switch d := strings.ToLower(get("CACHE_DRIVER", defaultCacheDriver)); d {
	case "memory", "redis":
		return d
	default:
		return defaultCacheDriver
	}
}

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func CatalogCacheTTL() time.Duration { return duration("CATALOG_CACHE_TTL", defaultCatalogCacheTTL) }
func SessionTTL() time.Duration      { return duration("SESSION_TTL", defaultSessionTTL) }

// TokenStore selects where the login token lives: "cookie" (encrypted,
// persistent) or "session" (server side, keyed by the session cookie).
func TokenStore() string {
	_ = Load()
	if strings.ToLower(get("TOKEN_STORE", defaultTokenStore)) == "session" {
		return "session"
	}
	return "cookie"
}

func TokenTTL() time.Duration { return duration("TOKEN_TTL", defaultTokenTTL) }

// ── Security / misc ──────────────────────────────────────────────────────────

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

// RateLimit is the number of requests a single client may make per minute.
func RateLimit() int {
	_ = Load()
	n, err := strconv.Atoi(get("RATE_LIMIT", defaultRateLimit))
	if err != nil || n <= 0 {
		n, _ = strconv.Atoi(defaultRateLimit)
	}
	return n
}

func LogLevel() string { _ = Load(); return strings.ToLower(get("LOG_LEVEL", defaultLogLevel)) }

// Validate reports every malformed setting at once.
func Validate() error {
	if err := Load(); err != nil {
		return err
	}

	var result *multierror.Error

	if u, err := url.Parse(get("BACKEND_URL", "")); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("BACKEND_URL %q is not an absolute URL", get("BACKEND_URL", "")))
	}
	for _, key := range []string{"BACKEND_TIMEOUT", "CATALOG_CACHE_TTL", "SESSION_TTL", "TOKEN_TTL"} {
		if _, err := time.ParseDuration(get(key, "")); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
		}
	}
	if _, err := strconv.Atoi(get("APP_PORT", "")); err != nil {
		result = multierror.Append(result, fmt.Errorf("APP_PORT %q is not a number", get("APP_PORT", "")))
	}
	if IsProduction() && JWTSecret() == defaultJWTSecret {
		result = multierror.Append(result, fmt.Errorf("JWT_SECRET must be changed in production"))
	}

	return result.ErrorOrNil()
}

func duration(key, fallback string) time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get(key, fallback))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key for the rest of the process. Intended for tests and
// CLI flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	defer mu.Unlock()
	values[strings.ToUpper(key)] = value
}
