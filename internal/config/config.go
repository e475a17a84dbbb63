package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	devSecret = "dev_secret_key"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Env            string
	Port           string
	StorageDriver  string
	DatabaseURL    string
	JWTSecret      string
	JWTIssuer      string
	JWTTTL         time.Duration
	CORSOrigins    []string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RatePerMinute  int
	RateBurst      int
	TrustedProxies []netip.Prefix
	LogLevel       string
	ServiceVersion string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Env:            strings.ToLower(fallback(os.Getenv("APP_ENV"), EnvDevelopment)),
		Port:           fallback(os.Getenv("PORT"), "4000"),
		StorageDriver:  strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:      fallback(os.Getenv("JWT_ISSUER"), "learnhub-backend"),
		JWTTTL:         time.Duration(readPositive("JWT_TTL_MINUTES", 7*24*60)) * time.Minute,
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:3000,http://localhost:5173")),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        readInt("REDIS_DB", 0),
		RatePerMinute:  readPositive("AUTH_RATE_LIMIT_PER_MIN", 60),
		RateBurst:      readPositive("AUTH_RATE_LIMIT_BURST", 20),
		LogLevel:       fallback(os.Getenv("LOG_LEVEL"), "info"),
		ServiceVersion: fallback(os.Getenv("SERVICE_VERSION"), "1.0.0"),
	}

	proxies, err := parsePrefixes(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return Config{}, err
	}
	cfg.TrustedProxies = proxies

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.IsProduction() {
		if cfg.JWTSecret == devSecret {
			return Config{}, errors.New("JWT_SECRET must be changed in production")
		}
		if cfg.StorageDriver == DriverMemory {
			return Config{}, errors.New("memory storage is not allowed in production")
		}
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func readInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}

// readPositive is readInt for settings where zero is meaningless.
func readPositive(key string, def int) int {
	if v := readInt(key, def); v > 0 {
		return v
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// parsePrefixes reads a CSV of IPs or CIDRs. A bare IP becomes a single-host prefix.
func parsePrefixes(input string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			p, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", part)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", part)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
