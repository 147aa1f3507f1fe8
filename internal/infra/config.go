package infra

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv    string
	Port      string
	APIPrefix string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBMaxConns  int

	ResetDBToken   string
	SeedScriptPath string
	GeoIPDBPath    string
	LogFile        string

	CORSAllowedOrigins     []string
	RegistrationRatePerMin int
	TrustProxyHeaders      bool
	HTTPReadTimeout        time.Duration
	HTTPWriteTimeout       time.Duration
	HTTPIdleTimeout        time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "3000"),
		APIPrefix:              normalizePrefix(getEnv("API_PREFIX", "/api/v1")),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             getEnv("DB_PASSWORD", "password"),
		DBName:                 getEnv("DB_NAME", "test"),
		DBSSLMode:              getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:             getEnvInt("DB_MAX_CONNS", 10),
		ResetDBToken:           strings.TrimSpace(os.Getenv("RESET_DB_TOKEN")),
		SeedScriptPath:         strings.TrimSpace(os.Getenv("SEED_SCRIPT_PATH")),
		GeoIPDBPath:            strings.TrimSpace(os.Getenv("GEOIP_DB_PATH")),
		LogFile:                strings.TrimSpace(os.Getenv("LOG_FILE")),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RegistrationRatePerMin: getEnvInt("REGISTRATION_RATE_LIMIT_PER_MINUTE", 30),
		TrustProxyHeaders:      getEnvBool("TRUST_PROXY_HEADERS", false),
		HTTPReadTimeout:        time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:       time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:        time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive")
	}

	if cfg.RegistrationRatePerMin <= 0 {
		return nil, fmt.Errorf("REGISTRATION_RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from the DB_* values.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ResetEnabled reports whether the reset-db route should be mounted.
func (c *Config) ResetEnabled() bool {
	return c.ResetDBToken != ""
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
