package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks"
	jwtvalidator "github.com/manorfm/casting-agency/internal/infrastructure/jwt"
)

// Config holds the application configuration
type Config struct {
	// Identity provider configuration
	AuthDomain          string
	APIAudience         string
	Algorithms          []string
	JWKSFetchTimeout    time.Duration
	JWKSRefreshCooldown time.Duration
	JWTLeeway           time.Duration

	// Database configuration
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	DBAutoMigrate bool

	// Server configuration
	ServerPort        int
	PageSize          int
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSAllowedOrigin string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		// Identity provider defaults
		JWKSFetchTimeout:    jwks.DefaultFetchTimeout,
		JWKSRefreshCooldown: jwks.DefaultRefreshCooldown,

		// Database defaults
		DBHost:        "localhost",
		DBPort:        5432,
		DBUser:        "postgres",
		DBPassword:    "postgres",
		DBName:        "casting",
		DBAutoMigrate: true,

		// Server defaults
		ServerPort:        8080,
		PageSize:          10,
		RateLimitRPS:      100,
		RateLimitBurst:    200,
		CORSAllowedOrigin: "*",
	}
}

// LoadConfig loads configuration from environment variables. The identity
// provider domain, the API audience and the signing algorithms are required.
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	cfg := NewConfig()
	var err error

	cfg.AuthDomain = strings.TrimSpace(getEnv("AUTH0_DOMAIN", ""))
	if cfg.AuthDomain == "" {
		return nil, errors.New("AUTH0_DOMAIN is required")
	}
	cfg.APIAudience = strings.TrimSpace(getEnv("API_AUDIENCE", ""))
	if cfg.APIAudience == "" {
		return nil, errors.New("API_AUDIENCE is required")
	}
	cfg.Algorithms = splitList(getEnv("ALGORITHMS", ""))
	if len(cfg.Algorithms) == 0 {
		return nil, errors.New("ALGORITHMS is required")
	}
	if err := jwtvalidator.ValidateAlgorithms(cfg.Algorithms); err != nil {
		return nil, fmt.Errorf("ALGORITHMS: %w", err)
	}

	if cfg.JWKSFetchTimeout, err = getEnvDuration("JWKS_FETCH_TIMEOUT", cfg.JWKSFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.JWKSRefreshCooldown, err = getEnvDuration("JWKS_REFRESH_COOLDOWN", cfg.JWKSRefreshCooldown); err != nil {
		return nil, err
	}
	if cfg.JWTLeeway, err = getEnvDuration("JWT_LEEWAY", cfg.JWTLeeway); err != nil {
		return nil, err
	}

	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}

	if cfg.ServerPort, err = getEnvInt("PORT", cfg.ServerPort); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getEnvInt("PAGINATION", cfg.PageSize); err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGINATION must be positive, got %d", cfg.PageSize)
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.CORSAllowedOrigin)

	return cfg, nil
}

// LoadDatabaseConfig loads only the database settings, for tools that never
// validate tokens.
func LoadDatabaseConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := NewConfig()
	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDatabase(cfg *Config) error {
	var err error
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	if cfg.DBPort, err = getEnvInt("DB_PORT", cfg.DBPort); err != nil {
		return err
	}
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	if cfg.DBAutoMigrate, err = getEnvBool("DB_AUTO_MIGRATE", cfg.DBAutoMigrate); err != nil {
		return err
	}
	return nil
}

// JWKSURL returns the key set location of the identity provider
func (c *Config) JWKSURL() string {
	return jwks.URLForDomain(c.AuthDomain)
}

// Issuer returns the issuer expected in access tokens
func (c *Config) Issuer() string {
	return jwtvalidator.IssuerForDomain(c.AuthDomain)
}

// DatabaseURL returns the postgres connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}

// getEnvDuration gets an environment variable as a duration or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %q", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
