package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Encryption EncryptionConfig
	Session    SessionConfig
	TLS        TLSConfig
	Firebase   FirebaseConfig
	Plaid      PlaidConfig
	Dwolla     DwollaConfig
	Cache      CacheConfig
	Telemetry  TelemetryConfig
	Messages   MessagesConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EncryptionConfig struct {
	Key string
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

// FirebaseConfig holds the document store settings. The collection ids are
// opaque names; the service never creates collections itself.
type FirebaseConfig struct {
	ProjectID          string
	CredentialsFile    string
	UserCollection     string
	BankCollection     string
	TransferCollection string
}

type PlaidConfig struct {
	ClientID     string
	Secret       string
	Env          string
	Products     []string
	CountryCodes []string
}

type DwollaConfig struct {
	Key    string
	Secret string
	Env    string
}

type CacheConfig struct {
	AccountsTTL time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type MessagesConfig struct {
	File string
}

func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionMaxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}

	accountsTTL, err := time.ParseDuration(getEnv("ACCOUNTS_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNTS_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: getListEnv("ALLOWED_HOSTS", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "paynex"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "paynex"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "paynex-session"),
			MaxAge:     sessionMaxAge,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Firebase: FirebaseConfig{
			ProjectID:          getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile:    getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			UserCollection:     getEnv("FIRESTORE_USER_COLLECTION", "users"),
			BankCollection:     getEnv("FIRESTORE_BANK_COLLECTION", "banks"),
			TransferCollection: getEnv("FIRESTORE_TRANSFER_COLLECTION", "transfers"),
		},
		Plaid: PlaidConfig{
			ClientID:     getEnv("PLAID_CLIENT_ID", ""),
			Secret:       getEnv("PLAID_SECRET", ""),
			Env:          getEnv("PLAID_ENV", "sandbox"),
			Products:     getListEnv("PLAID_PRODUCTS", "auth,transactions"),
			CountryCodes: getListEnv("PLAID_COUNTRY_CODES", "US"),
		},
		Dwolla: DwollaConfig{
			Key:    getEnv("DWOLLA_KEY", ""),
			Secret: getEnv("DWOLLA_SECRET", ""),
			Env:    getEnv("DWOLLA_ENV", "sandbox"),
		},
		Cache: CacheConfig{
			AccountsTTL: accountsTTL,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "paynex-api"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Messages: MessagesConfig{
			File: getEnv("MESSAGES_FILE", ""),
		},
	}

	// Validate required fields
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}
	if cfg.Session.MaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_AGE must be positive")
	}

	switch cfg.Plaid.Env {
	case "sandbox", "development", "production":
	default:
		return nil, fmt.Errorf("invalid PLAID_ENV %q", cfg.Plaid.Env)
	}
	switch cfg.Dwolla.Env {
	case "sandbox", "production":
	default:
		return nil, fmt.Errorf("invalid DWOLLA_ENV %q", cfg.Dwolla.Env)
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

// getListEnv splits a comma-separated variable, dropping blank entries.
func getListEnv(key, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
