package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Secrets  SecretsConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds Authorize.Net gateway configuration
type GatewayConfig struct {
	// GatewayID distinguishes this gateway instance when several are
	// configured against the same store. It keys the cached remote
	// customer-profile ids.
	GatewayID string

	APILoginID     string
	TransactionKey string

	// Sandbox selects the test endpoint
	Sandbox bool

	// RequestsPerSecond throttles outbound gateway calls. Zero disables.
	RequestsPerSecond float64
	Burst             int
}

// SecretsConfig selects the secret backend for the merchant credentials.
// When Backend is "aws", APILoginID and TransactionKey are fetched from
// Secrets Manager under the configured paths instead of the environment.
type SecretsConfig struct {
	Backend string // "env", "local", or "aws"

	AWSRegion   string
	AWSEndpoint string

	LocalPath string

	LoginIDPath        string
	TransactionKeyPath string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "authnet_gateway"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			GatewayID:         getEnv("AUTHNET_GATEWAY_ID", "default"),
			APILoginID:        getEnv("AUTHNET_API_LOGIN_ID", ""),
			TransactionKey:    getEnv("AUTHNET_TRANSACTION_KEY", ""),
			Sandbox:           getEnvAsBool("AUTHNET_SANDBOX", true),
			RequestsPerSecond: getEnvAsFloat("AUTHNET_REQUESTS_PER_SECOND", 0),
			Burst:             getEnvAsInt("AUTHNET_BURST", 1),
		},
		Secrets: SecretsConfig{
			Backend:            getEnv("SECRETS_BACKEND", "env"),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSEndpoint:        getEnv("AWS_SECRETS_ENDPOINT", ""),
			LocalPath:          getEnv("SECRETS_LOCAL_PATH", ".secrets"),
			LoginIDPath:        getEnv("AUTHNET_LOGIN_ID_SECRET_PATH", "authnet-gateway/api-login-id"),
			TransactionKeyPath: getEnv("AUTHNET_TRANSACTION_KEY_SECRET_PATH", "authnet-gateway/transaction-key"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields. Credentials may come from the secret
	// backend instead of the environment.
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Secrets.Backend == "env" {
		if cfg.Gateway.APILoginID == "" {
			return nil, fmt.Errorf("AUTHNET_API_LOGIN_ID is required")
		}
		if cfg.Gateway.TransactionKey == "" {
			return nil, fmt.Errorf("AUTHNET_TRANSACTION_KEY is required")
		}
	}

	return cfg, nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
