package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	StorageBackend string
	DB             DBConfig
	MigrationsPath string

	JWTSecret string
	TokenTTL  time.Duration

	KafkaBrokerURL string // empty disables event publishing
	KafkaTopic     string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load reads configuration from the environment, consulting a .env file
// first if one is present. JWT_SECRET is mandatory: the signing secret has
// no default by design.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:        getEnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		StorageBackend:  getEnvOrDefault("STORAGE_BACKEND", BackendMemory),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "bank"),
			Password: getEnvOrDefault("DB_PASSWORD", "bank"),
			Name:     getEnvOrDefault("DB_NAME", "bank"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "file://migrations"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getEnvAsDuration("TOKEN_TTL", time.Hour),
		KafkaBrokerURL: os.Getenv("KAFKA_BROKER_URL"),
		KafkaTopic:     getEnvOrDefault("KAFKA_TRANSFER_TOPIC", "transfer_completed"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	switch cfg.StorageBackend {
	case BackendMemory, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	return cfg, nil
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// MigrationDSN returns the URL form used by golang-migrate.
func (c *Config) MigrationDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// KafkaBrokers splits the broker URL list; empty means disabled.
func (c *Config) KafkaBrokers() []string {
	if c.KafkaBrokerURL == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnvOrDefault(key, strconv.Itoa(defaultValue))); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnvOrDefault(key, defaultValue.String())); err == nil {
		return value
	}
	return defaultValue
}
