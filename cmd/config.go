package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	Storage    string
	JWTSecret  string

	// CatalogFile seeds the product catalog in memory mode. Without it that
	// mode starts with no products and every order is rejected.
	CatalogFile string

	KafkaHost              string
	KafkaOrderChangedTopic string

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
	OutboxBatchSize  int
	RateLimitRPS     float64
	RequestTimeout   time.Duration
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var parseErrs []error
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		parseErrs = append(parseErrs, err)
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		parseErrs = append(parseErrs, err)
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		parseErrs = append(parseErrs, err)
		return v
	}

	cfg := Config{
		HTTPPort:               getEnv("HTTP_PORT", "8082"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBName:                 getEnv("DB_NAME", "delivery"),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		Storage:                strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		CatalogFile:            getEnv("CATALOG_FILE", ""),
		KafkaHost:              getEnv("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: getEnv("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		CatalogCacheSize:       intVar("CATALOG_CACHE_SIZE", 1024),
		CatalogCacheTTL:        durationVar("CATALOG_CACHE_TTL", time.Minute),
		OutboxBatchSize:        intVar("OUTBOX_BATCH_SIZE", 100),
		RateLimitRPS:           floatVar("RATE_LIMIT_RPS", 20),
		RequestTimeout:         durationVar("REQUEST_TIMEOUT", 5*time.Second),
	}

	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	var problems []error

	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	switch c.Storage {
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			problems = append(problems, errors.New("DB_HOST, DB_NAME and DB_USER are required for postgres storage"))
		}
		if c.CatalogFile != "" {
			problems = append(problems, errors.New("CATALOG_FILE is only read with memory storage"))
		}
	case StorageMemory:
	default:
		problems = append(problems, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	if c.KafkaHost != "" && c.KafkaOrderChangedTopic == "" {
		problems = append(problems, errors.New("KAFKA_ORDER_CHANGED_TOPIC is required when KAFKA_HOST is set"))
	}
	if c.CatalogCacheSize < 1 {
		problems = append(problems, errors.New("CATALOG_CACHE_SIZE must be positive"))
	}
	if c.CatalogCacheTTL <= 0 {
		problems = append(problems, errors.New("CATALOG_CACHE_TTL must be positive"))
	}
	if c.OutboxBatchSize < 1 {
		problems = append(problems, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.RateLimitRPS <= 0 {
		problems = append(problems, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, errors.New("REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(problems...)
}

// DSN builds the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// String masks the secrets.
func (c Config) String() string {
	return fmt.Sprintf("Config{HTTP: %s, Storage: %s, DB: %s@%s:%s/%s, Kafka: %q, JWT: ***}",
		c.HTTPPort, c.Storage, c.DBUser, c.DBHost, c.DBPort, c.DBName, c.KafkaHost)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}
