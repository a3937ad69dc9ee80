package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Report store backends.
const (
	ReportStoreSQL    = "sql"
	ReportStoreMemory = "memory"
)

const defaultCORSOrigins = "http://127.0.0.1:8080,http://localhost:8080,http://127.0.0.1:5500,http://localhost:5500"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Database pool for stored procedures and event reports.
	DatabaseDSN       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	ReportStore       string

	// News provider configuration.
	NewsAPIKey     string
	NewsAPIURL     string
	NewsAPITimeout time.Duration
	NewsLanguage   string

	CORSAllowedOrigins []string

	// Event report publication; disabled when KafkaBrokers is empty.
	KafkaBrokers      []string
	KafkaReportsTopic string
}

// KafkaEnabled reports whether stored reports are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := parseDuration("DB_CONN_MAX_LIFETIME", "5m")
	if err != nil {
		return nil, err
	}
	newsTimeout, err := parseDuration("NEWS_API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	maxOpen, err := parsePositiveInt("DB_MAX_OPEN_CONNS", "25")
	if err != nil {
		return nil, err
	}
	maxIdle, err := parsePositiveInt("DB_MAX_IDLE_CONNS", "10")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":5073"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseDSN:       sharedcfg.EnvOrDefault("DATABASE_DSN", "coasty:coasty@tcp(localhost:3306)/coastal_erosion?parseTime=true"),
		DBMaxOpenConns:    maxOpen,
		DBMaxIdleConns:    maxIdle,
		DBConnMaxLifetime: connMaxLifetime,
		ReportStore:       strings.ToLower(sharedcfg.EnvOrDefault("REPORT_STORE", ReportStoreSQL)),

		NewsAPIKey:     sharedcfg.EnvOrDefault("NEWS_API_KEY", ""),
		NewsAPIURL:     sharedcfg.EnvOrDefault("NEWS_API_URL", "https://newsapi.org/v2"),
		NewsAPITimeout: newsTimeout,
		NewsLanguage:   sharedcfg.EnvOrDefault("NEWS_LANGUAGE", "en"),

		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)),

		KafkaBrokers:      sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaReportsTopic: sharedcfg.EnvOrDefault("KAFKA_REPORTS_TOPIC", "coastal-event-reports"),
	}

	if cfg.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}
	if cfg.ReportStore != ReportStoreSQL && cfg.ReportStore != ReportStoreMemory {
		return nil, fmt.Errorf("invalid REPORT_STORE %q: must be %q or %q", cfg.ReportStore, ReportStoreSQL, ReportStoreMemory)
	}
	if cfg.KafkaEnabled() && strings.TrimSpace(cfg.KafkaReportsTopic) == "" {
		return nil, errors.New("KAFKA_REPORTS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
