package config

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	APIBaseURL         string
	APITimeout         time.Duration
	AuthorizationEmail string
	AuthorizationKey   string
	PageLimit          int

	PositionTitles []string
	Keywords       []string

	ClickHouseAddr         string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string
	PositionsTable         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration
	EventsEnabled   bool

	ReportsPath    string
	RecipientEmail string
	ServiceEmail   string
	SMTPHost       string
	SMTPPort       int

	OTELCollectorURL string
}

// FromEnv builds a Config from environment variables and built-in defaults.
func FromEnv() *Config {
	return &Config{
		APIBaseURL:         getEnvString("USAJOBS_API_BASE_URL", "https://data.usajobs.gov/api"),
		APITimeout:         getEnvDuration("USAJOBS_API_TIMEOUT", 30*time.Second),
		AuthorizationEmail: getEnvString("USAJOBS_AUTHORIZATION_EMAIL", ""),
		AuthorizationKey:   getEnvString("USAJOBS_AUTHORIZATION_KEY", ""),
		PageLimit:          getEnvInt("USAJOBS_PAGE_LIMIT", 500),

		PositionTitles: []string{"Data Analyst", "Data Scientist", "Data Engineer"},
		Keywords:       []string{"data", "analysis", "analytics"},

		ClickHouseAddr:         getEnvString("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "fedjobs"),
		PositionsTable:         getEnvString("POSITIONS_TABLE", "positions"),

		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		EventsEnabled:   getEnvBool("EVENTS_ENABLED", false),

		ReportsPath:    getEnvString("REPORTS_PATH", "./reports"),
		RecipientEmail: getEnvString("RECIPIENT_EMAIL", "test@example.com"),
		ServiceEmail:   getEnvString("SERVICE_EMAIL", "reports@fedjobs.local"),
		SMTPHost:       getEnvString("SMTP_HOST", "localhost"),
		SMTPPort:       getEnvInt("SMTP_PORT", 1000),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}
}

// Load builds the env-derived Config and applies command line overrides
// for the search terms and the report recipient.
func Load() (*Config, error) {
	config := FromEnv()

	titles := pflag.StringSlice("position-titles", config.PositionTitles, "position title search terms")
	keywords := pflag.StringSlice("keywords", config.Keywords, "free text search terms")
	recipient := pflag.String("recipient-email", config.RecipientEmail, "destination address for reports")
	pflag.Parse()

	config.PositionTitles = *titles
	config.Keywords = *keywords
	config.RecipientEmail = *recipient

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
