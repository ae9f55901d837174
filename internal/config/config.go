package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	Schema       string
	SSLMode      string
	MaxOpenConns int
}

// RedisConfig enables API rate limiting when Addr is set.
type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	RequestsPerWindow int
	Window            time.Duration
}

type JobsConfig struct {
	APIURL           string
	HTTPTimeout      time.Duration
	HeartbeatTimeout time.Duration
	Retries          int
	RetryBackoff     time.Duration

	HeartbeatLog string
	LowStockLog  string
	RemindersLog string
	ReportLog    string

	HeartbeatInterval time.Duration
	LowStockInterval  time.Duration
	RemindersInterval time.Duration
	ReportInterval    time.Duration
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() *Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not read env file %s: %v", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Database:     v.GetString("DB_DATABASE"),
			Schema:       v.GetString("DB_SCHEMA"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Addr:              v.GetString("REDIS_ADDR"),
			Password:          v.GetString("REDIS_PASSWORD"),
			DB:                v.GetInt("REDIS_DB"),
			RequestsPerWindow: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Jobs: JobsConfig{
			APIURL:            v.GetString("CRM_API_URL"),
			HTTPTimeout:       v.GetDuration("JOBS_HTTP_TIMEOUT"),
			HeartbeatTimeout:  v.GetDuration("JOBS_HEARTBEAT_TIMEOUT"),
			Retries:           v.GetInt("JOBS_RETRIES"),
			RetryBackoff:      v.GetDuration("JOBS_RETRY_BACKOFF"),
			HeartbeatLog:      v.GetString("HEARTBEAT_LOG"),
			LowStockLog:       v.GetString("LOW_STOCK_LOG"),
			RemindersLog:      v.GetString("ORDER_REMINDERS_LOG"),
			ReportLog:         v.GetString("REPORT_LOG"),
			HeartbeatInterval: v.GetDuration("HEARTBEAT_INTERVAL"),
			LowStockInterval:  v.GetDuration("LOW_STOCK_INTERVAL"),
			RemindersInterval: v.GetDuration("REMINDERS_INTERVAL"),
			ReportInterval:    v.GetDuration("REPORT_INTERVAL"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)

	v.SetDefault("CRM_API_URL", "http://localhost:8080")
	v.SetDefault("JOBS_HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("JOBS_HEARTBEAT_TIMEOUT", 5*time.Second)
	v.SetDefault("JOBS_RETRIES", 3)
	v.SetDefault("JOBS_RETRY_BACKOFF", 500*time.Millisecond)
	v.SetDefault("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt")
	v.SetDefault("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt")
	v.SetDefault("ORDER_REMINDERS_LOG", "/tmp/order_reminders_log.txt")
	v.SetDefault("REPORT_LOG", "/tmp/crm_report_log.txt")
	v.SetDefault("HEARTBEAT_INTERVAL", 5*time.Minute)
	v.SetDefault("LOW_STOCK_INTERVAL", 12*time.Hour)
	v.SetDefault("REMINDERS_INTERVAL", 24*time.Hour)
	v.SetDefault("REPORT_INTERVAL", 7*24*time.Hour)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
