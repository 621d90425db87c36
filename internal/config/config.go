package config

import (
	"fmt"

	"github.com/spf13/viper"

	"timesheet.service/internal/core/timerange"
)

// The services run as pods with their connection settings injected as
// environment variables; every key below has a local development default.

type Config struct {
	DBHost                 string  `mapstructure:"DB_HOST"`
	DBPort                 string  `mapstructure:"DB_PORT"`
	DBUser                 string  `mapstructure:"DB_USER"`
	DBPassword             string  `mapstructure:"DB_PASSWORD"`
	DBName                 string  `mapstructure:"DB_NAME"`
	ServerPort             string  `mapstructure:"SERVER_PORT"`
	AWSRegion              string  `mapstructure:"AWS_REGION"`
	AWSEndpoint            string  `mapstructure:"AWS_ENDPOINT"`
	OvertimeSQSQueueURL    string  `mapstructure:"OVERTIME_SQS_QUEUE_URL"`
	EmailSQSQueueURL       string  `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	LegacyAPIURL           string  `mapstructure:"LEGACY_API_URL"`
	IsLocalDev             bool    `mapstructure:"IS_LOCAL_DEV"`
	LogLevel               string  `mapstructure:"LOG_LEVEL"`
	OTELExporterEndpoint   string  `mapstructure:"OTEL_EXPORTER_ENDPOINT"`
	ShiftLength            string  `mapstructure:"SHIFT_LENGTH"`
	RegularBreak           string  `mapstructure:"REGULAR_BREAK"`
	OvertimeThresholdHours float64 `mapstructure:"OVERTIME_THRESHOLD_HOURS"`
	UndertimeEnabled       bool    `mapstructure:"UNDERTIME_ENABLED"`
	EmailSender            string  `mapstructure:"EMAIL_SENDER"`
	EmailDomain            string  `mapstructure:"EMAIL_DOMAIN"`
	WorkerConcurrency      int     `mapstructure:"WORKER_CONCURRENCY"`
}

var defaults = map[string]any{
	"DB_HOST":                  "db",
	"DB_PORT":                  "5432",
	"DB_USER":                  "user",
	"DB_PASSWORD":              "password",
	"DB_NAME":                  "timesheet_db",
	"SERVER_PORT":              "8080",
	"AWS_REGION":               "us-east-1",
	"AWS_ENDPOINT":             "http://localstack:4566",
	"OVERTIME_SQS_QUEUE_URL":   "http://localstack:4566/000000000000/overtime-queue",
	"EMAIL_SQS_QUEUE_URL":      "http://localstack:4566/000000000000/email-queue",
	"LEGACY_API_URL":           "http://localhost:8081/",
	"IS_LOCAL_DEV":             false,
	"LOG_LEVEL":                "info",
	"OTEL_EXPORTER_ENDPOINT":   "jaeger:4317",
	"SHIFT_LENGTH":             "08:00",
	"REGULAR_BREAK":            "00:30",
	"OVERTIME_THRESHOLD_HOURS": 1.0,
	"UNDERTIME_ENABLED":        false,
	"EMAIL_SENDER":             "timetracker@unmonitored.com",
	"EMAIL_DOMAIN":             "factory.com",
	"WORKER_CONCURRENCY":       10,
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshalling config: %w", err)
	}
	err = config.Validate()
	return
}

// Validate checks the values that the services parse at startup.
func (c Config) Validate() error {
	if _, err := timerange.ParseBreakLength(c.ShiftLength); err != nil {
		return fmt.Errorf("SHIFT_LENGTH: %w", err)
	}
	if _, err := timerange.ParseBreakLength(c.RegularBreak); err != nil {
		return fmt.Errorf("REGULAR_BREAK: %w", err)
	}
	if c.OvertimeThresholdHours < 0 {
		return fmt.Errorf("OVERTIME_THRESHOLD_HOURS must not be negative, got %v", c.OvertimeThresholdHours)
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.WorkerConcurrency)
	}
	return nil
}

// DSN returns the PostgreSQL connection URL.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
