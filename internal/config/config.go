// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Input/output directories
	MemberDir string
	SlipsDir  string
	ReportDir string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// AWS
	AWSRegion      string
	SnapshotBucket string

	// SES
	SESSenderEmail  string
	ReportRecipient string

	// Application
	ChapterName string
	Stage       string
	LogLevel    string

	// Rows whose detail cell is non-empty record business closed outside
	// the chapter. Some source layouts encode this differently; set false
	// to treat every TYFCB row as within-chapter.
	InferWithinOrgFromDetail bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		MemberDir: getEnv("PALMS_MEMBER_DIR", "Member Names"),
		SlipsDir:  getEnv("PALMS_SLIPS_DIR", "Excel Files"),
		ReportDir: getEnv("PALMS_REPORT_DIR", "Reports"),

		DBHost:     getEnv("DB_HOST", getEnv("PALMS_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", getEnvInt("PALMS_DB_PORT", 5432)),
		DBName:     getEnv("DB_NAME", getEnv("PALMS_DB_NAME", "palms_analytics")),
		DBUser:     getEnv("DB_USER", getEnv("PALMS_DB_USER", "postgres")),
		DBPassword: getEnv("DB_PASSWORD", getEnv("PALMS_DB_PASSWORD", "")),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SnapshotBucket: getEnv("SNAPSHOT_BUCKET", ""),

		SESSenderEmail:  getEnv("SES_SENDER_EMAIL", ""),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),

		ChapterName: getEnv("CHAPTER_NAME", "Chapter"),
		Stage:       getEnv("STAGE", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		InferWithinOrgFromDetail: getEnvBool("INFER_WITHIN_ORG_FROM_DETAIL", true),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require"
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
