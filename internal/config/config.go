package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Inventory InventoryConfig
	Backup    BackupConfig
	Jobs      JobsConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// DatabaseConfig points at the embedded SQLite file.
type DatabaseConfig struct {
	Path          string
	LogLevel      string
	SlowThreshold time.Duration
}

type JWTConfig struct {
	Secret             string
	Issuer             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type InventoryConfig struct {
	LowStockThreshold int
	// EnforceStock rejects sales that would drive a balance below zero.
	EnforceStock bool
}

type BackupConfig struct {
	Dir      string
	Schedule string
	Keep     int
}

type JobsConfig struct {
	IdempotencyCleanupSchedule string
	LowStockReportSchedule     string
}

// AdminConfig seeds the first administrator on an empty database.
type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// defaults apply to keys missing from both .env and the environment.
var defaults = map[string]interface{}{
	"APP_NAME":                         "erpdesk-api",
	"APP_ENV":                          "development",
	"APP_PORT":                         "8080",
	"APP_DEBUG":                        true,
	"DB_PATH":                          "./data/erpdesk.db",
	"DB_LOG_LEVEL":                     "warn",
	"DB_SLOW_THRESHOLD_MS":             200,
	"JWT_SECRET":                       "change-this-secret-in-production",
	"JWT_ISSUER":                       "erpdesk-api",
	"JWT_EXPIRY_HOURS":                 12,
	"JWT_REFRESH_EXPIRY_HOURS":         168,
	"CORS_ALLOWED_ORIGINS":             "http://localhost:3000",
	"CORS_ALLOWED_METHODS":             "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	"CORS_ALLOWED_HEADERS":             "",
	"RATE_LIMIT_REQUESTS":              100,
	"RATE_LIMIT_DURATION":              60,
	"INVENTORY_LOW_STOCK_THRESHOLD":    5,
	"INVENTORY_ENFORCE_STOCK":          false,
	"BACKUP_DIR":                       "./data/backups",
	"BACKUP_SCHEDULE":                  "0 2 * * *",
	"BACKUP_KEEP":                      7,
	"JOB_IDEMPOTENCY_CLEANUP_SCHEDULE": "@hourly",
	"JOB_LOW_STOCK_SCHEDULE":           "0 8 * * *",
	"ADMIN_EMAIL":                      "admin@erpdesk.local",
	"ADMIN_PASSWORD":                   "",
	"ADMIN_FIRST_NAME":                 "Store",
	"ADMIN_LAST_NAME":                  "Owner",
}

// Load reads .env from the working directory, then the process environment,
// which wins on conflicts.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("config: no .env loaded, using environment only: %v", err)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Path:          v.GetString("DB_PATH"),
			LogLevel:      strings.ToLower(v.GetString("DB_LOG_LEVEL")),
			SlowThreshold: time.Duration(v.GetInt("DB_SLOW_THRESHOLD_MS")) * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			Issuer:             v.GetString("JWT_ISSUER"),
			ExpiryHours:        time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(v.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: v.GetInt("INVENTORY_LOW_STOCK_THRESHOLD"),
			EnforceStock:      v.GetBool("INVENTORY_ENFORCE_STOCK"),
		},
		Backup: BackupConfig{
			Dir:      v.GetString("BACKUP_DIR"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Jobs: JobsConfig{
			IdempotencyCleanupSchedule: v.GetString("JOB_IDEMPOTENCY_CLEANUP_SCHEDULE"),
			LowStockReportSchedule:     v.GetString("JOB_LOW_STOCK_SCHEDULE"),
		},
		Admin: AdminConfig{
			Email:     v.GetString("ADMIN_EMAIL"),
			Password:  v.GetString("ADMIN_PASSWORD"),
			FirstName: v.GetString("ADMIN_FIRST_NAME"),
			LastName:  v.GetString("ADMIN_LAST_NAME"),
		},
	}
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// splitList splits a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
