package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Payroll   PayrollConfig
	Duty      DutyConfig
	Bootstrap BootstrapConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	// AutoMigrate applies the embedded schema at start-up.
	AutoMigrate bool
}

// BootstrapConfig seeds the first company and admin on an empty database.
type BootstrapConfig struct {
	CompanyName   string
	AdminEmail    string
	AdminPassword string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	// Timezone decides which calendar day a punch-in belongs to.
	Timezone string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// RedisConfig holds redis configuration. An empty Addr disables redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PayrollConfig holds the per-day bonus amounts credited for outside trips.
type PayrollConfig struct {
	SameDayBonus   decimal.Decimal
	NightStayBonus decimal.Decimal
}

type DutyConfig struct {
	AutoCloseAfter time.Duration
	CronInterval   time.Duration
}

func Load() (*Config, error) {
	// .env is optional outside local development
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "fleet-crm"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: getEnv("DB_AUTO_MIGRATE", "false") == "true",
	}

	config.Bootstrap = BootstrapConfig{
		CompanyName:   getEnv("BOOTSTRAP_COMPANY_NAME", ""),
		AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDRESS", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "fleet-crm"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/uploads"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	sameDay, err := decimal.NewFromString(getEnv("PAYROLL_SAME_DAY_BONUS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SAME_DAY_BONUS: %w", err)
	}
	nightStay, err := decimal.NewFromString(getEnv("PAYROLL_NIGHT_STAY_BONUS", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_NIGHT_STAY_BONUS: %w", err)
	}
	config.Payroll = PayrollConfig{
		SameDayBonus:   sameDay,
		NightStayBonus: nightStay,
	}

	// Duty configuration
	autoCloseAfter, err := time.ParseDuration(getEnv("DUTY_AUTO_CLOSE_AFTER", "20h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUTY_AUTO_CLOSE_AFTER: %w", err)
	}
	cronInterval, err := time.ParseDuration(getEnv("DUTY_CRON_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUTY_CRON_INTERVAL: %w", err)
	}
	config.Duty = DutyConfig{
		AutoCloseAfter: autoCloseAfter,
		CronInterval:   cronInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.SameDayBonus.IsNegative() || c.Payroll.NightStayBonus.IsNegative() {
		return fmt.Errorf("payroll bonuses must not be negative")
	}
	if c.Duty.AutoCloseAfter <= 0 {
		return fmt.Errorf("DUTY_AUTO_CLOSE_AFTER must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
