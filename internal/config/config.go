package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Database drivers selected from the environment
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultSessionSecret = "dev_session_secret_change_me"

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	AppURL   string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Email    EmailConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether an SMTP host is configured
func (e EmailConfig) Enabled() bool {
	return e.Host != ""
}

// StorageConfig selects where uploaded documents are kept
type StorageConfig struct {
	UploadDir string
	S3        S3Config
}

// S3Config holds S3-compatible object storage configuration
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// UseS3 reports whether object storage is configured
func (s StorageConfig) UseS3() bool {
	return s.S3.Endpoint != "" && s.S3.Bucket != ""
}

// RedisConfig holds the e-mail queue connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether the queue is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// AdminConfig holds the bootstrap administrator
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", config.AppMode, config.Database.Driver)
	return config, nil
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	appMode, err := resolveAppMode()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		AppURL:   strings.TrimRight(getEnv("APP_URL", "http://localhost:5173"), "/"),
		Database: loadDatabaseConfig(),
		JWT:      loadJWTConfig(),
		Cookie:   loadCookieConfig(appMode),
		Email:    loadEmailConfig(),
		Storage:  loadStorageConfig(),
		Redis:    loadRedisConfig(),
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		},
	}

	if config.IsProd() {
		if config.JWT.Secret == defaultSessionSecret {
			return nil, fmt.Errorf("SESSION_SECRET must be set in prod mode")
		}
		if config.Database.Driver == DriverSQLite && config.Database.SQLitePath == "" {
			return nil, fmt.Errorf("in-memory database is not allowed in prod mode")
		}
	}

	return config, nil
}

// resolveAppMode reads APP_MODE, falling back to NODE_ENV=production
func resolveAppMode() (string, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(os.Getenv("APP_MODE"))
	if appMode == "" {
		appMode = "dev"
		if strings.TrimSpace(os.Getenv("NODE_ENV")) == "production" {
			appMode = "prod"
		}
	}
	if appMode != "dev" && appMode != "prod" {
		return "", fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}
	return appMode, nil
}

// loadDatabaseConfig picks the backend: DATABASE_URL, then DB_HOST, then SQLite
func loadDatabaseConfig() DatabaseConfig {
	cfg := DatabaseConfig{
		URL:        getEnv("DATABASE_URL", ""),
		Host:       getEnv("DB_HOST", ""),
		Port:       getEnv("DB_PORT", "3306"),
		User:       getEnv("DB_USER", "root"),
		Password:   getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "visaconsult"),
		SQLitePath: getEnv("SQLITE_PATH", ""),
	}

	switch {
	case cfg.URL != "":
		cfg.Driver = DriverPostgres
	case cfg.Host != "":
		cfg.Driver = DriverMySQL
	default:
		cfg.Driver = DriverSQLite
	}
	return cfg
}

func loadJWTConfig() JWTConfig {
	accessMins := getEnvInt("ACCESS_TOKEN_MINUTES", 15)
	refreshDays := getEnvInt("REFRESH_TOKEN_DAYS", 7)

	secret := getEnv("SESSION_SECRET", defaultSessionSecret)
	return JWTConfig{
		Secret:           secret,
		RefreshSecret:    getEnv("JWT_REFRESH_SECRET", secret+"_refresh"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	defaultSecure := "false"
	if mode == "prod" {
		defaultSecure = "true"
	}
	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", defaultSecure))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadEmailConfig() EmailConfig {
	user := getEnv("EMAIL_USER", "")
	return EmailConfig{
		Host:     getEnv("EMAIL_HOST", ""),
		Port:     getEnvInt("EMAIL_PORT", 587),
		User:     user,
		Password: getEnv("EMAIL_PASSWORD", ""),
		From:     getEnv("EMAIL_FROM", user),
	}
}

func loadStorageConfig() StorageConfig {
	useSSL, _ := strconv.ParseBool(getEnv("S3_USE_SSL", "true"))
	return StorageConfig{
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			UseSSL:    useSSL,
		},
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.AppURL
	}
	return origins
}
