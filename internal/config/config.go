// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Upload   UploadConfig
	Mail     MailConfig
	Seed     SeedConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects the store. Driver is "sqlite" or "postgres"; the
// remaining fields only apply to postgres.
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	Debug      bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name       string
	Dev        bool
	Migrations bool
	CacheTTL   int // seconds an account stays cached by the access guard
}

// UploadConfig controls résumé storage and the request body ceiling.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// MailConfig holds SMTP settings. An empty Host disables outgoing mail.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether an SMTP host was configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

// SeedConfig describes the master account created on an empty store.
type SeedConfig struct {
	MasterName     string
	MasterEmail    string
	MasterPassword string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// String describes the target store without credentials.
func (d DatabaseConfig) String() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf("postgres host=%s port=%d dbname=%s user=%s", d.Host, d.Port, d.DBName, d.User)
	}
	return "sqlite " + d.SQLitePath
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_PATH", "talentos.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "talentos"),
			Password:   getEnv("DB_PASSWORD", "talentos"),
			DBName:     getEnv("DB_NAME", "talentos"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Name:       getEnv("APP_NAME", "Talentos"),
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
			CacheTTL:   getEnvInt("ACCESS_CACHE_TTL", 300),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 16<<20)),
		},
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvInt("MAIL_PORT", 587),
			User:     getEnv("MAIL_USER", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "rh@localhost"),
		},
		Seed: SeedConfig{
			MasterName:     getEnv("MASTER_NAME", "Master"),
			MasterEmail:    getEnv("MASTER_EMAIL", "master@localhost.com"),
			MasterPassword: getEnv("MASTER_PASSWORD", ""),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
