package db

import (
	"fmt"
	"log"
	"time"

	"github.com/diewo77/talentos/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connectAttempts gives postgres time to come up in containers.
const connectAttempts = 5

// Open connects to the configured store. GORM errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey on every driver.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	attempts := 1
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
		attempts = connectAttempts
	case "sqlite", "":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Printf("database connection attempt %d/%d failed: %v", i+1, attempts, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg, err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return conn, nil
}
