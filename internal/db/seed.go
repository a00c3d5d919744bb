package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/internal/config"
	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

// Seed creates the first master account when the store has no accounts.
// It is a no-op without a configured password or when accounts exist.
func Seed(conn *gorm.DB, cfg config.SeedConfig) error {
	if cfg.MasterPassword == "" {
		return nil
	}
	var count int64
	if err := conn.Model(&models.Account{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(cfg.MasterPassword)
	if err != nil {
		return err
	}
	master := models.Account{
		Name:         cfg.MasterName,
		Email:        strings.ToLower(strings.TrimSpace(cfg.MasterEmail)),
		PasswordHash: hash,
		Role:         models.RoleMaster,
		Active:       true,
	}
	if err := conn.Create(&master).Error; err != nil {
		return fmt.Errorf("create master account: %w", err)
	}
	log.Printf("Seeded master account %s", master.Email)
	return nil
}
