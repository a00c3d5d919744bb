package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/talentos/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model.
func Migrate(conn *gorm.DB) error {
	for _, m := range []any{&models.Account{}, &models.Posting{}, &models.Application{}} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"accounts", "postings", "applications"} {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
