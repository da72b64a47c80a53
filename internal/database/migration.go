package database

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Registration{},
		&models.FinancialAccount{},
		&models.Commodity{},
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Transaction{},
		&models.CourseTransaction{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
