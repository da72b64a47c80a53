package ledger

import (
	"path/filepath"
	"testing"

	"github.com/NeshaaSoftware/backend/internal/config"
	"github.com/NeshaaSoftware/backend/internal/database"
	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// setupTestDB creates a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("init test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createAccount(t *testing.T, db *gorm.DB, name string) *models.FinancialAccount {
	t.Helper()
	account := models.FinancialAccount{Name: name}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account %q: %v", name, err)
	}
	return &account
}

func createCourse(t *testing.T, db *gorm.DB, name string) *models.Course {
	t.Helper()
	course := models.Course{Name: name}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course %q: %v", name, err)
	}
	return &course
}

func createRegistration(t *testing.T, db *gorm.DB, courseID uint) *models.Registration {
	t.Helper()
	registration := models.Registration{CourseID: courseID}
	if err := db.Create(&registration).Error; err != nil {
		t.Fatalf("create registration: %v", err)
	}
	return &registration
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
