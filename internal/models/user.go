package models

import "time"

// User represents a staff member entering records, or an account holder
// referenced by a transaction.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	DisplayName  string    `gorm:"size:64"`
	PhoneNumber  string    `gorm:"size:32;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LastLoginAt *time.Time
	LastLoginIP string `gorm:"size:64"`
}
