package models

import "time"

// Course is the minimal course record the ledger needs: course transactions
// and invoices reference it by id. Scheduling and content live elsewhere.
type Course struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Registration links a user to a course. PaidAmount is derived from the
// course transactions pointing at this registration and is re-synced by the
// ledger after every relevant write; it is never edited directly.
type Registration struct {
	ID         uint  `gorm:"primaryKey"`
	UserID     *uint `gorm:"index"`
	CourseID   uint  `gorm:"index;not null"`
	Tuition    int64 `gorm:"default:0"`
	PaidAmount int64 `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Course Course `gorm:"constraint:OnDelete:CASCADE"`
}
