package models

import "time"

// Asset types for a financial account.
const (
	AssetTypeCurrency        = 1
	AssetTypeFixedIncome     = 2
	AssetTypeCrypto          = 3
	AssetTypeForeignCurrency = 4
)

// FinancialAccount is a named money pool. Its balance is always derived
// from the transactions booked against it, never stored.
type FinancialAccount struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	AssetType   int    `gorm:"default:1"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Courses []Course `gorm:"many2many:financial_account_courses"`
}
