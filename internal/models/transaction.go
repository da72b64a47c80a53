package models

import "time"

// Transaction direction. The transfer helper relies on the 1/2 encoding:
// the mirror entry's type is 3 - type.
const (
	TypeReceive  = 1
	TypeWithdraw = 2
)

// General-ledger transaction categories.
const (
	CategoryCourseRegistration = 1
	CategoryCourseCost         = 2
	CategoryInstallment        = 3
	CategoryCreditTopUp        = 4
	CategoryOperational        = 5
	CategoryCompensation       = 6
	CategoryEquipment          = 7
	CategoryInvestment         = 8
	CategoryPettyCash          = 9
)

// CategoryNames maps general-ledger categories to display names.
var CategoryNames = map[int]string{
	CategoryCourseRegistration: "course registration",
	CategoryCourseCost:         "course cost",
	CategoryInstallment:        "installment",
	CategoryCreditTopUp:        "credit top-up",
	CategoryOperational:        "operational cost",
	CategoryCompensation:       "compensation",
	CategoryEquipment:          "equipment",
	CategoryInvestment:         "investment",
	CategoryPettyCash:          "petty cash",
}

// Transaction is a single-account ledger entry. NetAmount is derived on
// every save, before persistence:
//
//	receive:  net_amount = amount - fee
//	withdraw: net_amount = amount + fee
type Transaction struct {
	ID            uint  `gorm:"primaryKey"`
	InvoiceID     *uint `gorm:"index"`
	AccountID     uint  `gorm:"index;not null"`
	CourseID      *uint `gorm:"index"`
	Type          int   `gorm:"default:1"`
	Category      int   `gorm:"default:1"`
	Date          time.Time
	Amount        int64  `gorm:"not null"`
	Fee           int64  `gorm:"default:0"`
	NetAmount     int64  `gorm:"default:0"`
	Name          string `gorm:"size:100"`
	UserAccountID *uint  `gorm:"index"`
	TrackingCode  string `gorm:"size:100;index"`
	EntryUserID   *uint  `gorm:"index"`
	Description   string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Invoice     *Invoice         `gorm:"constraint:OnDelete:SET NULL"`
	Account     FinancialAccount `gorm:"constraint:OnDelete:CASCADE"`
	Course      *Course          `gorm:"constraint:OnDelete:SET NULL"`
	UserAccount *User            `gorm:"foreignKey:UserAccountID;constraint:OnDelete:SET NULL"`
	EntryUser   *User            `gorm:"foreignKey:EntryUserID;constraint:OnDelete:SET NULL"`
}
