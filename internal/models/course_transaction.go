package models

import (
	"fmt"
	"time"
)

// Course-transaction categories. 1-6 are fixed costs, 7-9 variable costs,
// 10-11 income, 12 petty cash.
const (
	CourseCategoryHotel                 = 1
	CourseCategoryExecutiveCatering     = 2
	CourseCategoryExecutiveTransport    = 3
	CourseCategoryEquipment             = 4
	CourseCategoryServicePersonnel      = 5
	CourseCategoryExecutiveCompensation = 6
	CourseCategoryStationery            = 7
	CourseCategoryCatering              = 8
	CourseCategoryChargeCredit          = 9
	CourseCategoryRegistration          = 10
	CourseCategoryInstallment           = 11
	CourseCategoryPettyCash             = 12
)

// CourseCategoryNames maps course-transaction categories to display names.
var CourseCategoryNames = map[int]string{
	CourseCategoryHotel:                 "hotel accommodation",
	CourseCategoryExecutiveCatering:     "executive team catering",
	CourseCategoryExecutiveTransport:    "executive team transport",
	CourseCategoryEquipment:             "equipment",
	CourseCategoryServicePersonnel:      "service personnel",
	CourseCategoryExecutiveCompensation: "executive team compensation",
	CourseCategoryStationery:            "stationery",
	CourseCategoryCatering:              "catering",
	CourseCategoryChargeCredit:          "charge credit",
	CourseCategoryRegistration:          "registration",
	CourseCategoryInstallment:           "installment",
	CourseCategoryPettyCash:             "petty cash",
}

// FixedCostCategories and VariableCostCategories classify the cost side of
// the course-transaction categories for per-course reporting.
var (
	FixedCostCategories = []int{
		CourseCategoryHotel,
		CourseCategoryExecutiveCatering,
		CourseCategoryExecutiveTransport,
		CourseCategoryEquipment,
		CourseCategoryServicePersonnel,
		CourseCategoryExecutiveCompensation,
	}
	VariableCostCategories = []int{
		CourseCategoryStationery,
		CourseCategoryCatering,
		CourseCategoryChargeCredit,
	}
)

// CourseTransaction is a ledger entry scoped to a course and optionally a
// registration. It can be materialized into exactly one general-ledger
// Transaction; the unique index on TransactionID enforces the at-most-one
// link at the schema level. NetAmount follows the same formula as
// Transaction.
type CourseTransaction struct {
	ID                 uint   `gorm:"primaryKey"`
	Title              string `gorm:"size:200"`
	Type               int    `gorm:"default:1"`
	Category           int    `gorm:"default:1"`
	FinancialAccountID uint   `gorm:"index;not null"`
	TransactionID      *uint  `gorm:"uniqueIndex"`
	CourseID           uint   `gorm:"index;not null"`
	RegistrationID     *uint  `gorm:"index"`
	Amount             int64  `gorm:"not null"`
	Fee                int64  `gorm:"default:0"`
	NetAmount          int64  `gorm:"default:0"`
	CustomerName       string `gorm:"size:100"`
	UserAccountID      *uint  `gorm:"index"`
	Date               time.Time
	TrackingCode       string `gorm:"size:100;index"`
	EntryUserID        *uint  `gorm:"index"`
	Description        string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	FinancialAccount FinancialAccount `gorm:"constraint:OnDelete:CASCADE"`
	Transaction      *Transaction     `gorm:"constraint:OnDelete:SET NULL"`
	Course           Course           `gorm:"constraint:OnDelete:CASCADE"`
	Registration     *Registration    `gorm:"constraint:OnDelete:CASCADE"`
	UserAccount      *User            `gorm:"foreignKey:UserAccountID;constraint:OnDelete:SET NULL"`
	EntryUser        *User            `gorm:"foreignKey:EntryUserID;constraint:OnDelete:SET NULL"`
}

// categoryMapping routes a course-transaction category to the general-ledger
// category used when the entry is materialized. Cost categories collapse to
// "course cost"; the two income categories and petty cash keep their own
// general-ledger buckets.
var categoryMapping = map[int]int{
	CourseCategoryHotel:                 CategoryCourseCost,
	CourseCategoryExecutiveCatering:     CategoryCourseCost,
	CourseCategoryExecutiveTransport:    CategoryCourseCost,
	CourseCategoryEquipment:             CategoryCourseCost,
	CourseCategoryServicePersonnel:      CategoryCourseCost,
	CourseCategoryExecutiveCompensation: CategoryCourseCost,
	CourseCategoryStationery:            CategoryCourseCost,
	CourseCategoryCatering:              CategoryCourseCost,
	CourseCategoryChargeCredit:          CategoryCreditTopUp,
	CourseCategoryRegistration:          CategoryCourseRegistration,
	CourseCategoryInstallment:           CategoryInstallment,
	CourseCategoryPettyCash:             CategoryPettyCash,
}

// MapCategory returns the general-ledger category for a course-transaction
// category. Unknown input falls back to CategoryCourseRegistration.
func MapCategory(courseCategory int) int {
	if mapped, ok := categoryMapping[courseCategory]; ok {
		return mapped
	}
	return CategoryCourseRegistration
}

// ValidateCategoryMapping checks at startup that every course-transaction
// category has a mapping and that every target is a known general-ledger
// category.
func ValidateCategoryMapping() error {
	for cat := range CourseCategoryNames {
		mapped, ok := categoryMapping[cat]
		if !ok {
			return fmt.Errorf("course-transaction category %d (%s) has no general-ledger mapping", cat, CourseCategoryNames[cat])
		}
		if _, ok := CategoryNames[mapped]; !ok {
			return fmt.Errorf("course-transaction category %d maps to unknown category %d", cat, mapped)
		}
	}
	return nil
}
