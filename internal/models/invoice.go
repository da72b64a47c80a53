package models

import "time"

// Invoice direction.
const (
	InvoiceTypePurchase = 1
	InvoiceTypeSale     = 2
)

// Issuing organization tags.
const (
	OrganizationNeshaa = 1
	OrganizationAzno   = 2
)

// Invoice is a billing document. ItemsAmount and TotalAmount are derived
// from the line items and re-persisted on every save of the invoice or of
// any of its items:
//
//	items_amount = sum(item.total_price)
//	total_amount = items_amount - discount + vat
//
// TotalAmount is intentionally not floored at zero; an over-discounted
// invoice carries a negative total and reads as a credit note.
type Invoice struct {
	ID           uint `gorm:"primaryKey"`
	Organization int  `gorm:"default:1"`
	Type         int  `gorm:"not null"`
	Date         time.Time
	CourseID     *uint  `gorm:"index"`
	CustomerID   *uint  `gorm:"index"`
	ItemsAmount  int64  `gorm:"default:0"`
	Discount     int64  `gorm:"default:0"`
	VAT          int64  `gorm:"default:0"`
	TotalAmount  int64  `gorm:"default:0"`
	IsPaid       bool   `gorm:"default:false"`
	Description  string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Course   *Course   `gorm:"constraint:OnDelete:SET NULL"`
	Customer *Customer `gorm:"constraint:OnDelete:SET NULL"`
}

// InvoiceItem is a single invoice line. TotalPrice is derived on every save:
//
//	total_price = max(unit_price*quantity - discount + vat, 0)
type InvoiceItem struct {
	ID          uint   `gorm:"primaryKey"`
	InvoiceID   uint   `gorm:"index;not null"`
	CommodityID uint   `gorm:"index;not null"`
	Description string `gorm:"size:200"`
	UnitPrice   int64  `gorm:"not null"`
	Quantity    int64  `gorm:"default:1"`
	Discount    int64  `gorm:"default:0"`
	VAT         int64  `gorm:"default:0"`
	TotalPrice  int64  `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Invoice   Invoice   `gorm:"constraint:OnDelete:CASCADE"`
	Commodity Commodity `gorm:"constraint:OnDelete:CASCADE"`
}
