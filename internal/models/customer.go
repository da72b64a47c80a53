package models

import "time"

// Customer types.
const (
	CustomerTypeIndividual = 1
	CustomerTypeLegal      = 2
)

// Customer is an invoice counterparty.
type Customer struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:200;not null"`
	CustomerType int     `gorm:"default:1"`
	TaxID        *string `gorm:"size:50;uniqueIndex"`
	NationalID   *string `gorm:"size:50;uniqueIndex"`
	Address      string  `gorm:"type:text"`
	Contact      string  `gorm:"size:200"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Commodity is a good or service that invoice items refer to.
type Commodity struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
