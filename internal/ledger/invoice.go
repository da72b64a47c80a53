package ledger

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// ItemTotal computes an invoice line's total, floored at zero. Pure.
func ItemTotal(item *models.InvoiceItem) int64 {
	total := item.UnitPrice*item.Quantity - item.Discount + item.VAT
	if total < 0 {
		return 0
	}
	return total
}

// RecomputeInvoiceTotals derives an invoice's stored totals from its current
// items. Pure: mutates only the invoice's derived fields. The total is not
// floored at zero, matching ItemTotal's asymmetry deliberately (see
// Invoice doc).
func RecomputeInvoiceTotals(inv *models.Invoice, items []models.InvoiceItem) {
	var itemsAmount int64
	for i := range items {
		itemsAmount += items[i].TotalPrice
	}
	inv.ItemsAmount = itemsAmount
	inv.TotalAmount = itemsAmount - inv.Discount + inv.VAT
}

func validateInvoice(inv *models.Invoice) error {
	if inv.Type != models.InvoiceTypePurchase && inv.Type != models.InvoiceTypeSale {
		return fmt.Errorf("%w: unknown invoice type %d", ErrValidation, inv.Type)
	}
	if inv.Discount < 0 || inv.VAT < 0 {
		return fmt.Errorf("%w: discount and vat must not be negative", ErrValidation)
	}
	return nil
}

func validateInvoiceItem(item *models.InvoiceItem) error {
	if item.InvoiceID == 0 {
		return fmt.Errorf("%w: invoice is required", ErrValidation)
	}
	if item.CommodityID == 0 {
		return fmt.Errorf("%w: commodity is required", ErrValidation)
	}
	if item.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if item.Discount < 0 || item.VAT < 0 {
		return fmt.Errorf("%w: discount and vat must not be negative", ErrValidation)
	}
	return nil
}

// refreshInvoice reloads an invoice and its items and re-persists the
// derived totals. Must run inside the caller's transaction.
func refreshInvoice(tx *gorm.DB, invoiceID uint) error {
	var inv models.Invoice
	if err := tx.First(&inv, invoiceID).Error; err != nil {
		return fmt.Errorf("load invoice %d: %w", invoiceID, err)
	}
	var items []models.InvoiceItem
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&items).Error; err != nil {
		return fmt.Errorf("load invoice items: %w", err)
	}
	RecomputeInvoiceTotals(&inv, items)
	if err := tx.Model(&inv).Updates(map[string]interface{}{
		"items_amount": inv.ItemsAmount,
		"total_amount": inv.TotalAmount,
	}).Error; err != nil {
		return fmt.Errorf("save invoice totals: %w", err)
	}
	return nil
}

// SaveInvoice persists an invoice, deriving its totals from the items
// already stored under it.
func (s *Service) SaveInvoice(inv *models.Invoice) error {
	if err := validateInvoice(inv); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var items []models.InvoiceItem
		if inv.ID != 0 {
			if err := tx.Where("invoice_id = ?", inv.ID).Find(&items).Error; err != nil {
				return fmt.Errorf("load invoice items: %w", err)
			}
		}
		RecomputeInvoiceTotals(inv, items)
		if err := tx.Save(inv).Error; err != nil {
			return fmt.Errorf("save invoice: %w", err)
		}
		return nil
	})
}

// SaveInvoiceItem persists an invoice line and re-derives the parent
// invoice's totals in the same transaction.
func (s *Service) SaveInvoiceItem(item *models.InvoiceItem) error {
	if err := validateInvoiceItem(item); err != nil {
		return err
	}
	item.TotalPrice = ItemTotal(item)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("save invoice item: %w", err)
		}
		return refreshInvoice(tx, item.InvoiceID)
	})
}

// DeleteInvoiceItem removes an invoice line and re-derives the parent
// invoice's totals in the same transaction.
func (s *Service) DeleteInvoiceItem(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InvoiceItem
		if err := tx.First(&item, id).Error; err != nil {
			return fmt.Errorf("load invoice item %d: %w", id, err)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("delete invoice item: %w", err)
		}
		return refreshInvoice(tx, item.InvoiceID)
	})
}

// InvoiceBalance is the derived, never stored, settlement state of an
// invoice: sum of linked transaction amounts minus the invoice total.
func (s *Service) InvoiceBalance(invoiceID uint) (int64, error) {
	var inv models.Invoice
	if err := s.db.First(&inv, invoiceID).Error; err != nil {
		return 0, fmt.Errorf("load invoice %d: %w", invoiceID, err)
	}
	var paid int64
	if err := s.db.Model(&models.Transaction{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		return 0, fmt.Errorf("sum invoice transactions: %w", err)
	}
	return paid - inv.TotalAmount, nil
}
