package ledger

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// TransferOptions requests a mirror entry in a destination account along
// with the source save. The mirror books the same amount with the opposite
// direction and does not link back to its source.
type TransferOptions struct {
	MakeTransfer         bool
	DestinationAccountID uint
}

func (o TransferOptions) active() bool {
	return o.MakeTransfer && o.DestinationAccountID != 0
}

// SaveTransaction validates, finalizes and persists a general-ledger
// transaction. When a transfer is requested the mirror entry is created in
// the same database transaction, so a failed mirror rolls back the source.
func (s *Service) SaveTransaction(t *models.Transaction, transfer TransferOptions) error {
	if err := finalizeTransaction(t); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}
		if transfer.active() {
			return s.mirrorTransaction(tx, t, transfer.DestinationAccountID)
		}
		return nil
	})
}

// mirrorTransaction books the transfer counterpart: same category and
// amount, flipped direction, destination account.
func (s *Service) mirrorTransaction(tx *gorm.DB, src *models.Transaction, destinationID uint) error {
	mirror := models.Transaction{
		AccountID:     destinationID,
		CourseID:      src.CourseID,
		Type:          3 - src.Type,
		Category:      src.Category,
		Date:          src.Date,
		Amount:        src.Amount,
		Name:          src.Name,
		UserAccountID: src.UserAccountID,
		TrackingCode:  src.TrackingCode,
		EntryUserID:   src.EntryUserID,
		Description:   fmt.Sprintf("%s\nTransfer for %d", src.Description, src.ID),
	}
	if err := finalizeTransaction(&mirror); err != nil {
		return err
	}
	if err := tx.Create(&mirror).Error; err != nil {
		return fmt.Errorf("create transfer transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a general-ledger transaction. Any course
// transaction linked to it is unlinked first (the course-side record stays).
func (s *Service) DeleteTransaction(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CourseTransaction{}).
			Where("transaction_id = ?", id).
			Update("transaction_id", nil).Error; err != nil {
			return fmt.Errorf("unlink course transactions: %w", err)
		}
		if err := tx.Delete(&models.Transaction{}, id).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
}

// AccountBalance derives an account's balance on read: received amounts
// minus withdrawn amounts. Never cached or stored.
func (s *Service) AccountBalance(accountID uint) (int64, error) {
	var received, withdrawn int64
	if err := s.db.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ?", accountID, models.TypeReceive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&received).Error; err != nil {
		return 0, fmt.Errorf("sum received: %w", err)
	}
	if err := s.db.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ?", accountID, models.TypeWithdraw).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error; err != nil {
		return 0, fmt.Errorf("sum withdrawn: %w", err)
	}
	return received - withdrawn, nil
}
