package ledger

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// SaveCourseTransaction validates, finalizes and persists a course
// transaction, then re-syncs the paid amount of every registration the
// write touched, all in one database transaction. A requested transfer
// books the mirror entry in the same transaction as well.
func (s *Service) SaveCourseTransaction(ct *models.CourseTransaction, transfer TransferOptions) error {
	if err := finalizeCourseTransaction(ct); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		// collect registrations whose paid amount this write affects
		touched := make(map[uint]struct{})
		if ct.RegistrationID != nil {
			touched[*ct.RegistrationID] = struct{}{}
		}

		if ct.ID != 0 {
			var prev models.CourseTransaction
			if err := tx.First(&prev, ct.ID).Error; err != nil {
				return fmt.Errorf("load course transaction %d: %w", ct.ID, err)
			}
			// the transaction link is set once and immutable afterwards
			if prev.TransactionID != nil &&
				(ct.TransactionID == nil || *ct.TransactionID != *prev.TransactionID) {
				return fmt.Errorf("%w: transaction link cannot be changed once set", ErrValidation)
			}
			// moving the entry off a registration leaves a stale paid
			// amount behind unless the vacated side is recomputed too
			if prev.RegistrationID != nil {
				touched[*prev.RegistrationID] = struct{}{}
			}
		}

		if err := tx.Save(ct).Error; err != nil {
			return fmt.Errorf("save course transaction: %w", err)
		}

		if transfer.active() {
			if err := s.mirrorCourseTransaction(tx, ct, transfer.DestinationAccountID); err != nil {
				return err
			}
		}

		for id := range touched {
			if err := s.syncRegistration(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// mirrorCourseTransaction books the course-side transfer counterpart. The
// mirror keeps the source's registration, so its paid amount reflects both
// legs.
func (s *Service) mirrorCourseTransaction(tx *gorm.DB, src *models.CourseTransaction, destinationID uint) error {
	mirror := models.CourseTransaction{
		Title:              src.Title,
		Type:               3 - src.Type,
		Category:           src.Category,
		FinancialAccountID: destinationID,
		CourseID:           src.CourseID,
		RegistrationID:     src.RegistrationID,
		Amount:             src.Amount,
		CustomerName:       src.CustomerName,
		UserAccountID:      src.UserAccountID,
		Date:               src.Date,
		TrackingCode:       src.TrackingCode,
		EntryUserID:        src.EntryUserID,
		Description:        fmt.Sprintf("%s\nTransfer for %d", src.Description, src.ID),
	}
	if err := finalizeCourseTransaction(&mirror); err != nil {
		return err
	}
	if err := tx.Create(&mirror).Error; err != nil {
		return fmt.Errorf("create transfer course transaction: %w", err)
	}
	return nil
}

// DeleteCourseTransaction removes a course transaction and re-syncs its
// registration's paid amount in the same database transaction.
func (s *Service) DeleteCourseTransaction(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ct models.CourseTransaction
		if err := tx.First(&ct, id).Error; err != nil {
			return fmt.Errorf("load course transaction %d: %w", id, err)
		}
		if err := tx.Delete(&ct).Error; err != nil {
			return fmt.Errorf("delete course transaction: %w", err)
		}
		if ct.RegistrationID != nil {
			return s.syncRegistration(tx, *ct.RegistrationID)
		}
		return nil
	})
}

// CreateTransaction materializes a general-ledger transaction from a course
// transaction and links the two. At most one transaction is ever created
// per course transaction: when a link already exists the call is a silent
// no-op returning nil. The link check and the link write share one database
// transaction, and the unique index on transaction_id backs the check
// against concurrent callers.
func (s *Service) CreateTransaction(courseTransactionID uint, entryUserID *uint) (*models.Transaction, error) {
	var created *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ct models.CourseTransaction
		if err := tx.First(&ct, courseTransactionID).Error; err != nil {
			return fmt.Errorf("load course transaction %d: %w", courseTransactionID, err)
		}
		if ct.TransactionID != nil {
			return nil
		}

		entryUser := ct.EntryUserID
		if entryUserID != nil {
			entryUser = entryUserID
		}
		courseID := ct.CourseID
		t := models.Transaction{
			AccountID:     ct.FinancialAccountID,
			CourseID:      &courseID,
			Type:          ct.Type,
			Category:      models.MapCategory(ct.Category),
			Date:          ct.Date,
			Amount:        ct.Amount,
			Fee:           ct.Fee,
			UserAccountID: ct.UserAccountID,
			TrackingCode:  ct.TrackingCode,
			EntryUserID:   entryUser,
			Description:   fmt.Sprintf("CT #%d", ct.ID),
		}
		if err := finalizeTransaction(&t); err != nil {
			return err
		}
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		// guarded update: only link if still unlinked, so a concurrent
		// materialization loses cleanly instead of double-booking
		res := tx.Model(&models.CourseTransaction{}).
			Where("id = ? AND transaction_id IS NULL", ct.ID).
			Update("transaction_id", t.ID)
		if res.Error != nil {
			return fmt.Errorf("link transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("course transaction %d was materialized concurrently", ct.ID)
		}
		created = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
