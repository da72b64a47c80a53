package ledger

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

// RecomputeRegistrationPaid is the default registration sync: paid amount
// is the received sum minus the withdrawn sum over all course transactions
// pointing at the registration. Runs inside the caller's transaction.
func RecomputeRegistrationPaid(tx *gorm.DB, registrationID uint) error {
	var received, withdrawn int64
	if err := tx.Model(&models.CourseTransaction{}).
		Where("registration_id = ? AND type = ?", registrationID, models.TypeReceive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&received).Error; err != nil {
		return fmt.Errorf("sum received: %w", err)
	}
	if err := tx.Model(&models.CourseTransaction{}).
		Where("registration_id = ? AND type = ?", registrationID, models.TypeWithdraw).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error; err != nil {
		return fmt.Errorf("sum withdrawn: %w", err)
	}
	if err := tx.Model(&models.Registration{}).
		Where("id = ?", registrationID).
		Update("paid_amount", received-withdrawn).Error; err != nil {
		return fmt.Errorf("update registration %d paid amount: %w", registrationID, err)
	}
	return nil
}
