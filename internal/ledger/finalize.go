package ledger

import (
	"fmt"

	"github.com/NeshaaSoftware/backend/internal/models"
)

// NetAmount computes the fee-adjusted net of an entry. Pure: same input,
// same output, amount and fee untouched.
//
//	receive:  amount - fee
//	withdraw: amount + fee
func NetAmount(txType int, amount, fee int64) int64 {
	if txType == models.TypeReceive {
		return amount - fee
	}
	return amount + fee
}

func validateEntry(txType int, amount, fee int64) error {
	if txType != models.TypeReceive && txType != models.TypeWithdraw {
		return fmt.Errorf("%w: unknown transaction type %d", ErrValidation, txType)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if fee < 0 {
		return fmt.Errorf("%w: fee must not be negative", ErrValidation)
	}
	// a receive whose fee exceeds its amount would book a negative net
	if txType == models.TypeReceive && fee > amount {
		return fmt.Errorf("%w: fee exceeds amount", ErrValidation)
	}
	return nil
}

// finalizeTransaction validates a general-ledger transaction and derives
// its net amount. Runs on every create and every update.
func finalizeTransaction(t *models.Transaction) error {
	if err := validateEntry(t.Type, t.Amount, t.Fee); err != nil {
		return err
	}
	if _, ok := models.CategoryNames[t.Category]; !ok {
		return fmt.Errorf("%w: unknown transaction category %d", ErrValidation, t.Category)
	}
	if t.AccountID == 0 {
		return fmt.Errorf("%w: account is required", ErrValidation)
	}
	t.NetAmount = NetAmount(t.Type, t.Amount, t.Fee)
	return nil
}

// finalizeCourseTransaction validates a course transaction and derives its
// net amount, same formula as the general ledger.
func finalizeCourseTransaction(ct *models.CourseTransaction) error {
	if err := validateEntry(ct.Type, ct.Amount, ct.Fee); err != nil {
		return err
	}
	if _, ok := models.CourseCategoryNames[ct.Category]; !ok {
		return fmt.Errorf("%w: unknown course-transaction category %d", ErrValidation, ct.Category)
	}
	if ct.FinancialAccountID == 0 {
		return fmt.Errorf("%w: financial account is required", ErrValidation)
	}
	if ct.CourseID == 0 {
		return fmt.Errorf("%w: course is required", ErrValidation)
	}
	ct.NetAmount = NetAmount(ct.Type, ct.Amount, ct.Fee)
	return nil
}
