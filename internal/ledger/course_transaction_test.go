package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/NeshaaSoftware/backend/internal/models"

	"gorm.io/gorm"
)

func TestRegistrationPaidSync(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Negotiation")
	registration := createRegistration(t, db, course.ID)

	receive := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		RegistrationID:     &registration.ID,
		Amount:             500_000,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&receive, TransferOptions{}); err != nil {
		t.Fatalf("save receive: %v", err)
	}

	withdraw := models.CourseTransaction{
		Type:               models.TypeWithdraw,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		RegistrationID:     &registration.ID,
		Amount:             100_000,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&withdraw, TransferOptions{}); err != nil {
		t.Fatalf("save withdraw: %v", err)
	}

	var reloaded models.Registration
	if err := db.First(&reloaded, registration.ID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	if reloaded.PaidAmount != 400_000 {
		t.Errorf("paid_amount = %d, want 400000", reloaded.PaidAmount)
	}

	// deletion re-syncs as well
	if err := svc.DeleteCourseTransaction(withdraw.ID); err != nil {
		t.Fatalf("delete withdraw: %v", err)
	}
	if err := db.First(&reloaded, registration.ID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	if reloaded.PaidAmount != 500_000 {
		t.Errorf("paid_amount after delete = %d, want 500000", reloaded.PaidAmount)
	}
}

// moving an entry to another registration recomputes the vacated side too
func TestRegistrationPaidSync_OnRegistrationChange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Negotiation")
	regA := createRegistration(t, db, course.ID)
	regB := createRegistration(t, db, course.ID)

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		RegistrationID:     &regA.ID,
		Amount:             200_000,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ct.RegistrationID = &regB.ID
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("move registration: %v", err)
	}

	var a, b models.Registration
	if err := db.First(&a, regA.ID).Error; err != nil {
		t.Fatalf("reload A: %v", err)
	}
	if err := db.First(&b, regB.ID).Error; err != nil {
		t.Fatalf("reload B: %v", err)
	}
	if a.PaidAmount != 0 {
		t.Errorf("vacated registration paid_amount = %d, want 0", a.PaidAmount)
	}
	if b.PaidAmount != 200_000 {
		t.Errorf("new registration paid_amount = %d, want 200000", b.PaidAmount)
	}
}

func TestRegistrationSync_Injectable(t *testing.T) {
	db := setupTestDB(t)

	var synced []uint
	svc := NewService(db, WithRegistrationSync(func(tx *gorm.DB, registrationID uint) error {
		synced = append(synced, registrationID)
		return nil
	}))

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "DI")
	registration := createRegistration(t, db, course.ID)

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		RegistrationID:     &registration.ID,
		Amount:             1,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(synced) != 1 || synced[0] != registration.ID {
		t.Errorf("sync calls = %v, want [%d]", synced, registration.ID)
	}
}

func TestCourseTransaction_LinkImmutable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Immutability")

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		Amount:             10_000,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.CreateTransaction(ct.ID, nil); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// try to clear the link through a normal update
	if err := db.First(&ct, ct.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	ct.TransactionID = nil
	err := svc.SaveCourseTransaction(&ct, TransferOptions{})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("clearing link: error = %v, want ErrValidation", err)
	}
}

func TestCourseTransactionTransfer_MirrorEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	source := createAccount(t, db, "Cash")
	destination := createAccount(t, db, "Bank")
	course := createCourse(t, db, "Transfers")
	registration := createRegistration(t, db, course.ID)

	ct := models.CourseTransaction{
		Type:               models.TypeWithdraw,
		Category:           models.CourseCategoryChargeCredit,
		FinancialAccountID: source.ID,
		CourseID:           course.ID,
		RegistrationID:     &registration.ID,
		Amount:             300_000,
		Fee:                5_000,
		Date:               time.Now(),
	}
	err := svc.SaveCourseTransaction(&ct, TransferOptions{
		MakeTransfer:         true,
		DestinationAccountID: destination.ID,
	})
	if err != nil {
		t.Fatalf("save with transfer: %v", err)
	}

	var mirror models.CourseTransaction
	if err := db.Where("financial_account_id = ?", destination.ID).First(&mirror).Error; err != nil {
		t.Fatalf("load mirror: %v", err)
	}
	if mirror.Type != models.TypeReceive {
		t.Errorf("mirror type = %d, want receive", mirror.Type)
	}
	if mirror.Category != ct.Category {
		t.Errorf("mirror category = %d, want %d", mirror.Category, ct.Category)
	}
	if mirror.Amount != ct.Amount {
		t.Errorf("mirror amount = %d, want %d", mirror.Amount, ct.Amount)
	}
	// the fee stays on the source leg
	if mirror.Fee != 0 {
		t.Errorf("mirror fee = %d, want 0", mirror.Fee)
	}
	if mirror.TransactionID != nil {
		t.Error("mirror must not link back to a transaction")
	}

	// both legs carry the registration, so the paid amount nets out
	var reloaded models.Registration
	if err := db.First(&reloaded, registration.ID).Error; err != nil {
		t.Fatalf("reload registration: %v", err)
	}
	if reloaded.PaidAmount != 0 {
		t.Errorf("paid_amount = %d, want 0 after balanced transfer", reloaded.PaidAmount)
	}
}

// a rejected write leaves nothing behind
func TestSaveCourseTransaction_ValidationRollback(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: 1,
		CourseID:           1,
		Amount:             -5,
		Date:               time.Now(),
	}
	err := svc.SaveCourseTransaction(&ct, TransferOptions{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if n := countRows(t, db, &models.CourseTransaction{}); n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}
