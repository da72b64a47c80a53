package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/NeshaaSoftware/backend/internal/models"
)

// End to end: a registration income on the Cash account materializes into a
// general-ledger transaction with the mapped category and the fee-adjusted
// net; re-invoking is a silent no-op.
func TestCreateTransaction_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	cash := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Leadership 101")

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryRegistration,
		FinancialAccountID: cash.ID,
		CourseID:           course.ID,
		Amount:             1_000_000,
		Fee:                20_000,
		Date:               time.Now(),
	}
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("save course transaction: %v", err)
	}

	created, err := svc.CreateTransaction(ct.ID, nil)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if created == nil {
		t.Fatal("create transaction returned nil on first call")
	}
	if created.Amount != 1_000_000 || created.Fee != 20_000 {
		t.Errorf("amount/fee = %d/%d, want 1000000/20000", created.Amount, created.Fee)
	}
	if created.NetAmount != 980_000 {
		t.Errorf("net_amount = %d, want 980000", created.NetAmount)
	}
	if created.Category != models.CategoryCourseRegistration {
		t.Errorf("category = %d, want %d", created.Category, models.CategoryCourseRegistration)
	}
	if created.AccountID != cash.ID {
		t.Errorf("account = %d, want %d", created.AccountID, cash.ID)
	}
	if created.Description != fmt.Sprintf("CT #%d", ct.ID) {
		t.Errorf("description = %q", created.Description)
	}

	// the link lands on the course transaction
	var reloaded models.CourseTransaction
	if err := db.First(&reloaded, ct.ID).Error; err != nil {
		t.Fatalf("reload course transaction: %v", err)
	}
	if reloaded.TransactionID == nil || *reloaded.TransactionID != created.ID {
		t.Fatalf("transaction link = %v, want %d", reloaded.TransactionID, created.ID)
	}

	// second call: nil result, no second row
	again, err := svc.CreateTransaction(ct.ID, nil)
	if err != nil {
		t.Fatalf("re-create transaction: %v", err)
	}
	if again != nil {
		t.Errorf("second call created transaction %d, want nil", again.ID)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("transaction rows = %d, want 1", n)
	}

	// the first transaction is untouched
	var kept models.Transaction
	if err := db.First(&kept, created.ID).Error; err != nil {
		t.Fatalf("reload transaction: %v", err)
	}
	if kept.NetAmount != 980_000 {
		t.Errorf("first transaction changed: net_amount = %d", kept.NetAmount)
	}
}

func TestCreateTransaction_CategoryMapping(t *testing.T) {
	testCases := []struct {
		courseCategory int
		want           int
	}{
		{models.CourseCategoryHotel, models.CategoryCourseCost},
		{models.CourseCategoryExecutiveCatering, models.CategoryCourseCost},
		{models.CourseCategoryExecutiveTransport, models.CategoryCourseCost},
		{models.CourseCategoryEquipment, models.CategoryCourseCost},
		{models.CourseCategoryServicePersonnel, models.CategoryCourseCost},
		{models.CourseCategoryExecutiveCompensation, models.CategoryCourseCost},
		{models.CourseCategoryStationery, models.CategoryCourseCost},
		{models.CourseCategoryCatering, models.CategoryCourseCost},
		{models.CourseCategoryChargeCredit, models.CategoryCreditTopUp},
		{models.CourseCategoryRegistration, models.CategoryCourseRegistration},
		{models.CourseCategoryInstallment, models.CategoryInstallment},
		{models.CourseCategoryPettyCash, models.CategoryPettyCash},
	}

	db := setupTestDB(t)
	svc := NewService(db)
	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Mapping")

	for _, tc := range testCases {
		ct := models.CourseTransaction{
			Type:               models.TypeWithdraw,
			Category:           tc.courseCategory,
			FinancialAccountID: account.ID,
			CourseID:           course.ID,
			Amount:             10_000,
			Date:               time.Now(),
		}
		if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
			t.Fatalf("category %d: save: %v", tc.courseCategory, err)
		}
		created, err := svc.CreateTransaction(ct.ID, nil)
		if err != nil {
			t.Fatalf("category %d: create transaction: %v", tc.courseCategory, err)
		}
		if created.Category != tc.want {
			t.Errorf("category %d maps to %d, want %d", tc.courseCategory, created.Category, tc.want)
		}
	}
}

func TestMapCategory_DefaultFallback(t *testing.T) {
	if got := models.MapCategory(99); got != models.CategoryCourseRegistration {
		t.Errorf("MapCategory(99) = %d, want %d", got, models.CategoryCourseRegistration)
	}
}

func TestValidateCategoryMapping(t *testing.T) {
	if err := models.ValidateCategoryMapping(); err != nil {
		t.Errorf("ValidateCategoryMapping() = %v, want nil", err)
	}
}

func TestCreateTransaction_EntryUserOverride(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Entry users")
	clerk := models.User{Username: "clerk", PasswordHash: "x"}
	operator := models.User{Username: "operator", PasswordHash: "x"}
	if err := db.Create(&clerk).Error; err != nil {
		t.Fatalf("create clerk: %v", err)
	}
	if err := db.Create(&operator).Error; err != nil {
		t.Fatalf("create operator: %v", err)
	}

	ct := models.CourseTransaction{
		Type:               models.TypeReceive,
		Category:           models.CourseCategoryInstallment,
		FinancialAccountID: account.ID,
		CourseID:           course.ID,
		Amount:             50_000,
		Date:               time.Now(),
		EntryUserID:        &clerk.ID,
	}
	if err := svc.SaveCourseTransaction(&ct, TransferOptions{}); err != nil {
		t.Fatalf("save course transaction: %v", err)
	}

	created, err := svc.CreateTransaction(ct.ID, &operator.ID)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if created.EntryUserID == nil || *created.EntryUserID != operator.ID {
		t.Errorf("entry user = %v, want operator %d", created.EntryUserID, operator.ID)
	}
}
