package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/NeshaaSoftware/backend/internal/models"
)

func TestSaveTransaction_RecomputesNetOnUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	tx := models.Transaction{
		AccountID: account.ID,
		Type:      models.TypeReceive,
		Category:  models.CategoryCourseRegistration,
		Date:      time.Now(),
		Amount:    100_000,
		Fee:       1_000,
	}
	if err := svc.SaveTransaction(&tx, TransferOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tx.NetAmount != 99_000 {
		t.Fatalf("net_amount = %d, want 99000", tx.NetAmount)
	}

	// patching the fee and re-saving re-derives the net
	tx.Fee = 5_000
	if err := svc.SaveTransaction(&tx, TransferOptions{}); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	var reloaded models.Transaction
	if err := db.First(&reloaded, tx.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.NetAmount != 95_000 {
		t.Errorf("net_amount after fee change = %d, want 95000", reloaded.NetAmount)
	}
}

func TestAccountBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	other := createAccount(t, db, "Bank")

	entries := []models.Transaction{
		{AccountID: account.ID, Type: models.TypeReceive, Category: 1, Date: time.Now(), Amount: 800_000},
		{AccountID: account.ID, Type: models.TypeReceive, Category: 3, Date: time.Now(), Amount: 200_000},
		{AccountID: account.ID, Type: models.TypeWithdraw, Category: 2, Date: time.Now(), Amount: 300_000},
		{AccountID: other.ID, Type: models.TypeReceive, Category: 1, Date: time.Now(), Amount: 999},
	}
	for i := range entries {
		if err := svc.SaveTransaction(&entries[i], TransferOptions{}); err != nil {
			t.Fatalf("save entry %d: %v", i, err)
		}
	}

	balance, err := svc.AccountBalance(account.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 700_000 {
		t.Errorf("balance = %d, want 700000", balance)
	}

	// empty account reads zero, not an error
	empty := createAccount(t, db, "Empty")
	balance, err = svc.AccountBalance(empty.ID)
	if err != nil {
		t.Fatalf("empty balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("empty balance = %d, want 0", balance)
	}
}

func TestTransactionTransfer_MirrorEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	source := createAccount(t, db, "Cash")
	destination := createAccount(t, db, "Bank")

	tx := models.Transaction{
		AccountID:   source.ID,
		Type:        models.TypeWithdraw,
		Category:    models.CategoryCreditTopUp,
		Date:        time.Now(),
		Amount:      500_000,
		Fee:         2_000,
		Description: "moving float",
	}
	err := svc.SaveTransaction(&tx, TransferOptions{
		MakeTransfer:         true,
		DestinationAccountID: destination.ID,
	})
	if err != nil {
		t.Fatalf("save with transfer: %v", err)
	}

	var mirror models.Transaction
	if err := db.Where("account_id = ?", destination.ID).First(&mirror).Error; err != nil {
		t.Fatalf("load mirror: %v", err)
	}
	if mirror.Type != models.TypeReceive {
		t.Errorf("mirror type = %d, want receive", mirror.Type)
	}
	if mirror.Category != tx.Category || mirror.Amount != tx.Amount {
		t.Errorf("mirror category/amount = %d/%d, want %d/%d", mirror.Category, mirror.Amount, tx.Category, tx.Amount)
	}
	if !strings.Contains(mirror.Description, "Transfer for") {
		t.Errorf("mirror description %q lacks transfer annotation", mirror.Description)
	}

	// amounts conserve across the pair: source loses, destination gains
	srcBalance, err := svc.AccountBalance(source.ID)
	if err != nil {
		t.Fatalf("source balance: %v", err)
	}
	dstBalance, err := svc.AccountBalance(destination.ID)
	if err != nil {
		t.Fatalf("destination balance: %v", err)
	}
	if srcBalance != -500_000 || dstBalance != 500_000 {
		t.Errorf("balances = %d/%d, want -500000/500000", srcBalance, dstBalance)
	}
}

// transfer without a destination account is a plain save
func TestTransfer_RequiresDestination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	tx := models.Transaction{
		AccountID: account.ID,
		Type:      models.TypeReceive,
		Category:  1,
		Date:      time.Now(),
		Amount:    1_000,
	}
	if err := svc.SaveTransaction(&tx, TransferOptions{MakeTransfer: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestDeleteTransaction_UnlinksCourseTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	account := createAccount(t, db, "Cash")
	course := createCourse(t, db, "Unlinking")

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
	created, err := svc.CreateTransaction(ct.ID, nil)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if err := svc.DeleteTransaction(created.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}

	var reloaded models.CourseTransaction
	if err := db.First(&reloaded, ct.ID).Error; err != nil {
		t.Fatalf("reload course transaction: %v", err)
	}
	if reloaded.TransactionID != nil {
		t.Errorf("transaction link = %v, want nil after delete", reloaded.TransactionID)
	}
}
