package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves the general ledger.
type TransactionHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewTransactionHandler(db *gorm.DB, svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{DB: db, Ledger: svc}
}

type transactionReq struct {
	InvoiceID     *uint  `json:"invoice_id"`
	AccountID     uint   `json:"account_id" binding:"required"`
	CourseID      *uint  `json:"course_id"`
	Type          int    `json:"type" binding:"required,oneof=1 2"`
	Category      int    `json:"category" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	Name          string `json:"name" binding:"max=100"`
	UserAccountID *uint  `json:"user_account_id"`
	TrackingCode  string `json:"tracking_code" binding:"max=100"`
	Description   string `json:"description"`

	// transfer: create the mirror entry in the destination account
	MakeTransfer         bool `json:"make_transfer"`
	DestinationAccountID uint `json:"destination_account_id"`
}

type transactionResp struct {
	ID           uint   `json:"id"`
	InvoiceID    *uint  `json:"invoice_id,omitempty"`
	AccountID    uint   `json:"account_id"`
	CourseID     *uint  `json:"course_id,omitempty"`
	Type         int    `json:"type"`
	Category     int    `json:"category"`
	CategoryName string `json:"category_name"`
	Date         string `json:"date"`
	Amount       int64  `json:"amount"`
	Fee          int64  `json:"fee"`
	NetAmount    int64  `json:"net_amount"`
	Name         string `json:"name"`
	TrackingCode string `json:"tracking_code"`
	Description  string `json:"description"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:           t.ID,
		InvoiceID:    t.InvoiceID,
		AccountID:    t.AccountID,
		CourseID:     t.CourseID,
		Type:         t.Type,
		Category:     t.Category,
		CategoryName: models.CategoryNames[t.Category],
		Date:         t.Date.Format("2006-01-02"),
		Amount:       t.Amount,
		Fee:          t.Fee,
		NetAmount:    t.NetAmount,
		Name:         t.Name,
		TrackingCode: t.TrackingCode,
		Description:  t.Description,
	}
}

func (h *TransactionHandler) buildTransaction(c *gin.Context, req *transactionReq, t *models.Transaction) bool {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, expected YYYY-MM-DD")
		return false
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return false
	}

	t.InvoiceID = req.InvoiceID
	t.AccountID = req.AccountID
	t.CourseID = req.CourseID
	t.Type = req.Type
	t.Category = req.Category
	t.Date = date
	t.Amount = req.Amount
	t.Fee = req.Fee
	t.Name = req.Name
	t.UserAccountID = req.UserAccountID
	t.TrackingCode = req.TrackingCode
	t.Description = req.Description
	return true
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var t models.Transaction
	if !h.buildTransaction(c, &req, &t) {
		return
	}
	t.EntryUserID = &user.ID

	err := h.Ledger.SaveTransaction(&t, ledger.TransferOptions{
		MakeTransfer:         req.MakeTransfer,
		DestinationAccountID: req.DestinationAccountID,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&t),
	})
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var t models.Transaction
	if err := h.DB.First(&t, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	if !h.buildTransaction(c, &req, &t) {
		return
	}

	// updates never create transfer mirrors, same as the source system
	if err := h.Ledger.SaveTransaction(&t, ledger.TransferOptions{}); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&t),
	})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	if err := h.Ledger.DeleteTransaction(id); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}

// ListTransactions filters by date range, type, category, account and
// course, returns a page plus an income/expense summary over the same
// filter.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	page, size, offset := pagination(c)

	base := h.DB.Model(&models.Transaction{})

	if startStr := c.Query("start"); startStr != "" {
		start, err := util.ParseDate(startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date, expected YYYY-MM-DD")
			return
		}
		base = base.Where("date >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := util.ParseDate(endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date, expected YYYY-MM-DD")
			return
		}
		// end date is inclusive: < end+1 day
		base = base.Where("date < ?", end.Add(24*time.Hour))
	}
	if txType, _ := strconv.Atoi(c.Query("type")); txType == models.TypeReceive || txType == models.TypeWithdraw {
		base = base.Where("type = ?", txType)
	}
	if category, _ := strconv.Atoi(c.Query("category")); category != 0 {
		base = base.Where("category = ?", category)
	}
	if accountID, _ := strconv.Atoi(c.Query("account_id")); accountID != 0 {
		base = base.Where("account_id = ?", accountID)
	}
	if courseID, _ := strconv.Atoi(c.Query("course_id")); courseID != 0 {
		base = base.Where("course_id = ?", courseID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var transactions []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]transactionResp, 0, len(transactions))
	for i := range transactions {
		items = append(items, toTransactionResp(&transactions[i]))
	}

	// summary over the same filters
	var received, withdrawn int64
	if err := base.Session(&gorm.Session{}).
		Where("type = ?", models.TypeReceive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&received).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "summary failed")
		return
	}
	if err := base.Session(&gorm.Session{}).
		Where("type = ?", models.TypeWithdraw).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "summary failed")
		return
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
		"summary": gin.H{
			"total_received":  received,
			"total_withdrawn": withdrawn,
			"balance":         received - withdrawn,
		},
	})
}
