package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CourseTransactionHandler serves the course-side ledger.
type CourseTransactionHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewCourseTransactionHandler(db *gorm.DB, svc *ledger.Service) *CourseTransactionHandler {
	return &CourseTransactionHandler{DB: db, Ledger: svc}
}

type courseTransactionReq struct {
	Title              string `json:"title" binding:"max=200"`
	Type               int    `json:"type" binding:"required,oneof=1 2"`
	Category           int    `json:"category" binding:"required"`
	FinancialAccountID uint   `json:"financial_account_id" binding:"required"`
	CourseID           uint   `json:"course_id" binding:"required"`
	RegistrationID     *uint  `json:"registration_id"`
	Amount             int64  `json:"amount"`
	Fee                int64  `json:"fee"`
	CustomerName       string `json:"customer_name" binding:"max=100"`
	UserAccountID      *uint  `json:"user_account_id"`
	Date               string `json:"date" binding:"required"`
	TrackingCode       string `json:"tracking_code" binding:"max=100"`
	Description        string `json:"description"`

	MakeTransfer         bool `json:"make_transfer"`
	DestinationAccountID uint `json:"destination_account_id"`
}

type courseTransactionResp struct {
	ID                 uint   `json:"id"`
	Title              string `json:"title"`
	Type               int    `json:"type"`
	Category           int    `json:"category"`
	CategoryName       string `json:"category_name"`
	FinancialAccountID uint   `json:"financial_account_id"`
	TransactionID      *uint  `json:"transaction_id,omitempty"`
	CourseID           uint   `json:"course_id"`
	RegistrationID     *uint  `json:"registration_id,omitempty"`
	Amount             int64  `json:"amount"`
	Fee                int64  `json:"fee"`
	NetAmount          int64  `json:"net_amount"`
	CustomerName       string `json:"customer_name"`
	Date               string `json:"date"`
	TrackingCode       string `json:"tracking_code"`
	Description        string `json:"description"`
}

func toCourseTransactionResp(ct *models.CourseTransaction) courseTransactionResp {
	return courseTransactionResp{
		ID:                 ct.ID,
		Title:              ct.Title,
		Type:               ct.Type,
		Category:           ct.Category,
		CategoryName:       models.CourseCategoryNames[ct.Category],
		FinancialAccountID: ct.FinancialAccountID,
		TransactionID:      ct.TransactionID,
		CourseID:           ct.CourseID,
		RegistrationID:     ct.RegistrationID,
		Amount:             ct.Amount,
		Fee:                ct.Fee,
		NetAmount:          ct.NetAmount,
		CustomerName:       ct.CustomerName,
		Date:               ct.Date.Format("2006-01-02"),
		TrackingCode:       ct.TrackingCode,
		Description:        ct.Description,
	}
}

func (h *CourseTransactionHandler) buildCourseTransaction(c *gin.Context, req *courseTransactionReq, ct *models.CourseTransaction) bool {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, expected YYYY-MM-DD")
		return false
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return false
	}

	ct.Title = req.Title
	ct.Type = req.Type
	ct.Category = req.Category
	ct.FinancialAccountID = req.FinancialAccountID
	ct.CourseID = req.CourseID
	ct.RegistrationID = req.RegistrationID
	ct.Amount = req.Amount
	ct.Fee = req.Fee
	ct.CustomerName = req.CustomerName
	ct.UserAccountID = req.UserAccountID
	ct.Date = date
	ct.TrackingCode = req.TrackingCode
	ct.Description = req.Description
	return true
}

func (h *CourseTransactionHandler) CreateCourseTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req courseTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var ct models.CourseTransaction
	if !h.buildCourseTransaction(c, &req, &ct) {
		return
	}
	ct.EntryUserID = &user.ID

	err := h.Ledger.SaveCourseTransaction(&ct, ledger.TransferOptions{
		MakeTransfer:         req.MakeTransfer,
		DestinationAccountID: req.DestinationAccountID,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"course_transaction": toCourseTransactionResp(&ct),
	})
}

func (h *CourseTransactionHandler) UpdateCourseTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var req courseTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var ct models.CourseTransaction
	if err := h.DB.First(&ct, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "course transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	if !h.buildCourseTransaction(c, &req, &ct) {
		return
	}

	if err := h.Ledger.SaveCourseTransaction(&ct, ledger.TransferOptions{}); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"course_transaction": toCourseTransactionResp(&ct),
	})
}

func (h *CourseTransactionHandler) DeleteCourseTransaction(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	if err := h.Ledger.DeleteCourseTransaction(id); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}

// MakeTransaction materializes the general-ledger transaction of a course
// transaction. Replies with created=false when a link already exists.
func (h *CourseTransactionHandler) MakeTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	t, err := h.Ledger.CreateTransaction(id, &user.ID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}
	if t == nil {
		util.Success(c, util.Response{
			"created": false,
			"message": "transaction already exists for this course transaction",
		})
		return
	}

	util.Success(c, util.Response{
		"created":     true,
		"transaction": toTransactionResp(t),
	})
}

// ListCourseTransactions filters by date range, type, category, account,
// course and registration, with pagination and an income/expense summary.
func (h *CourseTransactionHandler) ListCourseTransactions(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	page, size, offset := pagination(c)

	base := h.DB.Model(&models.CourseTransaction{})

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
		base = base.Where("date < ?", end.Add(24*time.Hour))
	}
	if txType, _ := strconv.Atoi(c.Query("type")); txType == models.TypeReceive || txType == models.TypeWithdraw {
		base = base.Where("type = ?", txType)
	}
	if category, _ := strconv.Atoi(c.Query("category")); category != 0 {
		base = base.Where("category = ?", category)
	}
	if accountID, _ := strconv.Atoi(c.Query("account_id")); accountID != 0 {
		base = base.Where("financial_account_id = ?", accountID)
	}
	if courseID, _ := strconv.Atoi(c.Query("course_id")); courseID != 0 {
		base = base.Where("course_id = ?", courseID)
	}
	if registrationID, _ := strconv.Atoi(c.Query("registration_id")); registrationID != 0 {
		base = base.Where("registration_id = ?", registrationID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var cts []models.CourseTransaction
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&cts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]courseTransactionResp, 0, len(cts))
	for i := range cts {
		items = append(items, toCourseTransactionResp(&cts[i]))
	}

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

// GetCourseFinance summarizes a course's money flow: income, fixed costs,
// variable costs and net, grouped by category.
func (h *CourseTransactionHandler) GetCourseFinance(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var cts []models.CourseTransaction
	if err := h.DB.Where("course_id = ?", id).Find(&cts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	fixed := make(map[int]bool, len(models.FixedCostCategories))
	for _, cat := range models.FixedCostCategories {
		fixed[cat] = true
	}
	variable := make(map[int]bool, len(models.VariableCostCategories))
	for _, cat := range models.VariableCostCategories {
		variable[cat] = true
	}

	type categoryStat struct {
		Category     int    `json:"category"`
		CategoryName string `json:"category_name"`
		Received     int64  `json:"received"`
		Withdrawn    int64  `json:"withdrawn"`
	}

	catMap := make(map[int]*categoryStat)
	var income, fixedCost, variableCost int64
	for i := range cts {
		ct := &cts[i]

		cs, ok := catMap[ct.Category]
		if !ok {
			cs = &categoryStat{Category: ct.Category, CategoryName: models.CourseCategoryNames[ct.Category]}
			catMap[ct.Category] = cs
		}

		// signed flow of this entry
		flow := ct.Amount
		if ct.Type == models.TypeReceive {
			cs.Received += ct.Amount
		} else {
			cs.Withdrawn += ct.Amount
			flow = -ct.Amount
		}

		switch {
		case fixed[ct.Category]:
			fixedCost -= flow
		case variable[ct.Category]:
			variableCost -= flow
		default:
			income += flow
		}
	}

	byCategory := make([]categoryStat, 0, len(catMap))
	for _, cs := range catMap {
		byCategory = append(byCategory, *cs)
	}
	sort.Slice(byCategory, func(i, j int) bool { return byCategory[i].Category < byCategory[j].Category })

	util.Success(c, util.Response{
		"course_id":     id,
		"income":        income,
		"fixed_cost":    fixedCost,
		"variable_cost": variableCost,
		"net":           income - fixedCost - variableCost,
		"by_category":   byCategory,
	})
}
