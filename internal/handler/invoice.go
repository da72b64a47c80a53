package handler

import (
	"net/http"
	"strconv"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InvoiceHandler serves invoices and their line items.
type InvoiceHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewInvoiceHandler(db *gorm.DB, svc *ledger.Service) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Ledger: svc}
}

type invoiceReq struct {
	Organization int    `json:"organization" binding:"omitempty,oneof=1 2"`
	Type         int    `json:"type" binding:"required,oneof=1 2"`
	Date         string `json:"date" binding:"required"`
	CourseID     *uint  `json:"course_id"`
	CustomerID   *uint  `json:"customer_id"`
	Discount     int64  `json:"discount"`
	VAT          int64  `json:"vat"`
	IsPaid       bool   `json:"is_paid"`
	Description  string `json:"description"`
}

type invoiceItemReq struct {
	InvoiceID   uint   `json:"invoice_id" binding:"required"`
	CommodityID uint   `json:"commodity_id" binding:"required"`
	Description string `json:"description" binding:"max=200"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Discount    int64  `json:"discount"`
	VAT         int64  `json:"vat"`
}

type invoiceResp struct {
	ID           uint   `json:"id"`
	Organization int    `json:"organization"`
	Type         int    `json:"type"`
	Date         string `json:"date"`
	CourseID     *uint  `json:"course_id,omitempty"`
	CustomerID   *uint  `json:"customer_id,omitempty"`
	ItemsAmount  int64  `json:"items_amount"`
	Discount     int64  `json:"discount"`
	VAT          int64  `json:"vat"`
	TotalAmount  int64  `json:"total_amount"`
	IsPaid       bool   `json:"is_paid"`
	Description  string `json:"description"`
}

type invoiceItemResp struct {
	ID          uint   `json:"id"`
	InvoiceID   uint   `json:"invoice_id"`
	CommodityID uint   `json:"commodity_id"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Discount    int64  `json:"discount"`
	VAT         int64  `json:"vat"`
	TotalPrice  int64  `json:"total_price"`
}

func toInvoiceResp(inv *models.Invoice) invoiceResp {
	return invoiceResp{
		ID:           inv.ID,
		Organization: inv.Organization,
		Type:         inv.Type,
		Date:         inv.Date.Format("2006-01-02"),
		CourseID:     inv.CourseID,
		CustomerID:   inv.CustomerID,
		ItemsAmount:  inv.ItemsAmount,
		Discount:     inv.Discount,
		VAT:          inv.VAT,
		TotalAmount:  inv.TotalAmount,
		IsPaid:       inv.IsPaid,
		Description:  inv.Description,
	}
}

func toInvoiceItemResp(item *models.InvoiceItem) invoiceItemResp {
	return invoiceItemResp{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		CommodityID: item.CommodityID,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		Quantity:    item.Quantity,
		Discount:    item.Discount,
		VAT:         item.VAT,
		TotalPrice:  item.TotalPrice,
	}
}

func (h *InvoiceHandler) applyInvoiceReq(c *gin.Context, req *invoiceReq, inv *models.Invoice) bool {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date, expected YYYY-MM-DD")
		return false
	}
	if req.Organization == 0 {
		req.Organization = models.OrganizationNeshaa
	}

	inv.Organization = req.Organization
	inv.Type = req.Type
	inv.Date = date
	inv.CourseID = req.CourseID
	inv.CustomerID = req.CustomerID
	inv.Discount = req.Discount
	inv.VAT = req.VAT
	inv.IsPaid = req.IsPaid
	inv.Description = req.Description
	return true
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var inv models.Invoice
	if !h.applyInvoiceReq(c, &req, &inv) {
		return
	}

	if err := h.Ledger.SaveInvoice(&inv); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"invoice": toInvoiceResp(&inv),
	})
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var inv models.Invoice
	if err := h.DB.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "invoice not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	if !h.applyInvoiceReq(c, &req, &inv) {
		return
	}

	if err := h.Ledger.SaveInvoice(&inv); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"invoice": toInvoiceResp(&inv),
	})
}

// GetInvoice returns an invoice, its items and its derived settlement
// balance.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var inv models.Invoice
	if err := h.DB.First(&inv, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "invoice not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	var items []models.InvoiceItem
	if err := h.DB.Where("invoice_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	balance, err := h.Ledger.InvoiceBalance(id)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "balance computation failed")
		return
	}

	itemResps := make([]invoiceItemResp, 0, len(items))
	for i := range items {
		itemResps = append(itemResps, toInvoiceItemResp(&items[i]))
	}

	util.Success(c, util.Response{
		"invoice": toInvoiceResp(&inv),
		"items":   itemResps,
		"balance": balance,
	})
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	page, size, offset := pagination(c)

	base := h.DB.Model(&models.Invoice{})
	if invType, _ := strconv.Atoi(c.Query("type")); invType == models.InvoiceTypePurchase || invType == models.InvoiceTypeSale {
		base = base.Where("type = ?", invType)
	}
	if courseID, _ := strconv.Atoi(c.Query("course_id")); courseID != 0 {
		base = base.Where("course_id = ?", courseID)
	}
	if isPaid := c.Query("is_paid"); isPaid == "true" || isPaid == "false" {
		base = base.Where("is_paid = ?", isPaid == "true")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var invoices []models.Invoice
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&invoices).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]invoiceResp, 0, len(invoices))
	for i := range invoices {
		items = append(items, toInvoiceResp(&invoices[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *InvoiceHandler) CreateInvoiceItem(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req invoiceItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item := models.InvoiceItem{
		InvoiceID:   req.InvoiceID,
		CommodityID: req.CommodityID,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		Discount:    req.Discount,
		VAT:         req.VAT,
	}
	if err := h.Ledger.SaveInvoiceItem(&item); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"item": toInvoiceItemResp(&item),
	})
}

func (h *InvoiceHandler) UpdateInvoiceItem(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var req invoiceItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var item models.InvoiceItem
	if err := h.DB.First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "invoice item not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	// items cannot be moved between invoices; re-parenting would leave the
	// old parent's totals stale
	if req.InvoiceID != item.InvoiceID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invoice of an item cannot be changed")
		return
	}

	item.CommodityID = req.CommodityID
	item.Description = req.Description
	item.UnitPrice = req.UnitPrice
	item.Quantity = req.Quantity
	item.Discount = req.Discount
	item.VAT = req.VAT

	if err := h.Ledger.SaveInvoiceItem(&item); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"item": toInvoiceItemResp(&item),
	})
}

func (h *InvoiceHandler) DeleteInvoiceItem(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	if err := h.Ledger.DeleteInvoiceItem(id); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}
