package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportExportHandler serves bulk XLSX import of course transactions and
// CSV/XLSX export of the general ledger.
type ImportExportHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewImportExportHandler(db *gorm.DB, svc *ledger.Service) *ImportExportHandler {
	return &ImportExportHandler{DB: db, Ledger: svc}
}

var exportHeader = []string{"ID", "Date", "Type", "Category", "Account", "Amount", "Fee", "Net Amount", "Tracking Code", "Description"}

func exportRow(t *models.Transaction, accountName string) []string {
	typeText := "withdraw"
	if t.Type == models.TypeReceive {
		typeText = "receive"
	}
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		t.Date.Format("2006-01-02"),
		typeText,
		models.CategoryNames[t.Category],
		accountName,
		strconv.FormatInt(t.Amount, 10),
		strconv.FormatInt(t.Fee, 10),
		strconv.FormatInt(t.NetAmount, 10),
		t.TrackingCode,
		t.Description,
	}
}

func (h *ImportExportHandler) loadExportData(c *gin.Context) ([]models.Transaction, map[uint]string, bool) {
	var transactions []models.Transaction
	if err := h.DB.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return nil, nil, false
	}

	var accounts []models.FinancialAccount
	if err := h.DB.Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return nil, nil, false
	}
	names := make(map[uint]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return transactions, names, true
}

// ExportCSV streams the general ledger as CSV.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	transactions, accountNames, ok := h.loadExportData(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range transactions {
		t := &transactions[i]
		writer.Write(exportRow(t, accountNames[t.AccountID]))
	}
}

// ExportXLSX streams the general ledger as an XLSX workbook.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	transactions, accountNames, ok := h.loadExportData(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for row := range transactions {
		t := &transactions[row]
		for col, value := range exportRow(t, accountNames[t.AccountID]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
}

// Expected import columns, one course transaction per row:
// date | type | category | account | course | amount | fee | registration | customer | tracking code | description

type importRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportCourseTransactionsXLSX bulk-creates course transactions from an
// uploaded workbook. Each row is written through the ledger service in its
// own transaction, so a bad row rejects only itself; the reply reports
// per-row errors.
func (h *ImportExportHandler) ImportCourseTransactionsXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file upload")
		return
	}
	upload, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unreadable file upload")
		return
	}
	defer upload.Close()

	f, err := excelize.OpenReader(upload)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid xlsx file")
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid xlsx file")
		return
	}
	if len(rows) < 2 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "no data rows")
		return
	}

	// account and course lookups are resolved once for the whole file
	accountIDs, err := h.accountIDsByName()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	courseIDs, err := h.courseIDsByName()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var created int
	var rowErrors []importRowError
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		ct, err := h.parseImportRow(row, accountIDs, courseIDs)
		if err != nil {
			rowErrors = append(rowErrors, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		ct.EntryUserID = &user.ID
		if ct.TrackingCode == "" {
			ct.TrackingCode = "import-" + uuid.NewString()
		}
		if err := h.Ledger.SaveCourseTransaction(ct, ledger.TransferOptions{}); err != nil {
			rowErrors = append(rowErrors, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		created++
	}

	util.Success(c, util.Response{
		"created": created,
		"failed":  len(rowErrors),
		"errors":  rowErrors,
	})
}

func (h *ImportExportHandler) accountIDsByName() (map[string]uint, error) {
	var accounts []models.FinancialAccount
	if err := h.DB.Find(&accounts).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(accounts))
	for _, a := range accounts {
		ids[a.Name] = a.ID
	}
	return ids, nil
}

func (h *ImportExportHandler) courseIDsByName() (map[string]uint, error) {
	var courses []models.Course
	if err := h.DB.Find(&courses).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(courses))
	for _, course := range courses {
		ids[course.Name] = course.ID
	}
	return ids, nil
}

func (h *ImportExportHandler) parseImportRow(row []string, accountIDs, courseIDs map[string]uint) (*models.CourseTransaction, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	if len(row) == 0 || cell(0) == "" {
		return nil, fmt.Errorf("empty row")
	}

	date, err := util.ParseDate(cell(0))
	if err != nil {
		return nil, fmt.Errorf("column 1: %w", err)
	}

	var txType int
	switch strings.ToLower(cell(1)) {
	case "receive", "1":
		txType = models.TypeReceive
	case "withdraw", "2":
		txType = models.TypeWithdraw
	default:
		return nil, fmt.Errorf("column 2: unknown type %q", cell(1))
	}

	category, err := strconv.Atoi(cell(2))
	if err != nil {
		return nil, fmt.Errorf("column 3: invalid category %q", cell(2))
	}

	accountID, ok := accountIDs[cell(3)]
	if !ok {
		return nil, fmt.Errorf("column 4: unknown account %q", cell(3))
	}
	courseID, ok := courseIDs[cell(4)]
	if !ok {
		return nil, fmt.Errorf("column 5: unknown course %q", cell(4))
	}

	amount, err := strconv.ParseInt(cell(5), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("column 6: invalid amount %q", cell(5))
	}
	if err := util.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("column 6: %w", err)
	}

	var fee int64
	if cell(6) != "" {
		fee, err = strconv.ParseInt(cell(6), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column 7: invalid fee %q", cell(6))
		}
	}

	var registrationID *uint
	if cell(7) != "" {
		id, err := strconv.Atoi(cell(7))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("column 8: invalid registration id %q", cell(7))
		}
		rid := uint(id)
		registrationID = &rid
	}

	if err := util.ValidateTrackingCode(cell(9)); err != nil {
		return nil, fmt.Errorf("column 10: %w", err)
	}

	return &models.CourseTransaction{
		Type:               txType,
		Category:           category,
		FinancialAccountID: accountID,
		CourseID:           courseID,
		RegistrationID:     registrationID,
		Amount:             amount,
		Fee:                fee,
		CustomerName:       cell(8),
		Date:               date,
		TrackingCode:       cell(9),
		Description:        cell(10),
	}, nil
}
