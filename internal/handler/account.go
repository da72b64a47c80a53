package handler

import (
	"net/http"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves financial accounts.
type AccountHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewAccountHandler(db *gorm.DB, svc *ledger.Service) *AccountHandler {
	return &AccountHandler{DB: db, Ledger: svc}
}

type accountReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	AssetType   int    `json:"asset_type" binding:"omitempty,oneof=1 2 3 4"`
	Description string `json:"description"`
	CourseIDs   []uint `json:"course_ids"`
}

type accountResp struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	AssetType   int    `json:"asset_type"`
	Description string `json:"description"`
	Balance     int64  `json:"balance"`
}

func (h *AccountHandler) toAccountResp(a *models.FinancialAccount) (accountResp, error) {
	balance, err := h.Ledger.AccountBalance(a.ID)
	if err != nil {
		return accountResp{}, err
	}
	return accountResp{
		ID:          a.ID,
		Name:        a.Name,
		AssetType:   a.AssetType,
		Description: a.Description,
		Balance:     balance,
	}, nil
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.AssetType == 0 {
		req.AssetType = models.AssetTypeCurrency
	}

	account := models.FinancialAccount{
		Name:        req.Name,
		AssetType:   req.AssetType,
		Description: req.Description,
	}
	if len(req.CourseIDs) > 0 {
		var courses []models.Course
		if err := h.DB.Find(&courses, req.CourseIDs).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
			return
		}
		if len(courses) != len(req.CourseIDs) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown course id")
			return
		}
		account.Courses = courses
	}

	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "account name already exists")
		return
	}

	util.Success(c, util.Response{
		"account": accountResp{
			ID:          account.ID,
			Name:        account.Name,
			AssetType:   account.AssetType,
			Description: account.Description,
		},
	})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var accounts []models.FinancialAccount
	if err := h.DB.Order("name ASC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		resp, err := h.toAccountResp(&accounts[i])
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "balance computation failed")
			return
		}
		items = append(items, resp)
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var account models.FinancialAccount
	if err := h.DB.Preload("Courses").First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	resp, err := h.toAccountResp(&account)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "balance computation failed")
		return
	}

	courseNames := make([]string, 0, len(account.Courses))
	for _, course := range account.Courses {
		courseNames = append(courseNames, course.Name)
	}

	util.Success(c, util.Response{
		"account": resp,
		"courses": courseNames,
	})
}
