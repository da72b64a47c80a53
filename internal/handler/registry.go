package handler

import (
	"net/http"

	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegistryHandler serves the small reference tables invoices point at:
// commodities, customers, courses and registrations.
type RegistryHandler struct {
	DB *gorm.DB
}

func NewRegistryHandler(db *gorm.DB) *RegistryHandler {
	return &RegistryHandler{DB: db}
}

type commodityReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

func (h *RegistryHandler) CreateCommodity(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req commodityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	commodity := models.Commodity{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&commodity).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "commodity name already exists")
		return
	}

	util.Success(c, util.Response{
		"id":   commodity.ID,
		"name": commodity.Name,
	})
}

func (h *RegistryHandler) ListCommodities(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var commodities []models.Commodity
	if err := h.DB.Order("name ASC").Find(&commodities).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": commodities,
	})
}

type customerReq struct {
	Name         string  `json:"name" binding:"required,max=200"`
	CustomerType int     `json:"customer_type" binding:"omitempty,oneof=1 2"`
	TaxID        *string `json:"tax_id"`
	NationalID   *string `json:"national_id"`
	Address      string  `json:"address"`
	Contact      string  `json:"contact" binding:"max=200"`
}

func (h *RegistryHandler) CreateCustomer(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.CustomerType == 0 {
		req.CustomerType = models.CustomerTypeIndividual
	}

	customer := models.Customer{
		Name:         req.Name,
		CustomerType: req.CustomerType,
		TaxID:        req.TaxID,
		NationalID:   req.NationalID,
		Address:      req.Address,
		Contact:      req.Contact,
	}
	if err := h.DB.Create(&customer).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "customer tax or national id already exists")
		return
	}

	util.Success(c, util.Response{
		"id":   customer.ID,
		"name": customer.Name,
	})
}

func (h *RegistryHandler) ListCustomers(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var customers []models.Customer
	if err := h.DB.Order("name ASC").Find(&customers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": customers,
	})
}

type courseReq struct {
	Name string `json:"name" binding:"required,max=200"`
}

func (h *RegistryHandler) CreateCourse(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	course := models.Course{Name: req.Name}
	if err := h.DB.Create(&course).Error; err != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "course name already exists")
		return
	}

	util.Success(c, util.Response{
		"id":   course.ID,
		"name": course.Name,
	})
}

func (h *RegistryHandler) ListCourses(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var courses []models.Course
	if err := h.DB.Order("name ASC").Find(&courses).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": courses,
	})
}

type registrationReq struct {
	CourseID uint  `json:"course_id" binding:"required"`
	UserID   *uint `json:"user_id"`
	Tuition  int64 `json:"tuition"`
}

func (h *RegistryHandler) CreateRegistration(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	var req registrationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	registration := models.Registration{
		CourseID: req.CourseID,
		UserID:   req.UserID,
		Tuition:  req.Tuition,
	}
	if err := h.DB.Create(&registration).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed")
		return
	}

	util.Success(c, util.Response{
		"id": registration.ID,
	})
}

func (h *RegistryHandler) GetRegistration(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	id := pathID(c)
	if id == 0 {
		return
	}

	var registration models.Registration
	if err := h.DB.First(&registration, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "registration not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	util.Success(c, util.Response{
		"registration": gin.H{
			"id":          registration.ID,
			"course_id":   registration.CourseID,
			"user_id":     registration.UserID,
			"tuition":     registration.Tuition,
			"paid_amount": registration.PaidAmount,
		},
	})
}
