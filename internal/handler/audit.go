package handler

import (
	"net/http"

	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler lists the operation trail.
type AuditHandler struct {
	DB *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{DB: db}
}

func (h *AuditHandler) ListLogs(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}

	page, size, offset := pagination(c)

	var total int64
	if err := h.DB.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var logs []models.AuditLog
	if err := h.DB.Order("id DESC").Limit(size).Offset(offset).Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": logs,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
