package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/NeshaaSoftware/backend/internal/ledger"
	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser pulls the authenticated user out of the request context.
// Returns nil after writing the error response when not logged in.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil
	}
	return user
}

// pathID parses the :id path parameter. Returns 0 after writing the error
// response when invalid.
func pathID(c *gin.Context) uint {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0
	}
	return uint(id)
}

// writeLedgerError maps a ledger service error to the response envelope.
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
	}
}

// pagination reads page/page_size query parameters with the usual bounds.
func pagination(c *gin.Context) (page, size, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}
