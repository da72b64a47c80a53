package handler

import (
	"net/http"
	"time"

	"github.com/NeshaaSoftware/backend/internal/models"
	"github.com/NeshaaSoftware/backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	DB          *gorm.DB
	JWTSecret   string
	ExpireHours int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, expireHours int) *AuthHandler {
	return &AuthHandler{
		DB:          db,
		JWTSecret:   jwtSecret,
		ExpireHours: expireHours,
	}
}

type registerReq struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=64"`
	PhoneNumber string `json:"phone_number" binding:"max=32"`
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "username already taken")
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "password hashing failed")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed")
		return
	}

	util.Success(c, util.Response{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong username or password")
		return
	}

	ttl := time.Duration(h.ExpireHours) * time.Hour
	token, err := util.GenerateToken(h.JWTSecret, user.ID, ttl)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "token generation failed")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	_ = h.DB.Model(&user).Updates(map[string]interface{}{
		"last_login_at": user.LastLoginAt,
		"last_login_ip": user.LastLoginIP,
	}).Error

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
		},
	})
}

// GetMe returns the authenticated user.
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	util.Success(c, util.Response{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"phone_number": user.PhoneNumber,
	})
}
