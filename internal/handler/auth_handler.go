package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/middleware"
	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/service"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

// AuthHandler handles login and session lookups
type AuthHandler struct {
	service *service.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Unauthorized(c, response.MsgUnauthorized)
		return
	}

	user, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":     user,
		"greeting": "Welcome " + user.Name + "!",
	})
}
