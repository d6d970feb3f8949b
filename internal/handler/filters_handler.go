package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/middleware"
	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/service"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

// FiltersHandler handles the saved filter selection of the current user
type FiltersHandler struct {
	service *service.FiltersService
}

// NewFiltersHandler creates a new saved filters handler
func NewFiltersHandler(service *service.FiltersService) *FiltersHandler {
	return &FiltersHandler{service: service}
}

// Get handles GET /api/v1/me/filters
func (h *FiltersHandler) Get(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Unauthorized(c, response.MsgUnauthorized)
		return
	}

	saved, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, saved)
}

// Save handles PUT /api/v1/me/filters
func (h *FiltersHandler) Save(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Unauthorized(c, response.MsgUnauthorized)
		return
	}

	var sel models.FilterSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BindError(c, err)
		return
	}

	saved, err := h.service.Save(c.Request.Context(), claims.UserID, sel)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, saved)
}

// Delete handles DELETE /api/v1/me/filters
func (h *FiltersHandler) Delete(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Unauthorized(c, response.MsgUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, nil)
}
