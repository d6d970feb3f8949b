package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/service"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

// GenreOption is one entry of the genre picker
type GenreOption struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CatalogHandler serves catalog metadata
type CatalogHandler struct {
	service *service.FilmService
	imports *service.ImportService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.FilmService, imports *service.ImportService) *CatalogHandler {
	return &CatalogHandler{service: service, imports: imports}
}

// GetGenres handles GET /api/v1/genres
func (h *CatalogHandler) GetGenres(c *gin.Context) {
	genres, err := h.service.AvailableGenres(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	options := make([]GenreOption, len(genres))
	for i, g := range genres {
		options[i] = GenreOption{Name: g, Label: models.GenreLabel(g)}
	}

	response.Success(c, gin.H{
		"genres":                  options,
		"max_genres":              models.MaxSecondaryGenres,
		"max_genres_with_primary": models.MaxSecondaryGenresWithPrimary,
	})
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	info, err := h.service.CatalogInfo(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, info)
}

// GetImports handles GET /api/v1/catalog/imports
func (h *CatalogHandler) GetImports(c *gin.Context) {
	var query struct {
		Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	runs, err := h.imports.History(c.Request.Context(), query.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, runs)
}
