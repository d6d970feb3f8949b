package handler

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/service"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

var tconstPattern = regexp.MustCompile(`^tt\d{7,}$`)

// FilmHandler handles HTTP requests for films
type FilmHandler struct {
	service *service.FilmService
}

// NewFilmHandler creates a new film handler
func NewFilmHandler(service *service.FilmService) *FilmHandler {
	return &FilmHandler{service: service}
}

// Search handles POST /api/v1/films/search
func (h *FilmHandler) Search(c *gin.Context) {
	var sel models.FilterSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), sel)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GetFilmByID handles GET /api/v1/films/:id
func (h *FilmHandler) GetFilmByID(c *gin.Context) {
	id := c.Param("id")
	if !tconstPattern.MatchString(id) {
		response.BadRequest(c, "Invalid film ID")
		return
	}

	film, err := h.service.GetFilm(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, film)
}

// Random handles GET /api/v1/films/random
func (h *FilmHandler) Random(c *gin.Context) {
	film, err := h.service.PickRandom(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, film)
}

// RandomMatching handles POST /api/v1/films/random
func (h *FilmHandler) RandomMatching(c *gin.Context) {
	var sel models.FilterSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BindError(c, err)
		return
	}

	film, err := h.service.PickRandomMatching(c.Request.Context(), sel)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, film)
}
