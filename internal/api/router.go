package api

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/internal/config"
	"github.com/jengzang/filmday-backend-go/internal/handler"
	"github.com/jengzang/filmday-backend-go/internal/middleware"
	"github.com/jengzang/filmday-backend-go/internal/service"
)

// Services are the dependencies the routes are served from
type Services struct {
	Films   *service.FilmService
	Users   *service.UserService
	Filters *service.FiltersService
	Imports *service.ImportService
	JWT     *auth.JWTManager

	// LoginLimiter throttles login attempts; nil uses the configured limit
	LoginLimiter *middleware.RateLimiter
}

func init() {
	// Report validation failures by JSON field name
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Filmday Backend API is running",
		})
	})

	limiter := svc.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	authHandler := handler.NewAuthHandler(svc.Users)
	filmHandler := handler.NewFilmHandler(svc.Films)
	catalogHandler := handler.NewCatalogHandler(svc.Films, svc.Imports)
	filtersHandler := handler.NewFiltersHandler(svc.Filters)

	// API 路由组
	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", middleware.RateLimit(limiter), authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.Auth(svc.JWT))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.GET("/genres", catalogHandler.GetGenres)
			protected.GET("/catalog", catalogHandler.GetCatalog)
			protected.GET("/catalog/imports", catalogHandler.GetImports)

			films := protected.Group("/films")
			{
				films.POST("/search", filmHandler.Search)
				films.GET("/random", filmHandler.Random)
				films.POST("/random", filmHandler.RandomMatching)
				films.GET("/:id", filmHandler.GetFilmByID)
			}

			me := protected.Group("/me")
			{
				me.GET("/filters", filtersHandler.Get)
				me.PUT("/filters", filtersHandler.Save)
				me.DELETE("/filters", filtersHandler.Delete)
			}
		}
	}

	return r
}
