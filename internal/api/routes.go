package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jroosing/zonegit/internal/api/handlers"
	"github.com/jroosing/zonegit/internal/api/middleware"
	"github.com/jroosing/zonegit/internal/config"

	_ "github.com/jroosing/zonegit/internal/api/docs" // swagger docs
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Optional API key protection.
	if cfg != nil && cfg.API.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	api.GET("/health", h.Health)
	api.GET("/stats", h.Stats)

	api.GET("/runs", h.ListRuns)
	api.GET("/runs/:id", h.GetRun)
	api.POST("/check", h.Check)

	api.GET("/files", h.ListFiles)
	api.GET("/files/serials", h.SerialHistory)
}
