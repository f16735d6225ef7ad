package handlers

import (
	"net/http"

	"roadmap-review/helper"
	"roadmap-review/logger"
	"roadmap-review/middleware"
	"roadmap-review/services"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AuthService    services.AuthService
	RoadmapService services.RoadmapService
	CatalogService services.CatalogService
	Helper         *helper.HTTPHelper
	Log            *logger.Logger
	CORSOrigin     string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	authHandler := NewAuthHandler(cfg.AuthService, cfg.Helper)
	roadmapHandler := NewRoadmapHandler(cfg.RoadmapService, cfg.Helper)
	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Helper)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequestLogger(cfg.Log))
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.AuthService, cfg.Helper))
		{
			protected.GET("/profile", authHandler.GetProfile)

			roadmaps := protected.Group("/roadmaps")
			{
				roadmaps.POST("", roadmapHandler.CreateRoadmap)
				roadmaps.GET("", roadmapHandler.GetRoadmaps)
				roadmaps.GET("/:id", roadmapHandler.GetRoadmap)
				roadmaps.PATCH("/:id", roadmapHandler.UpdateRoadmap)
				roadmaps.DELETE("/:id", roadmapHandler.DeleteRoadmap)
				roadmaps.GET("/:id/versions", roadmapHandler.GetRoadmapVersions)
				roadmaps.GET("/:id/versions/:version", roadmapHandler.GetRoadmapVersion)
			}
		}

		// Public routes (approved only)
		public := v1.Group("/public")
		{
			public.GET("/roadmaps", roadmapHandler.GetPublicRoadmaps)
			public.GET("/roadmaps/:id", roadmapHandler.GetPublicRoadmap)
			public.GET("/domains", catalogHandler.GetDomains)
		}
	}

	return router
}
