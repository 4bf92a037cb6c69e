package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staymap/staymap-backend-go/internal/basemap"
	"github.com/staymap/staymap-backend-go/internal/config"
	"github.com/staymap/staymap-backend-go/internal/handler"
	"github.com/staymap/staymap-backend-go/internal/middleware"
	"github.com/staymap/staymap-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, mapService *service.MapService, basemapStore *basemap.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute, "/api/v1/sessions"))
	r.Use(middleware.Persona(cfg.JWTSecret))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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
			"message": "Staymap backend is running",
		})
	})

	sessionHandler := handler.NewSessionHandler(mapService)
	listingHandler := handler.NewListingHandler(mapService)
	basemapHandler := handler.NewBasemapHandler(basemapStore)
	authHandler := handler.NewAuthHandler(cfg.JWTSecret)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 认证接口
		api.POST("/auth/token", authHandler.Token)

		// 地图会话接口
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.DELETE("/:id", sessionHandler.Close)
			sessions.PUT("/:id/filter", sessionHandler.ApplyFilter)
			sessions.PUT("/:id/zoom", sessionHandler.SetZoom)
			sessions.POST("/:id/zoom/in", sessionHandler.ZoomIn)
			sessions.POST("/:id/zoom/out", sessionHandler.ZoomOut)
			sessions.GET("/:id/layer", sessionHandler.Layer)
			sessions.POST("/:id/pointer", sessionHandler.PointerMove)
			sessions.DELETE("/:id/pointer", sessionHandler.PointerLeave)
			sessions.PUT("/:id/selection", sessionHandler.Select)
			sessions.DELETE("/:id/selection", sessionHandler.ClearSelection)
		}

		// 房源详情接口
		api.GET("/listings/:id", listingHandler.Detail)

		// 底图接口
		api.GET("/basemap", basemapHandler.Get)
	}

	return r
}
