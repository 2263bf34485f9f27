package routes

import (
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/monitor"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/server/handlers"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/server/middleware"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/server/services"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/config"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置路由
func SetupRoutes(m *monitor.Monitor, cfg *config.ServerConfig) *gin.Engine {
	router := gin.New()

	// 基础中间件
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())

	// 创建处理器
	statsHandler := handlers.NewStatsHandler(m, services.NewStatusService())

	// 健康检查 (无需认证)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
		})
	})

	// 404处理
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	// API路由组 (需要API密钥认证)
	api := router.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg))
	{
		stats := api.Group("/stats")
		{
			stats.GET("/bandwidth", statsHandler.GetBandwidth)
			stats.GET("/monthly-traffic", statsHandler.GetMonthlyTraffic)
			stats.GET("/system", statsHandler.GetSystemStatus)
		}
	}

	return router
}
