package handlers

import (
	"time"

	"github.com/abdulrahmanx9/bandwidth-monitor/internal/monitor"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/server/services"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// StatsHandler 统计接口控制器
type StatsHandler struct {
	monitor       *monitor.Monitor
	statusService *services.StatusService
}

// NewStatsHandler 创建统计接口控制器
func NewStatsHandler(m *monitor.Monitor, statusService *services.StatusService) *StatsHandler {
	return &StatsHandler{
		monitor:       m,
		statusService: statusService,
	}
}

// GetBandwidth 获取窗口平均带宽
func (h *StatsHandler) GetBandwidth(c *gin.Context) {
	response.Success(c, h.monitor.BandwidthReport())
}

// GetMonthlyTraffic 获取当月累计流量
func (h *StatsHandler) GetMonthlyTraffic(c *gin.Context) {
	response.Success(c, h.monitor.MonthlyReport(time.Now()))
}

// GetSystemStatus 获取系统状态
func (h *StatsHandler) GetSystemStatus(c *gin.Context) {
	status, err := h.statusService.GetSystemStatus()
	if err != nil {
		response.InternalError(c, "获取系统状态失败")
		return
	}
	response.Success(c, status)
}
