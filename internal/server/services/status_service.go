package services

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// StatusService 系统状态服务
type StatusService struct{}

// NewStatusService 创建系统状态服务
func NewStatusService() *StatusService {
	return &StatusService{}
}

// SystemStatus 系统状态
type SystemStatus struct {
	Hostname    string     `json:"hostname"`
	Uptime      int64      `json:"uptime"`
	LoadAverage string     `json:"load_average"`
	Memory      MemoryInfo `json:"memory"`
	Disk        DiskInfo   `json:"disk"`
	LastUpdated time.Time  `json:"last_updated"`
}

// MemoryInfo 内存信息
type MemoryInfo struct {
	Total     uint64  `json:"total"`
	Free      uint64  `json:"free"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Percent   float64 `json:"percent"`
}

// DiskInfo 磁盘信息
type DiskInfo struct {
	Total   uint64  `json:"total"`
	Free    uint64  `json:"free"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// GetSystemStatus 获取系统状态
func (ss *StatusService) GetSystemStatus() (*SystemStatus, error) {
	status := &SystemStatus{
		LastUpdated: time.Now(),
	}

	// 获取主机名和运行时间 - 使用gopsutil
	if hostStat, err := host.Info(); err == nil {
		status.Hostname = hostStat.Hostname
		status.Uptime = int64(hostStat.Uptime)
	}

	// 获取CPU使用率，失败时回退到读取/proc/loadavg（仅Linux）
	if avgStat, err := cpu.Percent(time.Second, false); err == nil && len(avgStat) > 0 {
		status.LoadAverage = strconv.FormatFloat(avgStat[0], 'f', 2, 64) + "%"
	} else {
		if content, err := os.ReadFile("/proc/loadavg"); err == nil {
			status.LoadAverage = strings.TrimSpace(string(content))
		}
	}

	// 获取内存信息 - 使用gopsutil
	if memStat, err := mem.VirtualMemory(); err == nil {
		status.Memory = MemoryInfo{
			Total:     memStat.Total,
			Free:      memStat.Free,
			Available: memStat.Available,
			Used:      memStat.Used,
			Percent:   memStat.UsedPercent,
		}
	}

	// 获取根分区磁盘信息 - 使用gopsutil
	if diskStat, err := disk.Usage("/"); err == nil {
		status.Disk = DiskInfo{
			Total:   diskStat.Total,
			Free:    diskStat.Free,
			Used:    diskStat.Used,
			Percent: diskStat.UsedPercent,
		}
	}

	return status, nil
}
