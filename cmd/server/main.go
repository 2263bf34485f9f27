package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdulrahmanx9/bandwidth-monitor/internal/monitor"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/server/routes"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/config"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

var (
	configFile  = flag.String("config", "configs/server.yaml", "配置文件路径")
	versionFlag = flag.Bool("version", false, "显示版本信息")
	help        = flag.Bool("help", false, "显示帮助信息")
	genKey      = flag.Bool("genkey", false, "生成新的API密钥及其哈希")
)

// 这些变量可以在构建时通过-ldflags设置
var (
	version   string = "1.0.0"
	buildTime string = "2025-01-01"
)

const (
	AppName = "Bandwidth Monitor"
)

func init() {
	// 解析命令行参数
	flag.Parse()

	// 显示版本信息
	if *versionFlag {
		log.Printf("%s v%s (built at %s)", AppName, version, buildTime)
		os.Exit(0)
	}

	// 显示帮助信息
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	// 生成API密钥
	if *genKey {
		key, err := utils.GenerateRandomString(32)
		if err != nil {
			log.Fatalf("生成API密钥失败: %v", err)
		}
		hash, err := utils.HashAPIKey(key)
		if err != nil {
			log.Fatalf("生成API密钥哈希失败: %v", err)
		}
		fmt.Printf("api_key: %s\napi_key_hash: %s\n", key, hash)
		os.Exit(0)
	}
}

func main() {
	log.Printf("启动 %s v%s", AppName, version)

	// 加载配置
	cfg, err := config.LoadServerConfig(*configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 确定被监控的网卡
	iface := cfg.Monitor.Interface
	if iface == "" {
		log.Println("正在自动检测默认网卡...")
		iface = monitor.DetectDefaultInterface()
	}
	log.Printf("监控网卡: %s", iface)

	// 处理状态文件路径 - 转换为绝对路径
	statePath, err := utils.GetAbsolutePath(cfg.Monitor.StateFile)
	if err != nil {
		log.Fatalf("获取状态文件路径失败: %v", err)
	}

	// 确保状态文件目录存在
	stateDir := filepath.Dir(statePath)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		log.Fatalf("创建状态文件目录失败: %v", err)
	}

	log.Printf("状态文件路径: %s", statePath)

	// 创建监控器并启动后台采样
	mon := monitor.NewMonitor(monitor.Options{
		Interface:      iface,
		Source:         monitor.NewNetCounterSource(),
		Store:          monitor.NewStore(statePath),
		SampleInterval: time.Duration(cfg.Monitor.SampleInterval) * time.Second,
		WindowPeriod:   time.Duration(cfg.Monitor.WindowPeriod) * time.Second,
	})
	mon.Start()
	log.Printf("采样任务已启动，周期 %d 秒，窗口 %d 秒", cfg.Monitor.SampleInterval, cfg.Monitor.WindowPeriod)

	// 启动定时落盘任务
	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %ds", cfg.Monitor.PersistInterval), func() {
		if err := mon.Flush(); err != nil {
			// 写入失败不影响内存中的计数，下个周期自动重试
			log.Printf("⚠️ 月度流量落盘失败: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("添加落盘任务失败: %v", err)
	}
	scheduler.Start()
	log.Printf("落盘任务已启动，周期 %d 秒", cfg.Monitor.PersistInterval)

	// 设置路由
	router := routes.SetupRoutes(mon, cfg)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           cfg.App.Listen,
		Handler:        router,
		ReadTimeout:    cfg.App.ReadTimeout,
		WriteTimeout:   cfg.App.WriteTimeout,
		IdleTimeout:    cfg.App.IdleTimeout,
		MaxHeaderBytes: cfg.App.MaxHeaderBytes << 20, // MB to bytes
	}

	// 启动HTTP服务器
	go func() {
		log.Printf("HTTP服务器启动在 %s", cfg.App.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务器...")

	gracefulShutdown(server, scheduler, mon)
}

// gracefulShutdown 优雅关闭服务器
// 停止定时任务和采样协程后做最后一次落盘，把丢失窗口压到最小
func gracefulShutdown(server *http.Server, scheduler *cron.Cron, mon *monitor.Monitor) {
	// 停止定时落盘任务
	scheduler.Stop()

	// 停止采样协程
	mon.Stop()
	log.Println("采样任务已停止")

	// 最后一次落盘
	if err := mon.Flush(); err != nil {
		log.Printf("⚠️ 关闭前落盘失败: %v", err)
	} else {
		log.Println("月度流量已落盘")
	}

	// 关闭HTTP服务器
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("关闭HTTP服务器失败: %v", err)
	}

	log.Println("服务器已关闭")
}
