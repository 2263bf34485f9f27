package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig 服务配置
type ServerConfig struct {
	App struct {
		Name           string        `yaml:"name"`
		Mode           string        `yaml:"mode"`
		Listen         string        `yaml:"listen"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		IdleTimeout    time.Duration `yaml:"idle_timeout"`
		MaxHeaderBytes int           `yaml:"max_header_bytes"`
	} `yaml:"app"`

	Monitor struct {
		Interface       string `yaml:"interface"`        // 网卡名称，留空且auto_detect开启时自动检测
		AutoDetect      bool   `yaml:"auto_detect"`      // 自动检测默认网卡
		SampleInterval  int    `yaml:"sample_interval"`  // 采样周期（秒）
		WindowPeriod    int    `yaml:"window_period"`    // 平均速率统计窗口（秒）
		PersistInterval int    `yaml:"persist_interval"` // 月度流量落盘周期（秒）
		StateFile       string `yaml:"state_file"`       // 月度流量状态文件路径
	} `yaml:"monitor"`

	Auth struct {
		APIKey     string `yaml:"api_key"`      // 明文API密钥
		APIKeyHash string `yaml:"api_key_hash"` // bcrypt哈希形式的API密钥，设置后优先生效
	} `yaml:"auth"`
}

// findConfigFile 智能查找配置文件
func findConfigFile(filename string) (string, error) {
	// 候选路径列表
	candidates := []string{
		filename,                                 // 当前目录
		filepath.Join("configs", filename),       // 当前目录的 configs 子目录
		filepath.Join("..", filename),            // 上级目录
		filepath.Join("..", "configs", filename), // 上级目录的 configs 子目录
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("配置文件 %s 未找到，已搜索路径: %v", filename, candidates)
}

// LoadServerConfig 加载服务配置
func LoadServerConfig(configPath string) (*ServerConfig, error) {
	config := &ServerConfig{}

	// 设置默认值
	config.App.Name = "Bandwidth Monitor"
	config.App.Mode = "release"
	config.App.Listen = ":8000"
	config.App.ReadTimeout = 15 * time.Second
	config.App.WriteTimeout = 15 * time.Second
	config.App.IdleTimeout = 60 * time.Second
	config.App.MaxHeaderBytes = 1
	config.Monitor.AutoDetect = true
	config.Monitor.SampleInterval = 5
	config.Monitor.WindowPeriod = 12 * 60 * 60
	config.Monitor.PersistInterval = 300
	config.Monitor.StateFile = "data/monthly-usage.json"

	if configPath != "" {
		// 智能查找配置文件
		actualPath, err := findConfigFile(configPath)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(actualPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	// 验证必需配置
	if config.Auth.APIKey == "" && config.Auth.APIKeyHash == "" {
		return nil, fmt.Errorf("auth.api_key 和 auth.api_key_hash 不能同时为空")
	}
	if config.Monitor.SampleInterval <= 0 {
		return nil, fmt.Errorf("monitor.sample_interval 必须大于0")
	}
	if config.Monitor.WindowPeriod < config.Monitor.SampleInterval {
		return nil, fmt.Errorf("monitor.window_period 不能小于 monitor.sample_interval")
	}
	if config.Monitor.PersistInterval <= 0 {
		return nil, fmt.Errorf("monitor.persist_interval 必须大于0")
	}
	if config.Monitor.Interface == "" && !config.Monitor.AutoDetect {
		return nil, fmt.Errorf("monitor.interface 为空时必须开启 monitor.auto_detect")
	}

	return config, nil
}
