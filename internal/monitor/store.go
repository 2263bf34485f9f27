package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Store 月度流量状态的持久化存储
// 单个JSON文件，每次保存整体替换，保证文件要么是旧的完整状态要么是新的完整状态
type Store struct {
	path string
}

// NewStore 创建持久化存储，path为状态文件路径
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 状态文件路径
func (s *Store) Path() string {
	return s.path
}

// Load 加载持久化状态
// 文件不存在返回 (nil, nil)；文件损坏或格式不符返回 (nil, err)，
// 调用方记录警告后按无状态处理，任何情况都不会中断启动
func (s *Store) Load() (*UsageState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取状态文件失败: %w", err)
	}

	var state UsageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("解析状态文件失败: %w", err)
	}

	if !monthKeyPattern.MatchString(state.Month) {
		return nil, fmt.Errorf("状态文件月份格式无效: %q", state.Month)
	}

	return &state, nil
}

// Save 保存状态到文件
// 先写同目录下的临时文件再原子重命名，避免写入中途崩溃产生半截文件
func (s *Store) Save(state UsageState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化状态失败: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".usage-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("重命名状态文件失败: %w", err)
	}

	return nil
}
