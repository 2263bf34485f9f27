package monitor

import (
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Options 监控器配置
type Options struct {
	Interface      string        // 被监控的网卡名称
	Source         CounterSource // 计数器数据源
	Store          *Store        // 月度状态持久化存储
	SampleInterval time.Duration // 采样周期
	WindowPeriod   time.Duration // 平均速率统计窗口时长
}

// Monitor 带宽监控器
// 聚合采样基线、滚动窗口和月度计数器，三者由同一把锁保护，
// 读取方拿到的快照中窗口和月度数据永远一致
type Monitor struct {
	mu sync.Mutex

	iface  string
	source CounterSource
	store  *Store

	sampleInterval time.Duration

	// 采样基线：上一次成功读取的原始计数器值
	baselineSent uint64
	baselineRecv uint64
	lastTick     time.Time
	primed       bool

	window  *RollingWindow
	monthly *MonthlyAccumulator

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMonitor 创建带宽监控器并从持久化存储恢复当月计数
func NewMonitor(opts Options) *Monitor {
	now := time.Now()

	capacity := int(opts.WindowPeriod / opts.SampleInterval)
	monthly := NewMonthlyAccumulator(now)

	if state, err := opts.Store.Load(); err != nil {
		log.Printf("⚠️ 加载月度流量状态失败，从零开始统计: %v", err)
	} else if state == nil {
		log.Printf("未找到月度流量状态文件，从零开始统计")
	} else if monthly.Restore(*state, now) {
		log.Printf("已恢复 %s 月度流量: 发送 %d 字节, 接收 %d 字节",
			state.Month, state.SentBytes, state.ReceivedBytes)
	} else {
		log.Printf("月度流量状态已过期 (%s)，从零开始统计当月", state.Month)
	}

	return &Monitor{
		iface:          opts.Interface,
		source:         opts.Source,
		store:          opts.Store,
		sampleInterval: opts.SampleInterval,
		window:         NewRollingWindow(capacity),
		monthly:        monthly,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start 建立采样基线并启动后台采样协程
func (m *Monitor) Start() {
	now := time.Now()
	if sent, recv, err := m.source.ReadCounters(m.iface); err != nil {
		// 不致命，首次成功采样时再建立基线
		log.Printf("⚠️ 初始读取网卡计数器失败: %v", err)
	} else {
		m.mu.Lock()
		m.baselineSent = sent
		m.baselineRecv = recv
		m.lastTick = now
		m.primed = true
		m.mu.Unlock()
	}

	go m.run()
}

// Stop 停止采样协程并等待其退出
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

// Flush 把当月计数快照落盘，由定时任务和优雅关闭调用
// 快照在锁内获取，文件写入在锁外执行，慢磁盘不会阻塞采样
func (m *Monitor) Flush() error {
	m.mu.Lock()
	state := m.monthly.Snapshot()
	m.mu.Unlock()

	return m.store.Save(state)
}

// SpeedStats 各方向的速率统计（Mbps）
type SpeedStats struct {
	Sent     float64 `json:"sent"`
	Received float64 `json:"received"`
	Total    float64 `json:"total"`
}

// Report 带宽统计报告
type Report struct {
	InterfaceName      string     `json:"interface_name"`
	AverageMbps        SpeedStats `json:"average_mbps"`
	PeriodSeconds      float64    `json:"period_seconds"`
	CurrentSampleCount int        `json:"current_sample_count"`
	MaxSamplesForAvg   int        `json:"max_samples_for_avg"`
}

// BandwidthReport 生成当前窗口的平均带宽报告
// period_seconds是窗口内采样覆盖的实际时长，进程暂停导致采样间隔
// 拉长时报告的时长会如实反映，不使用配置的名义窗口值
func (m *Monitor) BandwidthReport() Report {
	m.mu.Lock()
	sent, recv, total := m.window.AverageMbps()
	period := m.window.PeriodSeconds()
	count := m.window.SampleCount()
	capacity := m.window.Capacity()
	m.mu.Unlock()

	return Report{
		InterfaceName:      m.iface,
		AverageMbps:        SpeedStats{Sent: sent, Received: recv, Total: total},
		PeriodSeconds:      period,
		CurrentSampleCount: count,
		MaxSamplesForAvg:   capacity,
	}
}

// TrafficBytes 各方向的原始字节数
type TrafficBytes struct {
	Sent     uint64 `json:"sent"`
	Received uint64 `json:"received"`
	Total    uint64 `json:"total"`
}

// TrafficHuman 各方向的可读流量，十进制单位（1000进制，如 "1.5 GB"）
type TrafficHuman struct {
	Sent     string `json:"sent"`
	Received string `json:"received"`
	Total    string `json:"total"`
}

// UsageReport 月度流量报告
type UsageReport struct {
	Month     string       `json:"month"`
	DataUsage TrafficHuman `json:"data_usage"`
	RawBytes  TrafficBytes `json:"raw_bytes"`
}

// MonthlyReport 生成当月流量报告
// 若计数器所记月份落后于now（跨月后尚无采样），报告当前月份的零用量，
// 不把已结束月份的数据当作本月用量返回
func (m *Monitor) MonthlyReport(now time.Time) UsageReport {
	m.mu.Lock()
	state := m.monthly.Snapshot()
	m.mu.Unlock()

	if key := MonthKey(now); key != state.Month {
		state = UsageState{Month: key}
	}

	return UsageReport{
		Month: state.Month,
		DataUsage: TrafficHuman{
			Sent:     humanize.Bytes(state.SentBytes),
			Received: humanize.Bytes(state.ReceivedBytes),
			Total:    humanize.Bytes(state.TotalBytes()),
		},
		RawBytes: TrafficBytes{
			Sent:     state.SentBytes,
			Received: state.ReceivedBytes,
			Total:    state.TotalBytes(),
		},
	}
}
