package monitor

import "time"

// UsageState 月度流量统计状态，也是持久化文件的结构
type UsageState struct {
	Month         string `json:"month"` // YYYY-MM
	SentBytes     uint64 `json:"sent_bytes"`
	ReceivedBytes uint64 `json:"received_bytes"`
}

// TotalBytes 收发总字节数
func (s UsageState) TotalBytes() uint64 {
	return s.SentBytes + s.ReceivedBytes
}

// MonthKey 生成零填充的月份标识，如 2025-03
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthlyAccumulator 当月累计流量计数器
// 月份切换时归零并换月，切换前的完整月数据由调用方负责落盘
type MonthlyAccumulator struct {
	state UsageState
}

// NewMonthlyAccumulator 创建从零开始的当月计数器
func NewMonthlyAccumulator(now time.Time) *MonthlyAccumulator {
	return &MonthlyAccumulator{
		state: UsageState{Month: MonthKey(now)},
	}
}

// Restore 从持久化状态恢复计数器
// 只有存储的月份等于当前月份才恢复计数，过期月份视为无状态从零开始
func (a *MonthlyAccumulator) Restore(st UsageState, now time.Time) bool {
	if st.Month != MonthKey(now) {
		return false
	}
	a.state = st
	return true
}

// Add 累加一次采样的增量
// 先检查月份切换：跨月时返回旧月份的最终状态供调用方落盘，
// 然后计数器归零并切换到新月份，再累加本次增量
func (a *MonthlyAccumulator) Add(sentDelta, recvDelta uint64, now time.Time) *UsageState {
	var completed *UsageState

	if key := MonthKey(now); key != a.state.Month {
		final := a.state
		completed = &final
		a.state = UsageState{Month: key}
	}

	a.state.SentBytes += sentDelta
	a.state.ReceivedBytes += recvDelta
	return completed
}

// Snapshot 返回当前状态的副本，调用方持有的副本不会被采样协程修改
func (a *MonthlyAccumulator) Snapshot() UsageState {
	return a.state
}
