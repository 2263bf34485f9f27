package monitor

import "time"

// Sample 单次采样的增量数据
type Sample struct {
	SentDelta uint64
	RecvDelta uint64
	Duration  float64 // 本次采样实际经过的秒数
	Timestamp time.Time
}

// RollingWindow 固定容量的滚动采样窗口
// 环形缓冲区实现，维护运行总和，追加和求平均都是O(1)
type RollingWindow struct {
	samples []Sample
	head    int
	size    int

	sentTotal     uint64
	recvTotal     uint64
	durationTotal float64
}

// NewRollingWindow 创建滚动窗口，capacity为窗口内最大采样数
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &RollingWindow{
		samples: make([]Sample, capacity),
	}
}

// Append 追加一个采样，窗口满时先淘汰最旧的采样
func (w *RollingWindow) Append(s Sample) {
	if w.size == len(w.samples) {
		oldest := w.samples[w.head]
		w.sentTotal -= oldest.SentDelta
		w.recvTotal -= oldest.RecvDelta
		w.durationTotal -= oldest.Duration
		w.head = (w.head + 1) % len(w.samples)
		w.size--
	}

	tail := (w.head + w.size) % len(w.samples)
	w.samples[tail] = s
	w.size++

	w.sentTotal += s.SentDelta
	w.recvTotal += s.RecvDelta
	w.durationTotal += s.Duration
}

// AverageMbps 计算窗口内的平均速率（兆比特每秒）
// 窗口为空时返回全零，不会出现除零
func (w *RollingWindow) AverageMbps() (sent, recv, total float64) {
	if w.size == 0 || w.durationTotal <= 0 {
		return 0, 0, 0
	}
	sent = float64(w.sentTotal) * 8 / 1_000_000 / w.durationTotal
	recv = float64(w.recvTotal) * 8 / 1_000_000 / w.durationTotal
	return sent, recv, sent + recv
}

// PeriodSeconds 窗口内采样覆盖的实际总时长（秒）
func (w *RollingWindow) PeriodSeconds() float64 {
	return w.durationTotal
}

// SampleCount 当前窗口内的采样数
func (w *RollingWindow) SampleCount() int {
	return w.size
}

// Capacity 窗口最大采样数
func (w *RollingWindow) Capacity() int {
	return len(w.samples)
}

// Oldest 返回最旧的采样，窗口为空时返回false
func (w *RollingWindow) Oldest() (Sample, bool) {
	if w.size == 0 {
		return Sample{}, false
	}
	return w.samples[w.head], true
}
