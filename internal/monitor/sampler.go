package monitor

import (
	"log"
	"time"
)

// run 后台采样循环，按固定周期采样直到Stop被调用
func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick(time.Now())
		}
	}
}

// tick 执行一次采样
// 读取失败时跳过本次采样，基线保持不变，下个周期继续；
// 窗口和月度计数在同一锁内更新，读取方不会看到只更新了一半的状态
func (m *Monitor) tick(now time.Time) {
	sent, recv, err := m.source.ReadCounters(m.iface)
	if err != nil {
		log.Printf("⚠️ 采样失败，跳过本次采样: %v", err)
		return
	}

	var completed *UsageState

	m.mu.Lock()

	if !m.primed {
		// 基线尚未建立，本次读取只用来建立基线
		m.baselineSent = sent
		m.baselineRecv = recv
		m.lastTick = now
		m.primed = true
		m.mu.Unlock()
		return
	}

	elapsed := now.Sub(m.lastTick).Seconds()
	if elapsed <= 0 {
		m.mu.Unlock()
		return
	}

	var sentDelta, recvDelta uint64
	if sent < m.baselineSent || recv < m.baselineRecv {
		// 计数器回退（网卡重置或主机重启），增量按零处理并重置基线，
		// 两个方向的计数器同时归零，只回退一个方向也整体按零处理
		log.Printf("检测到网卡 %s 计数器回退，重置采样基线", m.iface)
	} else {
		sentDelta = sent - m.baselineSent
		recvDelta = recv - m.baselineRecv
	}

	m.window.Append(Sample{
		SentDelta: sentDelta,
		RecvDelta: recvDelta,
		Duration:  elapsed,
		Timestamp: now,
	})
	completed = m.monthly.Add(sentDelta, recvDelta, now)

	m.baselineSent = sent
	m.baselineRecv = recv
	m.lastTick = now

	m.mu.Unlock()

	// 跨月：把已结束月份的最终数据落盘，文件写入在锁外执行
	if completed != nil {
		log.Printf("月份切换，归档 %s 流量: 发送 %d 字节, 接收 %d 字节",
			completed.Month, completed.SentBytes, completed.ReceivedBytes)
		if err := m.store.Save(*completed); err != nil {
			log.Printf("⚠️ 归档 %s 月度流量失败: %v", completed.Month, err)
		}
	}
}
