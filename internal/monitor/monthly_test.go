package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-10", MonthKey(time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)))
	// 月份零填充
	assert.Equal(t, "2025-03", MonthKey(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthlyAccumulatorAdd(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	acc := NewMonthlyAccumulator(now)

	for i := 0; i < 10; i++ {
		completed := acc.Add(100, 200, now.Add(time.Duration(i*5)*time.Second))
		assert.Nil(t, completed)
	}

	state := acc.Snapshot()
	assert.Equal(t, "2025-10", state.Month)
	assert.Equal(t, uint64(1000), state.SentBytes)
	assert.Equal(t, uint64(2000), state.ReceivedBytes)
	assert.Equal(t, uint64(3000), state.TotalBytes())
}

func TestMonthlyAccumulatorRollover(t *testing.T) {
	oct := time.Date(2025, 10, 31, 23, 59, 55, 0, time.UTC)
	acc := NewMonthlyAccumulator(oct)
	acc.Add(500, 500, oct)

	// 跨月采样：返回旧月份的最终状态，计数器归零换月后再累加
	nov := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	completed := acc.Add(10, 20, nov)

	require.NotNil(t, completed)
	assert.Equal(t, "2025-10", completed.Month)
	assert.Equal(t, uint64(500), completed.SentBytes)
	assert.Equal(t, uint64(500), completed.ReceivedBytes)

	state := acc.Snapshot()
	assert.Equal(t, "2025-11", state.Month)
	assert.Equal(t, uint64(10), state.SentBytes)
	assert.Equal(t, uint64(20), state.ReceivedBytes)
}

func TestMonthlyAccumulatorRestore(t *testing.T) {
	now := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	t.Run("current month", func(t *testing.T) {
		acc := NewMonthlyAccumulator(now)
		ok := acc.Restore(UsageState{Month: "2025-10", SentBytes: 42, ReceivedBytes: 7}, now)
		assert.True(t, ok)
		assert.Equal(t, uint64(42), acc.Snapshot().SentBytes)
	})

	t.Run("stale month", func(t *testing.T) {
		acc := NewMonthlyAccumulator(now)
		ok := acc.Restore(UsageState{Month: "2025-09", SentBytes: 42, ReceivedBytes: 7}, now)
		assert.False(t, ok)
		// 过期状态不恢复，保持从零开始
		state := acc.Snapshot()
		assert.Equal(t, "2025-10", state.Month)
		assert.Zero(t, state.SentBytes)
	})
}

func TestMonthlyAccumulatorSnapshotIsCopy(t *testing.T) {
	now := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	acc := NewMonthlyAccumulator(now)
	acc.Add(100, 100, now)

	snap := acc.Snapshot()
	snap.SentBytes = 99999

	assert.Equal(t, uint64(100), acc.Snapshot().SentBytes)
}
