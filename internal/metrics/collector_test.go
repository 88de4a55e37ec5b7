package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpTurn, 10*time.Millisecond)
	c.RecordTiming(OpTurn, 30*time.Millisecond)
	c.RecordFailure(OpTurn, 20*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Turn)
	assert.Equal(t, int64(3), snap.Turn.Count)
	assert.Equal(t, int64(1), snap.Turn.Failures)
	assert.Equal(t, int64(10), snap.Turn.MinTimeMs)
	assert.Equal(t, int64(30), snap.Turn.MaxTimeMs)
	assert.Equal(t, int64(60), snap.Turn.TotalTimeMs)
	assert.InDelta(t, 20.0, snap.Turn.AvgTimeMs, 0.001)
}

func TestCollectorEmptyOpsAreNil(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpMailDispatch, time.Millisecond)

	snap := c.Snapshot()
	assert.Nil(t, snap.Turn)
	assert.Nil(t, snap.LLMGenerate)
	assert.NotNil(t, snap.MailDispatch)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpDBQuery, time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	snap := c.Snapshot()
	require.NotNil(t, snap.DBQuery)
	assert.Equal(t, int64(800), snap.DBQuery.Count)
}
