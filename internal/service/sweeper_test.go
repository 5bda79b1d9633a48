package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingSweeper) Sweep(_ context.Context, trainerID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[trainerID]++
	return 0, nil
}

func (c *countingSweeper) count(trainerID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[trainerID]
}

func TestSweepSchedulerLifecycle(t *testing.T) {
	sw := &countingSweeper{calls: make(map[string]int)}
	s := NewSweepScheduler(sw, 5*time.Millisecond, zap.NewNop())

	s.Start("t1")
	s.Start("t1")
	s.Start("t2")
	assert.True(t, s.Running("t1"))

	assert.Eventually(t, func() bool { return sw.count("t1") >= 2 && sw.count("t2") >= 2 }, time.Second, time.Millisecond)

	s.Stop("t1")
	assert.False(t, s.Running("t1"))
	stopped := sw.count("t1")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, sw.count("t1"))

	s.StopAll()
	assert.False(t, s.Running("t2"))
	s.Stop("t2")
}

func TestSweepSchedulerRefusesStartAfterStopAll(t *testing.T) {
	sw := &countingSweeper{calls: make(map[string]int)}
	s := NewSweepScheduler(sw, time.Millisecond, zap.NewNop())

	s.Start("t1")
	s.StopAll()

	// A login that finishes while the server drains.
	s.Start("t2")
	assert.False(t, s.Running("t2"))
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, sw.count("t2"))
}
