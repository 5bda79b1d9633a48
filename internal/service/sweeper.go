package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper is the slice of SessionService the scheduler needs.
type Sweeper interface {
	Sweep(ctx context.Context, trainerID string) (int, error)
}

// SweepScheduler runs one periodic sweep per signed-in trainer. Each task
// only touches its own trainer's sessions.
type SweepScheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	tasks  map[string]*sweepTask
	wg     sync.WaitGroup
	closed bool // set by StopAll; Start is a no-op afterwards
}

type sweepTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweepScheduler sweeps every interval, defaulting to one minute.
func NewSweepScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *SweepScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepScheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		tasks:    make(map[string]*sweepTask),
	}
}

// Start begins sweeping for trainerID. Starting a running task, or starting
// after StopAll, is a no-op.
func (s *SweepScheduler) Start(trainerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, ok := s.tasks[trainerID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &sweepTask{cancel: cancel, done: make(chan struct{})}
	s.tasks[trainerID] = task
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(task.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.sweeper.Sweep(ctx, trainerID); err != nil && ctx.Err() == nil {
					s.logger.Error("Periodic sweep failed", zap.String("trainer_id", trainerID), zap.Error(err))
				}
			}
		}
	}()

	s.logger.Debug("Sweep task started", zap.String("trainer_id", trainerID))
}

// Stop cancels the trainer's task and waits for it to exit.
func (s *SweepScheduler) Stop(trainerID string) {
	s.mu.Lock()
	task, ok := s.tasks[trainerID]
	delete(s.tasks, trainerID)
	s.mu.Unlock()

	if !ok {
		return
	}
	task.cancel()
	<-task.done
	s.logger.Debug("Sweep task stopped", zap.String("trainer_id", trainerID))
}

// StopAll cancels every task, waits for them to exit and refuses new ones.
func (s *SweepScheduler) StopAll() {
	s.mu.Lock()
	s.closed = true
	for id, task := range s.tasks {
		task.cancel()
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Running reports whether a task exists for trainerID.
func (s *SweepScheduler) Running(trainerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[trainerID]
	return ok
}
