package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// StreakPool recomputes team streaks in the background. A team is queued at
// most once at a time.
type StreakPool struct {
	queue    chan string
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	enqueued sync.Map
	streaks  *StreakService
	timeout  time.Duration
	logger   *log.Entry
}

func NewStreakPool(streaks *StreakService, workers, queueSize int, timeout time.Duration, logger *log.Logger) *StreakPool {
	p := &StreakPool{
		queue:   make(chan string, queueSize),
		streaks: streaks,
		timeout: timeout,
		logger:  logger.WithField("component", "services.streak_pool"),
	}

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

// Enqueue reports false when the team is already queued or the queue is full.
func (p *StreakPool) Enqueue(teamID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || !p.trackEnqueued(teamID) {
		return false
	}

	select {
	case p.queue <- teamID:
		return true
	default:
		p.untrackEnqueued(teamID)
		p.logger.WithField("team_id", teamID).Warn("streak queue full")
		return false
	}
}

func (p *StreakPool) worker(workerID int) {
	defer p.wg.Done()

	logger := p.logger.WithField("worker", workerID)
	logger.Debug("worker started")

	for teamID := range p.queue {
		p.handle(logger, teamID)
	}

	logger.Debug("worker stopped")
}

func (p *StreakPool) handle(logger *log.Entry, teamID string) {
	p.untrackEnqueued(teamID)

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	streak, err := p.streaks.Recompute(ctx, teamID)
	if err != nil {
		logger.WithError(err).WithField("team_id", teamID).Error("streak recompute failed")
		return
	}
	logger.WithFields(log.Fields{
		"team_id": teamID,
		"current": streak.CurrentStreak,
	}).Debug("streak recomputed")
}

func (p *StreakPool) trackEnqueued(teamID string) bool {
	_, loaded := p.enqueued.LoadOrStore(teamID, struct{}{})
	return !loaded
}

func (p *StreakPool) untrackEnqueued(teamID string) {
	p.enqueued.Delete(teamID)
}

// Shutdown drains the queue and waits for the workers, or until ctx ends.
func (p *StreakPool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("streak pool shut down cleanly")
	case <-ctx.Done():
		p.logger.Warn("streak pool shutdown timed out")
	}
}
