package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/milena-kos/good-morning/internal/domain"
	"github.com/milena-kos/good-morning/internal/store"
)

// Sender is the minimal interface the scheduler needs to deliver a reminder.
// telegram.Router implements this (method: SendMessage).
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler keeps one deferred-delivery task per pending reminder. Each task
// waits on its own timer until the fire instant, delivers the message, and
// removes the persisted row whether or not delivery worked (at-most-once).
type Scheduler struct {
	repo   store.Repo
	log    *zap.Logger
	sender Sender

	mu    sync.Mutex
	tasks map[string]context.CancelFunc

	wg     conc.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(repo store.Repo, log *zap.Logger, sender Sender) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		repo:   repo,
		log:    log,
		sender: sender,
		tasks:  make(map[string]context.CancelFunc),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule persists a new reminder and arms its delivery task. An instant
// already in the past fires immediately; that is graceful degradation, not
// an error.
func (s *Scheduler) Schedule(r domain.Reminder) error {
	if err := s.repo.AddReminder(r); err != nil {
		return err
	}
	s.arm(r)
	s.log.Debug("reminder scheduled",
		zap.String("id", r.ID),
		zap.Int64("chatID", r.ChatID),
		zap.Time("fireAt", r.FireAt),
	)
	return nil
}

// RestoreAll arms one task per persisted row without re-persisting anything.
// Rows that came due while the process was down fire immediately (catch-up
// delivery).
func (s *Scheduler) RestoreAll() error {
	rows, err := s.repo.Reminders()
	if err != nil {
		return err
	}
	for _, r := range rows {
		s.arm(r)
	}
	s.log.Info("reminders restored", zap.Int("count", len(rows)))
	return nil
}

// Cancel stops a pending task and drops its persisted row. Unknown ids are a
// no-op. No user command exposes this yet.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	cancelTask, ok := s.tasks[id]
	if ok {
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	if ok {
		cancelTask()
	}
	return s.repo.RemoveReminder(id)
}

// Pending reports how many delivery tasks are currently armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels all tasks and waits for their goroutines. Rows stay persisted
// and are re-armed on the next start.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) arm(r domain.Reminder) {
	ctx, cancelTask := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.tasks[r.ID] = cancelTask
	s.mu.Unlock()

	s.wg.Go(func() {
		defer func() {
			cancelTask()
			s.mu.Lock()
			delete(s.tasks, r.ID)
			s.mu.Unlock()
		}()

		timer := time.NewTimer(time.Until(r.FireAt))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// The row is consumed even when delivery fails: no retries.
		if err := s.sender.SendMessage(r.ChatID, r.Message); err != nil {
			s.log.Warn("reminder delivery failed",
				zap.Error(err), zap.Int64("chatID", r.ChatID))
		}
		if err := s.repo.RemoveReminder(r.ID); err != nil {
			s.log.Error("remove fired reminder failed",
				zap.Error(err), zap.String("id", r.ID))
		}
	})
}
