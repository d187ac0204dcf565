package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// Dispatcher is the part of the dispatch orchestrator the scheduler drives.
type Dispatcher interface {
	Dispatch(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
}

// InboxCleaner removes expired inbox entries.
type InboxCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic sweeps: dispatching due notifications,
// requeueing retryable failures and cleaning up expired inbox entries.
// Each sweep is guarded so a slow run is never overlapped by the next tick.
type Scheduler struct {
	store      notification.Store
	dispatcher Dispatcher
	inbox      InboxCleaner
	log        *slog.Logger

	dueInterval   time.Duration
	retryInterval time.Duration
	cleanupHour   int

	dueMu     sync.Mutex
	retryMu   sync.Mutex
	cleanupMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler. The inbox cleaner is optional; without one the
// cleanup sweep is skipped.
func New(store notification.Store, dispatcher Dispatcher, inbox InboxCleaner, log *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:         store,
		dispatcher:    dispatcher,
		inbox:         inbox,
		log:           log.With(logger.Component("scheduler")),
		dueInterval:   30 * time.Second,
		retryInterval: 5 * time.Minute,
		cleanupHour:   2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the sweep loops in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errors.New("scheduler already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.tickLoop(ctx, s.dueInterval, func() { s.DispatchDue(ctx) })
	go s.tickLoop(ctx, s.retryInterval, func() { s.RetryFailed(ctx) })

	if s.inbox != nil {
		s.wg.Add(1)
		go s.cleanupLoop(ctx)
	}

	s.log.Info("scheduler started",
		slog.Duration("due_interval", s.dueInterval),
		slog.Duration("retry_interval", s.retryInterval),
	)
	return nil
}

// Stop cancels the loops and waits for in-flight sweeps to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return errors.New("scheduler not started")
	}
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.log.Info("scheduler stopped")
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled. Suitable for
// errgroup-style supervision.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		if err := s.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return s.Stop()
	}
}

func (s *Scheduler) tickLoop(ctx context.Context, interval time.Duration, sweep func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// DispatchDue sweeps PENDING notifications whose scheduled time has passed
// and dispatches them in priority order. Returns how many were picked up.
// If the previous sweep is still running the call is skipped.
func (s *Scheduler) DispatchDue(ctx context.Context) int {
	if !s.dueMu.TryLock() {
		s.log.Debug("due sweep still running, skipping tick")
		return 0
	}
	defer s.dueMu.Unlock()

	due, err := s.store.ListDue(ctx, time.Now())
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list due notifications", logger.Error(err))
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	s.log.InfoContext(ctx, "processing scheduled notifications", slog.Int("count", len(due)))

	for _, n := range due {
		if ctx.Err() != nil {
			return len(due)
		}
		if _, err := s.dispatcher.Dispatch(ctx, n.ID); err != nil {
			s.log.ErrorContext(ctx, "failed to dispatch scheduled notification",
				logger.NotificationID(n.ID),
				logger.Error(err),
			)
		}
	}
	return len(due)
}

// RetryFailed sweeps FAILED notifications that still have attempts left,
// requeues each to PENDING and dispatches it again. Returns how many were
// requeued. If the previous sweep is still running the call is skipped.
func (s *Scheduler) RetryFailed(ctx context.Context) int {
	if !s.retryMu.TryLock() {
		s.log.Debug("retry sweep still running, skipping tick")
		return 0
	}
	defer s.retryMu.Unlock()

	retryable, err := s.store.ListRetryable(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list retryable notifications", logger.Error(err))
		return 0
	}
	if len(retryable) == 0 {
		return 0
	}

	s.log.InfoContext(ctx, "retrying failed notifications", slog.Int("count", len(retryable)))

	var requeued int
	for _, n := range retryable {
		if ctx.Err() != nil {
			return requeued
		}

		// Requeue first so the dispatcher's claim sees PENDING. A lost race
		// with a concurrent transition just skips this notification.
		if _, err := s.store.Transition(ctx, n.ID, notification.StatusPending, notification.StatusFailed); err != nil {
			if !errors.Is(err, notification.ErrInvalidTransition) {
				s.log.ErrorContext(ctx, "failed to requeue notification",
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
			}
			continue
		}
		requeued++

		if _, err := s.dispatcher.Dispatch(ctx, n.ID); err != nil {
			s.log.ErrorContext(ctx, "failed to dispatch retried notification",
				logger.NotificationID(n.ID),
				logger.Error(err),
			)
		}
	}
	return requeued
}

// CleanupInbox removes expired inbox entries. Returns how many were removed.
func (s *Scheduler) CleanupInbox(ctx context.Context) int64 {
	if s.inbox == nil {
		return 0
	}
	if !s.cleanupMu.TryLock() {
		s.log.Debug("cleanup sweep still running, skipping")
		return 0
	}
	defer s.cleanupMu.Unlock()

	count, err := s.inbox.CleanupExpired(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to clean up inbox", logger.Error(err))
		return 0
	}
	return count
}

func (s *Scheduler) cleanupLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(untilNextHour(time.Now(), s.cleanupHour))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.CleanupInbox(ctx)
		}
	}
}

// untilNextHour returns the duration until the next occurrence of the given
// local hour.
func untilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
