package scheduler

import "time"

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDueInterval sets how often the due-notification sweep runs.
func WithDueInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.dueInterval = d
		}
	}
}

// WithRetryInterval sets how often the failed-notification retry sweep runs.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.retryInterval = d
		}
	}
}

// WithCleanupHour sets the local hour (0-23) of the daily inbox cleanup.
func WithCleanupHour(hour int) Option {
	return func(s *Scheduler) {
		if hour >= 0 && hour < 24 {
			s.cleanupHour = hour
		}
	}
}
