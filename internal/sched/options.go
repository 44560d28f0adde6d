package sched

import "go.uber.org/zap"

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger routes the scheduler's diagnostics to l. Without it the
// scheduler logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l.Named("sched")
		}
	}
}

// WithObserver is Subscribe at construction time.
func WithObserver(fn func(StatusEvent)) Option {
	return func(s *Scheduler) { s.Subscribe(fn) }
}
