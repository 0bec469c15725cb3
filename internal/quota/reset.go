package quota

import (
	"context"
	"time"

	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

// ResetScheduler triggers Tracker.Reset once per day at a fixed hour.
type ResetScheduler struct {
	tracker *Tracker
	hour    int
	now     func() time.Time
}

func NewResetScheduler(tracker *Tracker, hour int) *ResetScheduler {
	return &ResetScheduler{
		tracker: tracker,
		hour:    hour,
		now:     time.Now,
	}
}

// Run blocks until ctx is cancelled, firing a reset at each daily tick.
func (s *ResetScheduler) Run(ctx context.Context) {
	for {
		next := NextReset(s.now(), s.hour)
		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.tracker.Reset(ctx); err != nil {
				logx.Error().Err(err).Msg("scheduled quota reset failed")
			}
		}
	}
}

// NextReset returns the first instant strictly after now whose local clock
// reads the given hour.
func NextReset(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
