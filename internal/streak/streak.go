// Package streak maintains consecutive-day workout streaks.
package streak

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron"
)

// Day truncates t to its calendar date in t's location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Next returns the current streak after a workout on date, given the previous
// workout date (nil if none) and the current streak.
//
//	no previous workout      -> 1
//	same day (or earlier)    -> unchanged
//	the following day        -> current + 1
//	a longer gap             -> 1
func Next(last *time.Time, date time.Time, current int) int {
	if last == nil {
		return 1
	}
	switch gap := DaysBetween(*last, date); {
	case gap <= 0:
		if current < 1 {
			return 1
		}
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// IsStale reports whether a streak ending on last has lapsed by today, i.e.
// neither today nor yesterday had a workout.
func IsStale(last time.Time, today time.Time) bool {
	return DaysBetween(last, today) > 1
}

// Resetter zeroes lapsed streaks. Implemented by *storage.DB.
type Resetter interface {
	ResetStaleStreaks(ctx context.Context, today time.Time) (int64, error)
}

// Reset runs one reset pass.
func Reset(ctx context.Context, r Resetter, now time.Time, log *slog.Logger) error {
	n, err := r.ResetStaleStreaks(ctx, Day(now))
	if err != nil {
		return fmt.Errorf("resetting stale streaks: %w", err)
	}
	log.Info("stale streaks reset", "users", n)
	return nil
}

// Schedule registers the nightly reset on c using a six-field cron spec.
func Schedule(c *cron.Cron, spec string, r Resetter, log *slog.Logger) error {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := Reset(ctx, r, time.Now(), log); err != nil {
			log.Error("streak reset failed", "error", err)
		}
	})
}
