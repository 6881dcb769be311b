package streak

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/robfig/cron"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// TestNext verifies each streak transition.
func TestNext(t *testing.T) {
	today := date(2026, 10, 12)
	tests := []struct {
		name    string
		last    *time.Time
		current int
		want    int
	}{
		{"first workout", nil, 0, 1},
		{"same day", ptr(today), 4, 4},
		{"same day zero streak", ptr(today), 0, 1},
		{"next day", ptr(date(2026, 10, 11)), 4, 5},
		{"gap of two", ptr(date(2026, 10, 10)), 4, 1},
		{"long gap", ptr(date(2026, 9, 30)), 2, 1},
		{"backdated", ptr(date(2026, 10, 13)), 3, 3},
	}
	for _, tt := range tests {
		if got := Next(tt.last, today, tt.current); got != tt.want {
			t.Errorf("%s: Next = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// TestNextIgnoresTimeOfDay verifies late-evening and early-morning sessions on
// consecutive dates extend the streak.
func TestNextIgnoresTimeOfDay(t *testing.T) {
	last := time.Date(2026, 10, 11, 23, 50, 0, 0, time.UTC)
	now := time.Date(2026, 10, 12, 0, 10, 0, 0, time.UTC)
	if got := Next(&last, now, 1); got != 2 {
		t.Errorf("Next = %d, want 2", got)
	}
}

// TestIsStale verifies streaks lapse only after a full missed day.
func TestIsStale(t *testing.T) {
	today := date(2026, 10, 12)
	if IsStale(date(2026, 10, 11), today) {
		t.Error("yesterday's workout should keep the streak")
	}
	if !IsStale(date(2026, 10, 10), today) {
		t.Error("two days ago should be stale")
	}
}

type fakeResetter struct {
	gotDay time.Time
	n      int64
	err    error
}

func (f *fakeResetter) ResetStaleStreaks(_ context.Context, today time.Time) (int64, error) {
	f.gotDay = today
	return f.n, f.err
}

// TestReset verifies the reset pass passes today's date and surfaces errors.
func TestReset(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fakeResetter{n: 3}
	now := time.Date(2026, 10, 12, 0, 5, 0, 0, time.UTC)
	if err := Reset(context.Background(), f, now, log); err != nil {
		t.Fatal(err)
	}
	if !f.gotDay.Equal(date(2026, 10, 12)) {
		t.Errorf("today = %v, want 2026-10-12", f.gotDay)
	}

	f.err = errors.New("db down")
	if err := Reset(context.Background(), f, now, log); err == nil {
		t.Error("expected error")
	}
}

// TestSchedule verifies a valid cron expression is accepted and a bad one rejected.
func TestSchedule(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cron.New()
	if err := Schedule(c, "0 5 0 * * *", &fakeResetter{}, log); err != nil {
		t.Errorf("Schedule: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(c.Entries()))
	}
	if err := Schedule(c, "not a spec", &fakeResetter{}, log); err == nil {
		t.Error("expected error for bad spec")
	}
}
