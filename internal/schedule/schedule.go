// Package schedule resolves which workout a user should do on a given weekday,
// either from their weekly split or from a one-off day override.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput is returned for unknown split keys, unknown override keys
// and out-of-range weekday indices. These are integration bugs, not bad user data.
var ErrInvalidInput = errors.New("invalid schedule input")

// Auto is the override selection meaning "follow the weekly split".
const Auto = "auto"

// RestType is the workout type that means no workout should be generated.
const RestType = "Rest"

// Split identifies a weekly schedule.
type Split string

const (
	SplitUpperLower   Split = "upper-lower"
	SplitPushPullLegs Split = "push-pull-legs"
	SplitFullBody     Split = "full-body"
	SplitBro          Split = "bro-split"
)

// Config is a weekly schedule: one day label per weekday (Sunday first) and a
// focus description for every label used.
type Config struct {
	Pattern [7]string
	Focuses map[string]string
}

// ResolvedDay is the outcome of resolution for a single day.
type ResolvedDay struct {
	WorkoutType  string `json:"workout_type"`
	WorkoutFocus string `json:"workout_focus"`
}

// IsRest reports whether no workout should be generated.
func (d ResolvedDay) IsRest() bool {
	return d.WorkoutType == RestType
}

// Resolve maps a weekday to a workout type and focus. A non-auto override wins
// over the split entirely; otherwise the split pattern is indexed by weekday.
func Resolve(configs map[Split]Config, overrides map[string]ResolvedDay, split Split, override string, weekday int) (ResolvedDay, error) {
	if override != Auto {
		day, ok := overrides[override]
		if !ok {
			return ResolvedDay{}, fmt.Errorf("%w: unknown day override %q", ErrInvalidInput, override)
		}
		return day, nil
	}

	cfg, ok := configs[split]
	if !ok {
		return ResolvedDay{}, fmt.Errorf("%w: unknown split %q", ErrInvalidInput, split)
	}
	if weekday < 0 || weekday >= len(cfg.Pattern) {
		return ResolvedDay{}, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidInput, weekday)
	}

	label := cfg.Pattern[weekday]
	focus, ok := cfg.Focuses[label]
	if !ok {
		return ResolvedDay{}, fmt.Errorf("%w: split %q has no focus for %q", ErrInvalidInput, split, label)
	}
	return ResolvedDay{WorkoutType: label, WorkoutFocus: focus}, nil
}

// Today resolves against the built-in tables for the weekday of t.
func Today(split Split, override string, t time.Time) (ResolvedDay, error) {
	return Resolve(Splits, Overrides, split, override, int(t.Weekday()))
}

// Validate checks that every label in every pattern has a focus entry and that
// no override uses the reserved Auto key.
func Validate(configs map[Split]Config, overrides map[string]ResolvedDay) error {
	for key, cfg := range configs {
		for i, label := range cfg.Pattern {
			if label == "" {
				return fmt.Errorf("split %q: empty label at weekday %d", key, i)
			}
			if _, ok := cfg.Focuses[label]; !ok {
				return fmt.Errorf("split %q: label %q has no focus", key, label)
			}
		}
	}
	if _, ok := overrides[Auto]; ok {
		return fmt.Errorf("override key %q is reserved", Auto)
	}
	return nil
}

// IsValidSplit reports whether s is a key of the built-in split table.
func IsValidSplit(s string) bool {
	_, ok := Splits[Split(s)]
	return ok
}

// IsValidOverride reports whether s is Auto or a key of the built-in override table.
func IsValidOverride(s string) bool {
	if s == Auto {
		return true
	}
	_, ok := Overrides[s]
	return ok
}

// DayName returns the English weekday name for a Sunday-first index.
func DayName(weekday int) string {
	return time.Weekday(weekday).String()
}
