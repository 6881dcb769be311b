package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/streak"
)

func statsColumns(alias string) string {
	cols := []string{
		"total_workouts", "current_streak_days", "longest_streak_days",
		"total_workout_time_minutes", "total_calories_burned", "last_workout_date",
		"weight_kg::float8", "height_cm", "fitness_level",
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func statsDest(s *models.UserStatsRow) []any {
	return []any{
		&s.TotalWorkouts, &s.CurrentStreakDays, &s.LongestStreakDays,
		&s.TotalWorkoutTimeMinutes, &s.TotalCaloriesBurned, &s.LastWorkoutDate,
		&s.WeightKg, &s.HeightCm, &s.FitnessLevel,
	}
}

// GetStats returns the user's stats row.
func (db *DB) GetStats(ctx context.Context, userID int) (*models.UserStatsRow, error) {
	var s models.UserStatsRow
	err := db.Pool.QueryRow(ctx,
		`SELECT `+statsColumns("s")+` FROM user_stats s WHERE s.user_id = $1`,
		userID).Scan(statsDest(&s)...)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", classify(err))
	}
	return &s, nil
}

// UpdateStats applies a partial update. Nil fields keep their value.
func (db *DB) UpdateStats(ctx context.Context, userID int, u models.StatsUpdate) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE user_stats SET
			current_streak_days = COALESCE($2, current_streak_days),
			longest_streak_days = COALESCE($3, longest_streak_days),
			weight_kg           = COALESCE($4, weight_kg),
			height_cm           = COALESCE($5, height_cm),
			fitness_level       = COALESCE($6, fitness_level),
			updated_at          = NOW()
		WHERE user_id = $1
	`, userID, u.CurrentStreakDays, u.LongestStreakDays, u.WeightKg, u.HeightCm, u.FitnessLevel)
	if err != nil {
		return fmt.Errorf("updating stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating stats: %w", ErrNotFound)
	}
	return nil
}

// recordWorkoutStats folds a saved workout into user_stats. The row is locked
// so concurrent saves cannot lose a streak increment.
func recordWorkoutStats(ctx context.Context, tx pgx.Tx, w models.WorkoutRow) error {
	var current, longest int
	var last *time.Time
	err := tx.QueryRow(ctx, `
		SELECT current_streak_days, longest_streak_days, last_workout_date
		FROM user_stats WHERE user_id = $1
		FOR UPDATE
	`, w.UserID).Scan(&current, &longest, &last)
	if err != nil {
		return fmt.Errorf("locking stats: %w", classify(err))
	}

	current = streak.Next(last, w.WorkoutDate, current)
	longest = max(longest, current)

	_, err = tx.Exec(ctx, `
		UPDATE user_stats SET
			total_workouts             = total_workouts + 1,
			total_workout_time_minutes = total_workout_time_minutes + COALESCE($2, 0),
			total_calories_burned      = total_calories_burned + COALESCE($3, 0),
			last_workout_date          = GREATEST(last_workout_date, $4::date),
			current_streak_days        = $5,
			longest_streak_days        = $6,
			updated_at                 = NOW()
		WHERE user_id = $1
	`, w.UserID, w.DurationMinutes, w.CaloriesBurned, w.WorkoutDate, current, longest)
	if err != nil {
		return fmt.Errorf("updating stats for workout: %w", err)
	}
	return nil
}

// ResetStaleStreaks zeroes current streaks whose last workout is before
// yesterday. Returns the number of users affected.
func (db *DB) ResetStaleStreaks(ctx context.Context, today time.Time) (int64, error) {
	yesterday := streak.Day(today).AddDate(0, 0, -1)
	tag, err := db.Pool.Exec(ctx, `
		UPDATE user_stats SET current_streak_days = 0, updated_at = NOW()
		WHERE current_streak_days > 0
		  AND (last_workout_date IS NULL OR last_workout_date < $1::date)
	`, yesterday)
	if err != nil {
		return 0, fmt.Errorf("resetting streaks: %w", err)
	}
	return tag.RowsAffected(), nil
}
