package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/models"
)

func preferenceColumns(alias string) string {
	cols := []string{
		"split_type", "difficulty_level", "day_override", "preferred_workout_duration",
		"gemini_api_key", "reps_style", "reps_min", "reps_max", "exercises_per_muscle",
		"sets_per_exercise", "rest_seconds", "include_bodyweight", "focused_muscle",
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func preferenceDest(p *models.PreferencesRow) []any {
	return []any{
		&p.SplitType, &p.DifficultyLevel, &p.DayOverride, &p.PreferredWorkoutDuration,
		&p.GeminiAPIKey, &p.RepsStyle, &p.RepsMin, &p.RepsMax, &p.ExercisesPerMuscle,
		&p.SetsPerExercise, &p.RestSeconds, &p.IncludeBodyweight, &p.FocusedMuscle,
	}
}

// GetPreferences returns the user's preferences.
func (db *DB) GetPreferences(ctx context.Context, userID int) (*models.PreferencesRow, error) {
	p := models.PreferencesRow{UserID: userID}
	err := db.Pool.QueryRow(ctx,
		`SELECT `+preferenceColumns("p")+` FROM user_preferences p WHERE p.user_id = $1`,
		userID).Scan(preferenceDest(&p)...)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", classify(err))
	}
	return &p, nil
}

// UpdatePreferences applies a partial update. Nil fields keep their value.
func (db *DB) UpdatePreferences(ctx context.Context, userID int, u models.PreferencesUpdate) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE user_preferences SET
			split_type           = COALESCE($2, split_type),
			difficulty_level     = COALESCE($3, difficulty_level),
			day_override         = COALESCE($4, day_override),
			gemini_api_key       = COALESCE($5, gemini_api_key),
			reps_style           = COALESCE($6, reps_style),
			reps_min             = COALESCE($7, reps_min),
			reps_max             = COALESCE($8, reps_max),
			exercises_per_muscle = COALESCE($9, exercises_per_muscle),
			sets_per_exercise    = COALESCE($10, sets_per_exercise),
			rest_seconds         = COALESCE($11, rest_seconds),
			include_bodyweight   = COALESCE($12, include_bodyweight),
			focused_muscle       = COALESCE($13, focused_muscle),
			updated_at           = NOW()
		WHERE user_id = $1
	`, userID, u.SplitType, u.DifficultyLevel, u.DayOverride, u.GeminiAPIKey,
		u.RepsStyle, u.RepsMin, u.RepsMax, u.ExercisesPerMuscle, u.SetsPerExercise,
		u.RestSeconds, u.IncludeBodyweight, u.FocusedMuscle)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating preferences: %w", ErrNotFound)
	}
	return nil
}
