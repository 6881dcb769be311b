package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/workout"
)

const maxExerciseName = 100

// SaveWorkout inserts a workout and its exercises, and folds it into the
// user's stats (totals, last workout date, streaks) in one transaction.
// A zero row.ID is replaced with a new UUID. Returns the stored ID.
func (db *DB) SaveWorkout(ctx context.Context, row models.WorkoutRow, exercises []models.WorkoutExerciseRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CompletionStatus == "" {
		row.CompletionStatus = models.StatusPlanned
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO workouts (id, user_id, workout_type, workout_date, difficulty_level, split_type,
		                      workout_content, duration_minutes, calories_burned, completion_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, row.ID, row.UserID, row.WorkoutType, row.WorkoutDate, row.DifficultyLevel, row.SplitType,
		row.Content, row.DurationMinutes, row.CaloriesBurned, row.CompletionStatus)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout: %w", err)
	}

	for _, e := range exercises {
		_, err := tx.Exec(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_name, sets, reps_min, reps_max, rest_seconds, notes, order_index)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, row.ID, e.ExerciseName, e.Sets, e.RepsMin, e.RepsMax, e.RestSeconds, e.Notes, e.OrderIndex)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting exercise %q: %w", e.ExerciseName, err)
		}
	}

	if err := recordWorkoutStats(ctx, tx, row); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing workout: %w", err)
	}
	return row.ID, nil
}

const workoutColumns = `id, user_id, workout_type, workout_date, difficulty_level, split_type,
	workout_content, duration_minutes, calories_burned, completion_status::text, created_at`

// ListWorkouts returns the user's workouts, newest first.
func (db *DB) ListWorkouts(ctx context.Context, userID, limit, offset int) ([]models.WorkoutRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE user_id = $1
		ORDER BY workout_date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// GetWorkout returns one workout owned by the user.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)

	var w models.WorkoutRow
	if err := scanWorkout(row, &w); err != nil {
		return nil, fmt.Errorf("querying workout %s: %w", id, classify(err))
	}
	return &w, nil
}

// ListWorkoutExercises returns the stored structured exercises of a workout in order.
func (db *DB) ListWorkoutExercises(ctx context.Context, id uuid.UUID, userID int) ([]models.WorkoutExerciseRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT e.workout_id, e.exercise_name, e.sets, e.reps_min, e.reps_max, e.rest_seconds, e.notes, e.order_index
		FROM workout_exercises e
		JOIN workouts w ON w.id = e.workout_id
		WHERE e.workout_id = $1 AND w.user_id = $2
		ORDER BY e.order_index
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	result := []models.WorkoutExerciseRow{}
	for rows.Next() {
		var e models.WorkoutExerciseRow
		if err := rows.Scan(&e.WorkoutID, &e.ExerciseName, &e.Sets, &e.RepsMin, &e.RepsMax,
			&e.RestSeconds, &e.Notes, &e.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning workout exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func scanWorkout(row interface{ Scan(dest ...any) error }, w *models.WorkoutRow) error {
	return row.Scan(&w.ID, &w.UserID, &w.WorkoutType, &w.WorkoutDate, &w.DifficultyLevel, &w.SplitType,
		&w.Content, &w.DurationMinutes, &w.CaloriesBurned, &w.CompletionStatus, &w.CreatedAt)
}

func scanWorkoutRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.WorkoutRow, error) {
	result := []models.WorkoutRow{}
	for rows.Next() {
		var w models.WorkoutRow
		if err := scanWorkout(rows, &w); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// ExerciseRows converts parsed blocks into workout_exercises rows. Only items
// with both a name and decodable sets/reps are kept; order follows the text.
func ExerciseRows(blocks []workout.Block) []models.WorkoutExerciseRow {
	var out []models.WorkoutExerciseRow
	for _, b := range blocks {
		for _, it := range b.Items {
			if it.Name == "" {
				continue
			}
			sets, lo, hi, ok := it.Volume()
			if !ok {
				continue
			}
			row := models.WorkoutExerciseRow{
				ExerciseName: truncate(it.Name, maxExerciseName),
				Sets:         sets,
				RepsMin:      lo,
				OrderIndex:   len(out),
			}
			if hi != lo {
				row.RepsMax = &hi
			}
			if secs, ok := it.RestSeconds(); ok {
				row.RestSeconds = &secs
			}
			if it.Notes != "" {
				notes := it.Notes
				row.Notes = &notes
			}
			out = append(out, row)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
