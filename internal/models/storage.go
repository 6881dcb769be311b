package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRow is a row of the users table.
type UserRow struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	JoinDate     time.Time  `json:"join_date"`
	LastLogin    *time.Time `json:"last_login"`
	IsActive     bool       `json:"-"`
}

// PreferencesRow is a row of the user_preferences table. String preferences
// use "auto" for "let the generator decide".
type PreferencesRow struct {
	UserID                   int     `json:"-"`
	SplitType                string  `json:"split_type"`
	DifficultyLevel          string  `json:"difficulty_level"`
	DayOverride              string  `json:"day_override"`
	PreferredWorkoutDuration int     `json:"preferred_workout_duration"`
	GeminiAPIKey             *string `json:"-"`
	RepsStyle                string  `json:"reps_style"`
	RepsMin                  int     `json:"reps_min"`
	RepsMax                  int     `json:"reps_max"`
	ExercisesPerMuscle       string  `json:"exercises_per_muscle"`
	SetsPerExercise          string  `json:"sets_per_exercise"`
	RestSeconds              string  `json:"rest_seconds"`
	IncludeBodyweight        bool    `json:"include_bodyweight"`
	FocusedMuscle            string  `json:"focused_muscle"`
}

// HasGeminiKey reports whether the user stored a personal API key.
func (p PreferencesRow) HasGeminiKey() bool {
	return p.GeminiAPIKey != nil && *p.GeminiAPIKey != ""
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	SplitType          *string `json:"split_type"`
	DifficultyLevel    *string `json:"difficulty_level"`
	DayOverride        *string `json:"day_override"`
	GeminiAPIKey       *string `json:"gemini_api_key"`
	RepsStyle          *string `json:"reps_style"`
	RepsMin            *int    `json:"reps_min"`
	RepsMax            *int    `json:"reps_max"`
	ExercisesPerMuscle *string `json:"exercises_per_muscle"`
	SetsPerExercise    *string `json:"sets_per_exercise"`
	RestSeconds        *string `json:"rest_seconds"`
	IncludeBodyweight  *bool   `json:"include_bodyweight"`
	FocusedMuscle      *string `json:"focused_muscle"`
}

// MachineRow is an active row of the user_machines table.
type MachineRow struct {
	ID          int       `json:"id"`
	MachineName string    `json:"machine_name"`
	AddedDate   time.Time `json:"added_date"`
}

// Completion status values for workouts.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
)

// WorkoutRow is a row of the workouts table. Content holds the generated text.
type WorkoutRow struct {
	ID               uuid.UUID `json:"id"`
	UserID           int       `json:"-"`
	WorkoutType      string    `json:"workout_type"`
	WorkoutDate      time.Time `json:"workout_date"`
	DifficultyLevel  string    `json:"difficulty_level"`
	SplitType        string    `json:"split_type"`
	Content          string    `json:"workout_content"`
	DurationMinutes  *int      `json:"duration_minutes"`
	CaloriesBurned   *int      `json:"calories_burned"`
	CompletionStatus string    `json:"completion_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// WorkoutExerciseRow is a row of the workout_exercises table.
type WorkoutExerciseRow struct {
	WorkoutID    uuid.UUID `json:"workout_id"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	RepsMin      int       `json:"reps_min"`
	RepsMax      *int      `json:"reps_max"`
	RestSeconds  *int      `json:"rest_seconds"`
	Notes        *string   `json:"notes"`
	OrderIndex   int       `json:"order_index"`
}

// UserStatsRow is a row of the user_stats table.
type UserStatsRow struct {
	TotalWorkouts           int        `json:"total_workouts"`
	CurrentStreakDays       int        `json:"current_streak_days"`
	LongestStreakDays       int        `json:"longest_streak_days"`
	TotalWorkoutTimeMinutes int        `json:"total_workout_time_minutes"`
	TotalCaloriesBurned     int        `json:"total_calories_burned"`
	LastWorkoutDate         *time.Time `json:"last_workout_date"`
	WeightKg                *float64   `json:"weight_kg"`
	HeightCm                *int       `json:"height_cm"`
	FitnessLevel            string     `json:"fitness_level"`
}

// StatsUpdate is a partial update of user_stats; nil fields keep their value.
type StatsUpdate struct {
	CurrentStreakDays *int     `json:"current_streak_days"`
	LongestStreakDays *int     `json:"longest_streak_days"`
	WeightKg          *float64 `json:"weight_kg"`
	HeightCm          *int     `json:"height_cm"`
	FitnessLevel      *string  `json:"fitness_level"`
}

// Profile is a user joined with preferences and stats.
type Profile struct {
	UserRow
	Preferences PreferencesRow `json:"preferences"`
	Stats       UserStatsRow   `json:"stats"`
}

// UsageLogRow is a row of the api_usage_logs table.
type UsageLogRow struct {
	UserID         *int
	Endpoint       string
	Method         string
	StatusCode     int
	ResponseTimeMs int
	IPAddress      string
	UserAgent      string
}
