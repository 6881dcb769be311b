package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/prompt"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/streak"
	"github.com/momentumx/momentumx/internal/workout"
)

// displayDate is the header date format of rendered workouts.
const displayDate = "Monday, January 2, 2006"

const maxListLimit = 100

var completionStatuses = []string{
	models.StatusPlanned, models.StatusInProgress, models.StatusCompleted, models.StatusSkipped,
}

type saveWorkoutRequest struct {
	WorkoutType      string `json:"workout_type"`
	WorkoutDate      string `json:"workout_date"`
	DifficultyLevel  string `json:"difficulty_level"`
	SplitType        string `json:"split_type"`
	Content          string `json:"workout_content"`
	DurationMinutes  *int   `json:"duration_minutes"`
	CaloriesBurned   *int   `json:"calories_burned"`
	CompletionStatus string `json:"completion_status"`
}

func (s *Server) handleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req saveWorkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.WorkoutType) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "workout_type and workout_content are required")
		return
	}
	if req.CompletionStatus != "" && !oneOf(req.CompletionStatus, completionStatuses) {
		writeError(w, http.StatusBadRequest, "completion_status must be one of "+strings.Join(completionStatuses, ", "))
		return
	}
	if (req.DurationMinutes != nil && *req.DurationMinutes < 0) || (req.CaloriesBurned != nil && *req.CaloriesBurned < 0) {
		writeError(w, http.StatusBadRequest, "duration_minutes and calories_burned must not be negative")
		return
	}

	date := streak.Day(s.now())
	if req.WorkoutDate != "" {
		d, err := time.Parse("2006-01-02", req.WorkoutDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "workout_date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	row := models.WorkoutRow{
		UserID:           uid,
		WorkoutType:      req.WorkoutType,
		WorkoutDate:      date,
		DifficultyLevel:  req.DifficultyLevel,
		SplitType:        req.SplitType,
		Content:          req.Content,
		DurationMinutes:  req.DurationMinutes,
		CaloriesBurned:   req.CaloriesBurned,
		CompletionStatus: req.CompletionStatus,
	}
	id, err := s.store.SaveWorkout(r.Context(), row, storage.ExerciseRows(workout.ParseText(req.Content)))
	if err != nil {
		s.log.Error("saving workout", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save workout")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Workout saved successfully", "workout_id": id})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	workouts, err := s.store.ListWorkouts(r.Context(), uid, min(limit, maxListLimit), offset)
	if err != nil {
		s.log.Error("listing workouts", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load workouts")
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

type generateResponse struct {
	WorkoutID   *uuid.UUID      `json:"workout_id,omitempty"`
	WorkoutType string          `json:"workout_type"`
	Focus       string          `json:"focus"`
	Rest        bool            `json:"rest"`
	Structured  bool            `json:"structured"`
	Meta        *workout.Meta   `json:"meta,omitempty"`
	Blocks      []workout.Block `json:"blocks,omitempty"`
	HTML        template.HTML   `json:"html"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	prefs, day, ok := s.resolveToday(w, r, uid)
	if !ok {
		return
	}
	now := s.now()

	if day.IsRest() {
		writeJSON(w, http.StatusOK, generateResponse{
			WorkoutType: day.WorkoutType,
			Focus:       day.WorkoutFocus,
			Rest:        true,
			HTML:        workout.RestDayHTML(now.Format(displayDate)),
		})
		return
	}

	machines, err := s.store.MachineNames(r.Context(), uid)
	if err != nil {
		s.log.Error("loading machines", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load machines")
		return
	}
	if len(machines) == 0 {
		writeError(w, http.StatusBadRequest, "Please add some machines first")
		return
	}
	if s.generators == nil {
		writeError(w, http.StatusServiceUnavailable, "Workout generation is not configured")
		return
	}
	var userKey string
	if prefs.HasGeminiKey() {
		userKey = *prefs.GeminiAPIKey
	}

	text, err := s.generators(userKey).Generate(r.Context(), prompt.Build(prompt.Options{
		WorkoutType:        day.WorkoutType,
		Focus:              day.WorkoutFocus,
		Difficulty:         prefs.DifficultyLevel,
		Machines:           machines,
		RepsStyle:          prefs.RepsStyle,
		RepsMin:            prefs.RepsMin,
		RepsMax:            prefs.RepsMax,
		ExercisesPerMuscle: prefs.ExercisesPerMuscle,
		SetsPerExercise:    prefs.SetsPerExercise,
		RestSeconds:        prefs.RestSeconds,
		IncludeBodyweight:  prefs.IncludeBodyweight,
		FocusedMuscle:      prefs.FocusedMuscle,
	}))
	if err != nil {
		s.log.Error("generating workout", "user_id", uid, "workout_type", day.WorkoutType, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to generate workout")
		return
	}

	meta := workout.Meta{
		WorkoutType: day.WorkoutType,
		Date:        now.Format(displayDate),
		Difficulty:  prefs.DifficultyLevel,
		SplitType:   prefs.SplitType,
		RepsStyle:   prefs.RepsStyle,
		RestSeconds: prefs.RestSeconds,
	}
	doc := workout.Build(text, meta)
	html, err := workout.RenderHTML(doc)
	if err != nil {
		s.log.Error("rendering workout", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render workout")
		return
	}

	id, err := s.store.SaveWorkout(r.Context(), models.WorkoutRow{
		UserID:          uid,
		WorkoutType:     day.WorkoutType,
		WorkoutDate:     streak.Day(now),
		DifficultyLevel: prefs.DifficultyLevel,
		SplitType:       prefs.SplitType,
		Content:         text,
	}, storage.ExerciseRows(doc.Blocks))
	if err != nil {
		s.log.Error("saving generated workout", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save workout")
		return
	}
	s.log.Info("workout generated", "user_id", uid, "workout_id", id, "items", doc.ItemCount(), "structured", doc.Structured)

	writeJSON(w, http.StatusOK, generateResponse{
		WorkoutID:   &id,
		WorkoutType: day.WorkoutType,
		Focus:       day.WorkoutFocus,
		Structured:  doc.Structured,
		Meta:        &doc.Meta,
		Blocks:      doc.Blocks,
		HTML:        html,
	})
}

type parseRequest struct {
	Text string        `json:"text"`
	Meta *workout.Meta `json:"meta"`
}

type parseResponse struct {
	Structured bool            `json:"structured"`
	ItemCount  int             `json:"item_count"`
	Blocks     []workout.Block `json:"blocks"`
	Chips      []workout.Chip  `json:"chips"`
	HTML       template.HTML   `json:"html"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Workout text is required")
		return
	}
	meta := workout.Meta{Date: s.now().Format(displayDate)}
	if req.Meta != nil {
		meta = *req.Meta
	}

	doc := workout.Build(req.Text, meta)
	html, err := workout.RenderHTML(doc)
	if err != nil {
		s.log.Error("rendering preview", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render workout")
		return
	}
	blocks := doc.Blocks
	if blocks == nil {
		blocks = []workout.Block{}
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Structured: doc.Structured,
		ItemCount:  doc.ItemCount(),
		Blocks:     blocks,
		Chips:      doc.Chips(),
		HTML:       html,
	})
}

// loadWorkout resolves the {id} URL parameter to one of the caller's workouts.
func (s *Server) loadWorkout(w http.ResponseWriter, r *http.Request, uid int) (*models.WorkoutRow, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid workout id")
		return nil, false
	}
	row, err := s.store.GetWorkout(r.Context(), id, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Workout not found")
		return nil, false
	}
	if err != nil {
		s.log.Error("loading workout", "workout_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load workout")
		return nil, false
	}
	return row, true
}

type workoutDetail struct {
	models.WorkoutRow
	Exercises []models.WorkoutExerciseRow `json:"exercises"`
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	row, ok := s.loadWorkout(w, r, uid)
	if !ok {
		return
	}
	exercises, err := s.store.ListWorkoutExercises(r.Context(), row.ID, uid)
	if err != nil {
		s.log.Error("loading workout exercises", "workout_id", row.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load workout")
		return
	}
	writeJSON(w, http.StatusOK, workoutDetail{WorkoutRow: *row, Exercises: exercises})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	row, ok := s.loadWorkout(w, r, uid)
	if !ok {
		return
	}

	doc := workout.Build(row.Content, workout.Meta{
		WorkoutType: row.WorkoutType,
		Date:        row.WorkoutDate.Format(displayDate),
		Difficulty:  row.DifficultyLevel,
		SplitType:   row.SplitType,
	})
	html, err := workout.RenderHTML(doc)
	if err != nil {
		s.log.Error("rendering workout", "workout_id", row.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render workout")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
