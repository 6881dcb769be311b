package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/schedule"
	"github.com/momentumx/momentumx/internal/storage"
)

var (
	difficultyLevels = []string{"beginner", "intermediate", "advanced"}
	repsStyles       = []string{schedule.Auto, "strength", "hypertrophy", "endurance", "power", "custom"}
)

const (
	maxReps     = 100
	exportLimit = 1000
)

type profileResponse struct {
	*models.Profile
	HasGeminiKey bool `json:"has_gemini_key"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.log.Error("loading profile", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p, HasGeminiKey: p.Preferences.HasGeminiKey()})
}

// validatePreferences checks enumerated fields against the known values.
func validatePreferences(u models.PreferencesUpdate) error {
	if u.SplitType != nil && !schedule.IsValidSplit(*u.SplitType) {
		return fmt.Errorf("unknown split_type %q", *u.SplitType)
	}
	if u.DayOverride != nil && !schedule.IsValidOverride(*u.DayOverride) {
		return fmt.Errorf("unknown day_override %q", *u.DayOverride)
	}
	if u.DifficultyLevel != nil && !oneOf(*u.DifficultyLevel, difficultyLevels) {
		return fmt.Errorf("difficulty_level must be one of %s", strings.Join(difficultyLevels, ", "))
	}
	if u.RepsStyle != nil && !oneOf(*u.RepsStyle, repsStyles) {
		return fmt.Errorf("reps_style must be one of %s", strings.Join(repsStyles, ", "))
	}
	for name, v := range map[string]*int{"reps_min": u.RepsMin, "reps_max": u.RepsMax} {
		if v != nil && (*v < 1 || *v > maxReps) {
			return fmt.Errorf("%s must be between 1 and %d", name, maxReps)
		}
	}
	if u.RepsMin != nil && u.RepsMax != nil && *u.RepsMin > *u.RepsMax {
		return errors.New("reps_min must not exceed reps_max")
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var u models.PreferencesUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	if err := validatePreferences(u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if u.GeminiAPIKey != nil {
		key := strings.TrimSpace(*u.GeminiAPIKey)
		u.GeminiAPIKey = &key
	}

	err := s.store.UpdatePreferences(r.Context(), uid, u)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Preferences not found")
		return
	}
	if err != nil {
		s.log.Error("updating preferences", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Preferences updated successfully"})
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	machines, err := s.store.ListMachines(r.Context(), uid)
	if err != nil {
		s.log.Error("listing machines", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load machines")
		return
	}
	writeJSON(w, http.StatusOK, machines)
}

func (s *Server) handleAddMachine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		MachineName string `json:"machine_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.MachineName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Machine name is required")
		return
	}
	if err := s.store.AddMachine(r.Context(), uid, name); err != nil {
		s.log.Error("adding machine", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add machine")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Machine added successfully"})
}

func (s *Server) handleRemoveMachine(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid machine id")
		return
	}
	err = s.store.RemoveMachine(r.Context(), uid, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Machine not found")
		return
	}
	if err != nil {
		s.log.Error("removing machine", "user_id", uid, "machine_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove machine")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Machine removed successfully"})
}

func (s *Server) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var u models.StatsUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	for name, v := range map[string]*int{"current_streak_days": u.CurrentStreakDays, "longest_streak_days": u.LongestStreakDays, "height_cm": u.HeightCm} {
		if v != nil && *v < 0 {
			writeError(w, http.StatusBadRequest, name+" must not be negative")
			return
		}
	}
	if u.WeightKg != nil && *u.WeightKg < 0 {
		writeError(w, http.StatusBadRequest, "weight_kg must not be negative")
		return
	}

	err := s.store.UpdateStats(r.Context(), uid, u)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Stats not found")
		return
	}
	if err != nil {
		s.log.Error("updating stats", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Stats updated successfully"})
}

type todayResponse struct {
	DayName string `json:"day_name"`
	schedule.ResolvedDay
	Rest bool `json:"rest"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	_, day, ok := s.resolveToday(w, r, uid)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, todayResponse{
		DayName:     schedule.DayName(int(s.now().Weekday())),
		ResolvedDay: day,
		Rest:        day.IsRest(),
	})
}

// resolveToday loads the user's preferences and resolves the current weekday.
func (s *Server) resolveToday(w http.ResponseWriter, r *http.Request, uid int) (*models.PreferencesRow, schedule.ResolvedDay, bool) {
	prefs, err := s.store.GetPreferences(r.Context(), uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Preferences not found")
		return nil, schedule.ResolvedDay{}, false
	}
	if err != nil {
		s.log.Error("loading preferences", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load preferences")
		return nil, schedule.ResolvedDay{}, false
	}
	day, err := schedule.Today(schedule.Split(prefs.SplitType), prefs.DayOverride, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, schedule.ResolvedDay{}, false
	}
	return prefs, day, true
}

type exportBundle struct {
	ExportDate  string                `json:"export_date"`
	User        models.UserRow        `json:"user"`
	Preferences models.PreferencesRow `json:"preferences"`
	Stats       models.UserStatsRow   `json:"stats"`
	Machines    []models.MachineRow   `json:"machines"`
	Workouts    []models.WorkoutRow   `json:"workouts"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	p, err := s.store.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.log.Error("export: loading profile", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}
	machines, err := s.store.ListMachines(ctx, uid)
	if err != nil {
		s.log.Error("export: listing machines", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}
	workouts, err := s.store.ListWorkouts(ctx, uid, exportLimit, 0)
	if err != nil {
		s.log.Error("export: listing workouts", "user_id", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}

	now := s.now().UTC()
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="momentumx-export-%s.json"`, now.Format("2006-01-02")))
	writeJSON(w, http.StatusOK, exportBundle{
		ExportDate:  now.Format(time.RFC3339),
		User:        p.UserRow,
		Preferences: p.Preferences,
		Stats:       p.Stats,
		Machines:    machines,
		Workouts:    workouts,
	})
}
