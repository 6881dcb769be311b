package mcp

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/schedule"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/workout"
)

const displayDate = "Monday, January 2, 2006"

func splitKeys() []string {
	keys := make([]string, 0, len(schedule.Splits))
	for k := range schedule.Splits {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func overrideKeys() []string {
	keys := []string{schedule.Auto}
	for k := range schedule.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys[1:])
	return keys
}

// --- Tool definitions ---

var toolResolveDay = mcp.NewTool("resolve_day",
	mcp.WithDescription("Resolve the workout type and focus for a weekday. Without a split, the user's saved split and day override are used."),
	mcp.WithString("split", mcp.Description("Split schedule key. Defaults to the user's preference."), mcp.Enum(splitKeys()...)),
	mcp.WithString("override", mcp.Description("Day override key, or 'auto' to follow the split. Defaults to the user's preference."), mcp.Enum(overrideKeys()...)),
	mcp.WithNumber("weekday", mcp.Description("Day of week, 0 = Sunday through 6 = Saturday. Defaults to today.")),
)

var toolParseWorkout = mcp.NewTool("parse_workout",
	mcp.WithDescription("Parse free-form workout text into titled blocks of exercises with sets/reps, rest, tempo and notes."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout text, one exercise per line, with section headers such as 'Warm-up:'")),
)

var toolRenderWorkout = mcp.NewTool("render_workout",
	mcp.WithDescription("Render workout text, or a saved workout, as an HTML fragment."),
	mcp.WithString("text", mcp.Description("Workout text to render")),
	mcp.WithString("workout_id", mcp.Description("ID of a saved workout to render instead of text")),
	mcp.WithString("workout_type", mcp.Description("Header workout type when rendering text. Defaults to 'Custom'.")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List the user's saved workouts, newest first, including the generated text."),
	mcp.WithNumber("limit", mcp.Description("Maximum workouts to return (1-100). Defaults to 10.")),
	mcp.WithNumber("offset", mcp.Description("Number of workouts to skip. Defaults to 0.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch one saved workout with its parsed blocks."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout ID (UUID)")),
)

var toolGetTrainingProfile = mcp.NewTool("get_training_profile",
	mcp.WithDescription("The user's training preferences, available machines and streak statistics."),
)

// --- Tool handlers ---

func (h *handlers) resolveDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	split := req.GetString("split", "")
	override := req.GetString("override", "")

	if split == "" || override == "" {
		prefs, err := h.ds.GetPreferences(ctx, UserIDFromContext(ctx))
		if err != nil {
			h.log.Error("mcp resolve_day preferences", "error", err)
			return mcp.NewToolResultError("loading preferences failed: " + err.Error()), nil
		}
		if split == "" {
			split = prefs.SplitType
		}
		if override == "" {
			override = prefs.DayOverride
		}
	}

	weekday := req.GetInt("weekday", int(h.now().Weekday()))
	day, err := schedule.Resolve(schedule.Splits, schedule.Overrides, schedule.Split(split), override, weekday)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day_name":      schedule.DayName(weekday),
		"split":         split,
		"override":      override,
		"workout_type":  day.WorkoutType,
		"workout_focus": day.WorkoutFocus,
		"rest":          day.IsRest(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) parseWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	doc := workout.Build(text, workout.Meta{})
	result, err := mcp.NewToolResultJSON(map[string]any{
		"structured": doc.Structured,
		"item_count": doc.ItemCount(),
		"blocks":     doc.Blocks,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) renderWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var doc workout.Document
	if idStr := req.GetString("workout_id", ""); idStr != "" {
		row, errResult := h.loadWorkout(ctx, idStr)
		if errResult != nil {
			return errResult, nil
		}
		doc = workout.Build(row.Content, metaFor(row))
	} else {
		text := req.GetString("text", "")
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("either text or workout_id is required"), nil
		}
		doc = workout.Build(text, workout.Meta{
			WorkoutType: req.GetString("workout_type", "Custom"),
			Date:        h.now().Format(displayDate),
		})
	}

	html, err := workout.RenderHTML(doc)
	if err != nil {
		h.log.Error("mcp render_workout", "error", err)
		return mcp.NewToolResultError("render failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(html)), nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	offset := req.GetInt("offset", 0)
	if limit < 1 || limit > 100 {
		return mcp.NewToolResultError("limit must be between 1 and 100"), nil
	}
	if offset < 0 {
		return mcp.NewToolResultError("offset must not be negative"), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx, UserIDFromContext(ctx), limit, offset)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	row, errResult := h.loadWorkout(ctx, idStr)
	if errResult != nil {
		return errResult, nil
	}

	doc := workout.Build(row.Content, metaFor(row))
	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout":    row,
		"structured": doc.Structured,
		"blocks":     doc.Blocks,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	prefs, err := h.ds.GetPreferences(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_profile preferences", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	machines, err := h.ds.MachineNames(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_profile machines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	stats, err := h.ds.GetStats(ctx, uid)
	if err != nil {
		h.log.Warn("mcp get_training_profile stats", "error", err)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"preferences": prefs,
		"machines":    machines,
		"stats":       stats,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// loadWorkout fetches a workout by its string ID, returning a tool error
// result for malformed or unknown IDs.
func (h *handlers) loadWorkout(ctx context.Context, idStr string) (*models.WorkoutRow, *mcp.CallToolResult) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, mcp.NewToolResultError("invalid workout_id: " + err.Error())
	}
	row, err := h.ds.GetWorkout(ctx, id, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, mcp.NewToolResultError("workout not found")
	}
	if err != nil {
		h.log.Error("mcp load workout", "workout_id", id, "error", err)
		return nil, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return row, nil
}

func metaFor(row *models.WorkoutRow) workout.Meta {
	return workout.Meta{
		WorkoutType: row.WorkoutType,
		Date:        row.WorkoutDate.Format(displayDate),
		Difficulty:  row.DifficultyLevel,
		SplitType:   row.SplitType,
	}
}
