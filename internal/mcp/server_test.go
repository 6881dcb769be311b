package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// fakeSource is an in-memory DataSource scoped to a single user.
type fakeSource struct {
	prefs    models.PreferencesRow
	machines []string
	workouts []models.WorkoutRow
	seenUser int
}

func (f *fakeSource) GetPreferences(_ context.Context, userID int) (*models.PreferencesRow, error) {
	f.seenUser = userID
	p := f.prefs
	return &p, nil
}

func (f *fakeSource) GetStats(context.Context, int) (*models.UserStatsRow, error) {
	return &models.UserStatsRow{CurrentStreakDays: 3}, nil
}

func (f *fakeSource) MachineNames(context.Context, int) ([]string, error) {
	return f.machines, nil
}

func (f *fakeSource) ListWorkouts(_ context.Context, userID, limit, _ int) ([]models.WorkoutRow, error) {
	f.seenUser = userID
	return f.workouts[:min(limit, len(f.workouts))], nil
}

func (f *fakeSource) GetWorkout(_ context.Context, id uuid.UUID, _ int) (*models.WorkoutRow, error) {
	for _, w := range f.workouts {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, fmt.Errorf("querying workout: %w", storage.ErrNotFound)
}

var savedID = uuid.MustParse("0d9c5a4e-8f1b-4e0a-a3b2-6c1d2e3f4a5b")

const savedText = `Warm-up:
- Treadmill walk (5 minutes)
Main:
1. Chest Press 3x10
2. Cable Fly 3x12-15 rest 60s
Cool-down:
- Pec stretch`

func newTestHandlers() (*handlers, *fakeSource) {
	src := &fakeSource{
		prefs:    models.PreferencesRow{SplitType: "push-pull-legs", DayOverride: "auto"},
		machines: []string{"Chest Press", "Cable"},
		workouts: []models.WorkoutRow{{
			ID:          savedID,
			WorkoutType: "Push",
			WorkoutDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			Content:     savedText,
		}},
	}
	h := &handlers{
		ds:  src,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }, // Wednesday
	}
	return h, src
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestUserIDFromContextDefault verifies contexts without a user carry ID 0.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 0 {
		t.Errorf("UserIDFromContext(empty) = %d, want 0", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestResolveDayFromPreferences verifies the caller's split is used when none is given.
func TestResolveDayFromPreferences(t *testing.T) {
	h, src := newTestHandlers()
	ctx := WithUserID(context.Background(), 7)

	res, err := h.resolveDay(ctx, callRequest(nil))
	if err != nil || res.IsError {
		t.Fatalf("resolve_day failed: %v %s", err, resultText(t, res))
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	// push-pull-legs on Wednesday (index 3) is Push.
	if got["workout_type"] != "Push" || got["day_name"] != "Wednesday" || got["rest"] != false {
		t.Errorf("resolved = %v", got)
	}
	if src.seenUser != 7 {
		t.Errorf("preferences loaded for user %d, want 7", src.seenUser)
	}
}

// TestResolveDayExplicit verifies explicit arguments bypass preferences.
func TestResolveDayExplicit(t *testing.T) {
	h, src := newTestHandlers()
	res, _ := h.resolveDay(context.Background(), callRequest(map[string]any{
		"split": "full-body", "override": "auto", "weekday": float64(6),
	}))
	text := resultText(t, res)
	if res.IsError || !strings.Contains(text, `"rest":true`) {
		t.Errorf("resolve_day = %s", text)
	}
	if src.seenUser != 0 {
		t.Error("preferences loaded despite explicit arguments")
	}
}

// TestResolveDayInvalid verifies resolver errors come back as tool errors.
func TestResolveDayInvalid(t *testing.T) {
	h, _ := newTestHandlers()
	for _, args := range []map[string]any{
		{"split": "nope", "override": "auto"},
		{"split": "bro-split", "override": "cardio"},
		{"split": "bro-split", "override": "auto", "weekday": float64(9)},
	} {
		res, err := h.resolveDay(context.Background(), callRequest(args))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("args %v: expected tool error, got %s", args, resultText(t, res))
		}
	}
}

// TestParseWorkoutTool verifies blocks and the structured flag are returned.
func TestParseWorkoutTool(t *testing.T) {
	h, _ := newTestHandlers()
	res, _ := h.parseWorkout(context.Background(), callRequest(map[string]any{"text": savedText}))
	var got struct {
		Structured bool `json:"structured"`
		ItemCount  int  `json:"item_count"`
		Blocks     []struct {
			Title string `json:"title"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Structured || got.ItemCount != 4 || len(got.Blocks) != 3 || got.Blocks[1].Title != "Main" {
		t.Errorf("parse = %+v", got)
	}

	res, _ = h.parseWorkout(context.Background(), callRequest(map[string]any{"text": "  "}))
	if !res.IsError {
		t.Error("blank text accepted")
	}
}

// TestRenderWorkoutTool verifies both text and saved-workout rendering.
func TestRenderWorkoutTool(t *testing.T) {
	h, _ := newTestHandlers()

	res, _ := h.renderWorkout(context.Background(), callRequest(map[string]any{"text": savedText, "workout_type": "Push"}))
	if html := resultText(t, res); !strings.Contains(html, "Push Workout - Wednesday, October 14, 2026") {
		t.Errorf("text render = %s", html)
	}

	res, _ = h.renderWorkout(context.Background(), callRequest(map[string]any{"workout_id": savedID.String()}))
	if html := resultText(t, res); !strings.Contains(html, "Push Workout - Monday, October 12, 2026") {
		t.Errorf("saved render = %s", html)
	}

	res, _ = h.renderWorkout(context.Background(), callRequest(map[string]any{"workout_id": uuid.NewString()}))
	if !res.IsError || resultText(t, res) != "workout not found" {
		t.Errorf("missing workout = %s", resultText(t, res))
	}

	res, _ = h.renderWorkout(context.Background(), callRequest(nil))
	if !res.IsError {
		t.Error("render without input accepted")
	}
}

// TestGetWorkoutsTool verifies paging validation and the user scope.
func TestGetWorkoutsTool(t *testing.T) {
	h, src := newTestHandlers()
	ctx := WithUserID(context.Background(), 5)

	res, _ := h.getWorkouts(ctx, callRequest(map[string]any{"limit": float64(3)}))
	if res.IsError || !strings.Contains(resultText(t, res), savedID.String()) {
		t.Errorf("get_workouts = %s", resultText(t, res))
	}
	if src.seenUser != 5 {
		t.Errorf("listed for user %d, want 5", src.seenUser)
	}

	res, _ = h.getWorkouts(ctx, callRequest(map[string]any{"limit": float64(500)}))
	if !res.IsError {
		t.Error("oversized limit accepted")
	}
}

// TestGetWorkoutTool verifies a saved workout is returned with parsed blocks.
func TestGetWorkoutTool(t *testing.T) {
	h, _ := newTestHandlers()
	res, _ := h.getWorkout(context.Background(), callRequest(map[string]any{"workout_id": savedID.String()}))
	text := resultText(t, res)
	if res.IsError || !strings.Contains(text, `"structured":true`) || !strings.Contains(text, "Cable Fly") {
		t.Errorf("get_workout = %s", text)
	}

	res, _ = h.getWorkout(context.Background(), callRequest(map[string]any{"workout_id": "nope"}))
	if !res.IsError {
		t.Error("malformed id accepted")
	}
}

// TestTrainingProfileTool verifies preferences, machines and stats are combined.
func TestTrainingProfileTool(t *testing.T) {
	h, _ := newTestHandlers()
	res, _ := h.getTrainingProfile(context.Background(), callRequest(nil))
	text := resultText(t, res)
	for _, want := range []string{`"split_type":"push-pull-legs"`, `"Chest Press"`, `"current_streak_days":3`} {
		if !strings.Contains(text, want) {
			t.Errorf("profile missing %s: %s", want, text)
		}
	}
}

// TestSplitCatalog verifies every split lists seven named days.
func TestSplitCatalog(t *testing.T) {
	cat := splitCatalog()
	splits := cat["splits"].(map[string][]scheduleDay)
	if len(splits) == 0 {
		t.Fatal("no splits")
	}
	for key, days := range splits {
		if len(days) != 7 {
			t.Errorf("%s has %d days, want 7", key, len(days))
		}
		if days[0].Day != "Sunday" || days[0].WorkoutFocus == "" {
			t.Errorf("%s day 0 = %+v", key, days[0])
		}
	}
}
