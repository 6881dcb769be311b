package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/momentumx/momentumx/internal/schedule"
)

type scheduleDay struct {
	Day          string `json:"day"`
	WorkoutType  string `json:"workout_type"`
	WorkoutFocus string `json:"workout_focus"`
}

// splitCatalog flattens the built-in tables into one JSON-friendly value.
func splitCatalog() map[string]any {
	splits := make(map[string][]scheduleDay, len(schedule.Splits))
	for key, cfg := range schedule.Splits {
		days := make([]scheduleDay, 0, len(cfg.Pattern))
		for i, label := range cfg.Pattern {
			days = append(days, scheduleDay{
				Day:          schedule.DayName(i),
				WorkoutType:  label,
				WorkoutFocus: cfg.Focuses[label],
			})
		}
		splits[string(key)] = days
	}
	return map[string]any{
		"splits":    splits,
		"overrides": schedule.Overrides,
	}
}

func (h *handlers) splits(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, splitCatalog())
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.ListWorkouts(ctx, UserIDFromContext(ctx), 10, 0)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, workouts)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
