package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/models"
)

const syncAttempts = 3

// SyncStats tracks sync progress.
type SyncStats struct {
	Pending int
	Synced  int
	Errored int
}

// Client saves workouts to a MomentumX server on behalf of the token's user.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the MomentumX server.
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		backoff:    time.Second,
	}
}

type saveRequest struct {
	WorkoutType      string `json:"workout_type"`
	WorkoutDate      string `json:"workout_date"`
	DifficultyLevel  string `json:"difficulty_level,omitempty"`
	SplitType        string `json:"split_type,omitempty"`
	Content          string `json:"workout_content"`
	CompletionStatus string `json:"completion_status"`
}

type saveResponse struct {
	WorkoutID string `json:"workout_id"`
}

// statusError is a non-201 reply. 4xx replies are not retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("save failed (status %d): %s", e.code, e.body)
}

// SaveWorkout POSTs e to /api/workouts and returns the server's workout ID.
// Retries up to 3 times with exponential backoff on network and 5xx failures.
func (c *Client) SaveWorkout(ctx context.Context, e Entry) (string, error) {
	data, err := json.Marshal(saveRequest{
		WorkoutType:      e.WorkoutType,
		WorkoutDate:      e.WorkoutDate,
		DifficultyLevel:  e.Difficulty,
		SplitType:        e.SplitType,
		Content:          e.Content,
		CompletionStatus: models.StatusPlanned,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling workout: %w", err)
	}

	var lastErr error
	for attempt := range syncAttempts {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff << uint(attempt-1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		id, err := c.post(ctx, data)
		if err == nil {
			return id, nil
		}
		lastErr = err
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return "", err
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", syncAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/workouts", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var out saveResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.WorkoutID == "" {
		return "", fmt.Errorf("response has no workout_id")
	}
	return out.WorkoutID, nil
}

// Syncer pushes unsynced history entries to a server.
type Syncer struct {
	client *Client
	hist   *History
	dryRun bool
	log    *slog.Logger
}

// NewSyncer creates a Syncer. client may be nil in dry-run mode.
func NewSyncer(client *Client, hist *History, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{client: client, hist: hist, dryRun: dryRun, log: log}
}

// Run sends every unsynced entry, oldest first. A failed entry is counted
// and skipped so later entries still go out; the error for the run is the
// first failure seen.
func (s *Syncer) Run(ctx context.Context) (*SyncStats, error) {
	entries, err := s.hist.Unsynced(ctx)
	if err != nil {
		return nil, err
	}
	stats := &SyncStats{Pending: len(entries)}
	if s.dryRun {
		for _, e := range entries {
			s.log.Info("would sync", "id", e.ID, "date", e.WorkoutDate, "type", e.WorkoutType)
		}
		return stats, nil
	}

	var firstErr error
	for _, e := range entries {
		remoteID, err := s.client.SaveWorkout(ctx, e)
		if err == nil {
			err = s.hist.MarkSynced(ctx, e.ID, remoteID)
		}
		if err != nil {
			s.log.Error("sync failed", "id", e.ID, "error", err)
			stats.Errored++
			if firstErr == nil {
				firstErr = fmt.Errorf("syncing workout %d: %w", e.ID, err)
			}
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			continue
		}
		s.log.Info("synced", "id", e.ID, "workout_id", remoteID)
		stats.Synced++
	}
	return stats, firstErr
}
