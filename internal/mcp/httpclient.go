package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// HTTPClient implements DataSource by calling the MomentumX REST API.
// Used for stdio MCP mode where the binary runs locally but data lives on a
// remote server. The bearer token identifies the user, so userID arguments
// are ignored.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.get(ctx, "/api/user/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetPreferences(ctx context.Context, _ int) (*models.PreferencesRow, error) {
	p, err := c.profile(ctx)
	if err != nil {
		return nil, err
	}
	return &p.Preferences, nil
}

func (c *HTTPClient) GetStats(ctx context.Context, _ int) (*models.UserStatsRow, error) {
	p, err := c.profile(ctx)
	if err != nil {
		return nil, err
	}
	return &p.Stats, nil
}

func (c *HTTPClient) MachineNames(ctx context.Context, _ int) ([]string, error) {
	var machines []models.MachineRow
	if err := c.get(ctx, "/api/user/machines", nil, &machines); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(machines))
	for _, m := range machines {
		names = append(names, m.MachineName)
	}
	return names, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, _ int, limit, offset int) ([]models.WorkoutRow, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var workouts []models.WorkoutRow
	if err := c.get(ctx, "/api/workouts", params, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id uuid.UUID, _ int) (*models.WorkoutRow, error) {
	var w models.WorkoutRow
	if err := c.get(ctx, "/api/workouts/"+id.String(), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}
