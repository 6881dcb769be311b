package storage

import (
	"context"
	"fmt"

	"github.com/momentumx/momentumx/internal/models"
)

const maxEndpoint = 100

// InsertUsageLog records one API request.
func (db *DB) InsertUsageLog(ctx context.Context, l models.UsageLogRow) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO api_usage_logs (user_id, endpoint, method, status_code, response_time_ms, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, l.UserID, truncate(l.Endpoint, maxEndpoint), l.Method, l.StatusCode, l.ResponseTimeMs,
		nullIfEmpty(truncate(l.IPAddress, 45)), nullIfEmpty(l.UserAgent))
	if err != nil {
		return fmt.Errorf("inserting usage log: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
