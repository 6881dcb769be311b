package storage

import (
	"context"
	"fmt"

	"github.com/momentumx/momentumx/internal/models"
)

// ListMachines returns the user's active machines ordered by name.
func (db *DB) ListMachines(ctx context.Context, userID int) ([]models.MachineRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, machine_name, added_date
		FROM user_machines
		WHERE user_id = $1 AND is_active
		ORDER BY machine_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	defer rows.Close()

	result := []models.MachineRow{}
	for rows.Next() {
		var m models.MachineRow
		if err := rows.Scan(&m.ID, &m.MachineName, &m.AddedDate); err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// MachineNames returns the names of the user's active machines.
func (db *DB) MachineNames(ctx context.Context, userID int) ([]string, error) {
	machines, err := db.ListMachines(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(machines))
	for i, m := range machines {
		names[i] = m.MachineName
	}
	return names, nil
}

// AddMachine adds a machine for the user. Re-adding a removed machine
// reactivates it; adding an active one is a no-op.
func (db *DB) AddMachine(ctx context.Context, userID int, name string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_machines (user_id, machine_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, machine_name) DO UPDATE SET is_active = TRUE
	`, userID, name)
	if err != nil {
		return fmt.Errorf("inserting machine: %w", err)
	}
	return nil
}

// RemoveMachine soft-deletes a machine owned by the user.
func (db *DB) RemoveMachine(ctx context.Context, userID, machineID int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE user_machines SET is_active = FALSE WHERE id = $1 AND user_id = $2`,
		machineID, userID)
	if err != nil {
		return fmt.Errorf("removing machine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("removing machine %d: %w", machineID, ErrNotFound)
	}
	return nil
}
