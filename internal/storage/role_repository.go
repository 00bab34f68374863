package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetUserRoles retrieves all role grants for a user.
func (db *DB) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// AddUserRole grants a role to a user. Granting an already-held role is a no-op.
func (db *DB) AddUserRole(ctx context.Context, userID, role string) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, role) DO NOTHING
	`
	_, err := db.conn.ExecContext(ctx, query, uuid.NewString(), userID, role, nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to add user role: %w", err)
	}
	return nil
}
