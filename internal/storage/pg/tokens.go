package pg

import (
	"context"
	"database/sql"
	"fmt"
)

// TokenStore persists the device tokens notifications are delivered to.
// Registration happens outside this service; the presenter only reads and,
// when FCM reports a token dead, revokes.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a token store over an open database handle.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// ActiveTokens returns every non-revoked device token.
func (s *TokenStore) ActiveTokens(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM device_tokens WHERE NOT revoked ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device tokens: %w", err)
	}

	return tokens, nil
}

// Upsert registers or refreshes a device token.
func (s *TokenStore) Upsert(ctx context.Context, token, deviceID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO device_tokens (token, device_id)
		 VALUES ($1, $2)
		 ON CONFLICT (token)
		 DO UPDATE SET device_id = EXCLUDED.device_id, revoked = FALSE, updated_at = now()`,
		token, deviceID)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

// Revoke marks a token as dead so it is skipped on future deliveries.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE device_tokens SET revoked = TRUE, updated_at = now() WHERE token = $1`,
		token)
	if err != nil {
		return fmt.Errorf("failed to revoke device token: %w", err)
	}
	return nil
}
