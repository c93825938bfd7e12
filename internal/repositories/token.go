package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/hobbyhub/internal/session"
)

// TokenRepository stores the session credential pair in the single-row credentials table.
type TokenRepository struct {
	db *sql.DB
}

var _ session.Backend = (*TokenRepository)(nil)

// NewTokenRepository creates a TokenRepository on a migrated database.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Load returns the stored pair, or empty credentials when nothing is stored.
func (r *TokenRepository) Load() (session.Credentials, error) {
	var creds session.Credentials
	err := r.db.QueryRow(
		`SELECT access_token, refresh_token, username FROM credentials WHERE id = 1`,
	).Scan(&creds.AccessToken, &creds.RefreshToken, &creds.Username)

	if errors.Is(err, sql.ErrNoRows) {
		return session.Credentials{}, nil
	}
	if err != nil {
		return session.Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	return creds, nil
}

// Save upserts the pair.
func (r *TokenRepository) Save(creds session.Credentials) error {
	query := `
		INSERT INTO credentials (id, access_token, refresh_token, username, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			username = excluded.username,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, creds.AccessToken, creds.RefreshToken, creds.Username); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Delete removes the stored pair. Deleting an empty store is not an error.
func (r *TokenRepository) Delete() error {
	if _, err := r.db.Exec(`DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
