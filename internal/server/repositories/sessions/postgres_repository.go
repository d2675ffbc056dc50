package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/dbx"
	"github.com/impulseapp/impulse-api/internal/server/models"
	"github.com/impulseapp/impulse-api/internal/server/security"
)

const sessionColumns = `id, user_id, refresh_token_hash, device_info, extension_version,
	       ip_address, expires_at, last_used_at, is_revoked, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, refreshToken string, validity time.Duration, meta models.SessionMeta) (*models.Session, error) {
	query := `INSERT INTO user_sessions
	     (user_id, refresh_token_hash, device_info, extension_version, ip_address, expires_at)
	     VALUES ($1, $2, $3, $4, $5, $6)
	     RETURNING ` + sessionColumns

	row := r.db.QueryRowContext(ctx, query,
		userID,
		security.HashRefreshToken(refreshToken),
		meta.DeviceInfo,
		meta.ExtensionVersion,
		meta.IPAddress,
		time.Now().Add(validity),
	)
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sess, nil
}

func (r *PostgresRepository) FindValidByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + `
	     FROM user_sessions
	     WHERE refresh_token_hash = $1 AND is_revoked = FALSE AND expires_at > NOW()`

	sess, err := scanSession(r.db.QueryRowContext(ctx, query, security.HashRefreshToken(refreshToken)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sess, nil
}

func (r *PostgresRepository) TouchLastUsed(ctx context.Context, sessionID string) error {
	query := `UPDATE user_sessions SET last_used_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, sessionID string) error {
	query := `UPDATE user_sessions SET is_revoked = TRUE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	query := `UPDATE user_sessions SET is_revoked = TRUE WHERE refresh_token_hash = $1`

	if _, err := r.db.ExecContext(ctx, query, security.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeAll(ctx context.Context, userID string) error {
	query := `UPDATE user_sessions SET is_revoked = TRUE WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at < NOW() OR is_revoked = TRUE`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.RefreshTokenHash, &s.DeviceInfo, &s.ExtensionVersion,
		&s.IPAddress, &s.ExpiresAt, &s.LastUsedAt, &s.IsRevoked, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
