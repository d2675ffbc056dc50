// Package services contains the server-side business logic. This file
// implements AuthService: registration, login, refresh-token exchange,
// logout, and the current-user lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/auth"
	"github.com/impulseapp/impulse-api/internal/server/config"
	"github.com/impulseapp/impulse-api/internal/server/models"
	"github.com/impulseapp/impulse-api/internal/server/repositories/repomanager"
	"github.com/impulseapp/impulse-api/internal/server/security"
)

const minPasswordLength = 6

// AuthResult is returned by Register and Login: the public user plus a fresh
// token pair. ExpiresIn is the access-token lifetime in seconds.
type AuthResult struct {
	User         models.UserPublic `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
}

// RefreshResult is returned by Refresh. The refresh token is echoed back
// unchanged; sessions are not rotated on refresh.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthService implements the account and session operations behind the
// /api/auth endpoints.
type AuthService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	logger          logging.Logger
	jwtSecret       []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

// NewAuthService constructs an AuthService from repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:              db,
		repomanager:     m,
		logger:          logger.With("service", "auth"),
		jwtSecret:       []byte(cfg.JWTSecret),
		accessLifetime:  auth.ParseLifetime(cfg.AccessTokenLifetime, auth.DefaultAccessTokenLifetime),
		refreshLifetime: auth.ParseLifetime(cfg.RefreshTokenLifetime, auth.DefaultRefreshTokenLifetime),
	}
}

// Register creates an account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, email, password string, displayName *string, meta models.SessionMeta) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, email, hash, displayName)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.openSession(ctx, user, meta)
}

// Login verifies credentials and opens a new session. The password check runs
// before the active-account check, so a disabled account with a wrong password
// reports bad credentials, not its disabled state.
func (s *AuthService) Login(ctx context.Context, email, password string, meta models.SessionMeta) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.Validationf("Email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorizedf("Invalid email or password")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, common.Unauthorizedf("Invalid email or password")
	}
	if !user.IsActive {
		return nil, common.Forbiddenf("Account is disabled")
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return s.openSession(ctx, user, meta)
}

// Refresh exchanges a valid refresh token for a new access token. The session
// itself stays as it is, apart from a last_used_at stamp.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, common.Validationf("Refresh token is required")
	}

	sess, err := s.repomanager.Sessions(s.db).FindValidByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorizedf("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorizedf("User not found or disabled")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive {
		return nil, common.Unauthorizedf("User not found or disabled")
	}

	if err := s.repomanager.Sessions(s.db).TouchLastUsed(ctx, sess.ID); err != nil {
		s.logger.Warn(ctx, "failed to stamp session use", "session_id", sess.ID, "error", err)
	}

	access, err := auth.GenerateAccessToken(user.ID, user.Email, s.jwtSecret, s.accessLifetime)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &RefreshResult{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessLifetime.Seconds()),
	}, nil
}

// Logout revokes the session matching the refresh token. Best effort: an
// absent or unknown token is not an error, so logout is always idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).RevokeByRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// LogoutAll revokes every session the user has, on every device.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repomanager.Sessions(s.db).RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	s.logger.Info(ctx, "all sessions revoked", "user_id", userID)
	return nil
}

// GetCurrentUser returns the public view of the authenticated user.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*models.UserPublic, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundf("User not found")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive {
		return nil, common.Forbiddenf("Account is disabled")
	}
	pub := user.Public()
	return &pub, nil
}

// CleanupSessions removes expired and revoked sessions. Meant to run on a
// timer, not per request.
func (s *AuthService) CleanupSessions(ctx context.Context) (int64, error) {
	count, err := s.repomanager.Sessions(s.db).CleanupExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleaning up sessions: %w", err)
	}
	if count > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", count)
	}
	return count, nil
}

// openSession mints a token pair, records the refresh session, and stamps
// the login. Both register and login end here.
func (s *AuthService) openSession(ctx context.Context, user *models.User, meta models.SessionMeta) (*AuthResult, error) {
	access, err := auth.GenerateAccessToken(user.ID, user.Email, s.jwtSecret, s.accessLifetime)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refresh := security.NewRefreshToken()
	if _, err := s.repomanager.Sessions(s.db).Create(ctx, user.ID, refresh, s.refreshLifetime, meta); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if err := s.repomanager.Users(s.db).TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "failed to stamp last login", "user_id", user.ID, "error", err)
	}

	return &AuthResult{
		User:         user.Public(),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessLifetime.Seconds()),
	}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return common.Validationf("Email and password are required")
	}
	if len(password) < minPasswordLength {
		return common.Validationf("Password must be at least 6 characters")
	}
	// Coarse shape check only; the address is otherwise opaque to the server.
	if !strings.Contains(email, "@") {
		return common.Validationf("Invalid email format")
	}
	return nil
}
