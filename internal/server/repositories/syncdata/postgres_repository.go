package syncdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/dbx"
	"github.com/impulseapp/impulse-api/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --- settings ---

func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	query := `SELECT theme_preference, focus_pill_enabled, quick_focus_enabled,
	            password_protection_enabled, password_hash,
	            uninstall_alert_enabled, uninstall_alert_email
	     FROM user_settings
	     WHERE user_id = $1`

	s := &models.UserSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ThemePreference, &s.FocusPillEnabled, &s.QuickFocusEnabled,
		&s.PasswordProtectionEnabled, &s.PasswordHash,
		&s.UninstallAlertEnabled, &s.UninstallAlertEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) UpsertSettings(ctx context.Context, userID string, s models.UserSettings) error {
	query := `INSERT INTO user_settings
	     (user_id, theme_preference, focus_pill_enabled, quick_focus_enabled,
	      password_protection_enabled, password_hash,
	      uninstall_alert_enabled, uninstall_alert_email, updated_at)
	     VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	     ON CONFLICT (user_id) DO UPDATE SET
	       theme_preference = EXCLUDED.theme_preference,
	       focus_pill_enabled = EXCLUDED.focus_pill_enabled,
	       quick_focus_enabled = EXCLUDED.quick_focus_enabled,
	       password_protection_enabled = EXCLUDED.password_protection_enabled,
	       password_hash = EXCLUDED.password_hash,
	       uninstall_alert_enabled = EXCLUDED.uninstall_alert_enabled,
	       uninstall_alert_email = EXCLUDED.uninstall_alert_email,
	       updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		userID, s.ThemePreference, s.FocusPillEnabled, s.QuickFocusEnabled,
		s.PasswordProtectionEnabled, s.PasswordHash,
		s.UninstallAlertEnabled, s.UninstallAlertEmail,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// --- blocking periods ---

func (r *PostgresRepository) ListBlockingPeriods(ctx context.Context, userID string) ([]models.BlockingPeriod, error) {
	query := `SELECT id, local_id, name, enabled, time_from, time_to,
	            always_on, difficulty, custom_message
	     FROM blocking_periods
	     WHERE user_id = $1
	     ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	type periodRow struct {
		period   models.BlockingPeriod
		serverID string
	}
	var scanned []periodRow
	for rows.Next() {
		var p models.BlockingPeriod
		var serverID string
		if err := rows.Scan(&serverID, &p.LocalID, &p.Name, &p.Enabled,
			&p.TimeFrom, &p.TimeTo, &p.AlwaysOn, &p.Difficulty, &p.CustomMessage); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		// The client reconciles against its own identifier when it supplied
		// one; otherwise it adopts the server id.
		p.ID = serverID
		if p.LocalID != nil && *p.LocalID != "" {
			p.ID = *p.LocalID
		}
		p.TimeFrom = clockHHMM(p.TimeFrom)
		p.TimeTo = clockHHMM(p.TimeTo)
		scanned = append(scanned, periodRow{period: p, serverID: serverID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	periods := []models.BlockingPeriod{}
	for _, row := range scanned {
		p := row.period
		if p.Sites, err = r.childList(ctx,
			`SELECT site_pattern FROM blocking_period_sites WHERE blocking_period_id = $1 ORDER BY id`, row.serverID); err != nil {
			return nil, err
		}
		if p.Days, err = r.childList(ctx,
			`SELECT day_name FROM blocking_period_days WHERE blocking_period_id = $1 ORDER BY id`, row.serverID); err != nil {
			return nil, err
		}
		if p.Emails, err = r.childList(ctx,
			`SELECT email FROM blocking_period_emails WHERE blocking_period_id = $1 ORDER BY id`, row.serverID); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (r *PostgresRepository) ReplaceBlockingPeriods(ctx context.Context, userID string, periods []models.BlockingPeriod) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM blocking_periods WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, p := range periods {
		localID := p.LocalID
		if localID == nil && p.ID != "" {
			localID = &p.ID
		}
		difficulty := p.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}

		var periodID string
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO blocking_periods
			   (user_id, local_id, name, enabled, time_from, time_to,
			    always_on, difficulty, custom_message, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			 RETURNING id`,
			userID, localID, p.Name, p.Enabled, p.TimeFrom, p.TimeTo,
			p.AlwaysOn, difficulty, p.CustomMessage,
		).Scan(&periodID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if err := r.insertChildren(ctx,
			`INSERT INTO blocking_period_sites (blocking_period_id, site_pattern) VALUES ($1, $2)`,
			periodID, p.Sites); err != nil {
			return err
		}
		if err := r.insertChildren(ctx,
			`INSERT INTO blocking_period_days (blocking_period_id, day_name) VALUES ($1, $2)`,
			periodID, p.Days); err != nil {
			return err
		}
		if err := r.insertChildren(ctx,
			`INSERT INTO blocking_period_emails (blocking_period_id, email) VALUES ($1, $2)`,
			periodID, p.Emails); err != nil {
			return err
		}
	}
	return nil
}

// --- impulse controls ---

func (r *PostgresRepository) ListImpulseControls(ctx context.Context, userID string) ([]models.ImpulseControl, error) {
	query := `SELECT id, local_id, name, enabled, minutes_limit, openings_limit,
	            difficulty, url_warning_enabled, impulse_control_enabled,
	            impulse_control_timer, usage_notice_enabled, usage_notice_timer,
	            scroll_limit_enabled, scroll_pixel_limit, scroll_countdown_duration,
	            time_progress_indicator_enabled
	     FROM impulse_controls
	     WHERE user_id = $1
	     ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	type controlRow struct {
		control  models.ImpulseControl
		serverID string
	}
	var scanned []controlRow
	for rows.Next() {
		var c models.ImpulseControl
		var serverID string
		var name *string
		if err := rows.Scan(&serverID, &c.LocalID, &name, &c.Enabled,
			&c.Minutes, &c.Openings, &c.Difficulty,
			&c.URLWarningEnabled, &c.ImpulseControlEnabled, &c.ImpulseControlTimer,
			&c.UsageNoticeEnabled, &c.UsageNoticeTimer,
			&c.ScrollLimitEnabled, &c.ScrollPixelLimit, &c.ScrollCountdownDuration,
			&c.TimeProgressIndicatorEnabled); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if name != nil {
			c.Name = *name
		}
		c.ID = serverID
		if c.LocalID != nil && *c.LocalID != "" {
			c.ID = *c.LocalID
		}
		scanned = append(scanned, controlRow{control: c, serverID: serverID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	controls := []models.ImpulseControl{}
	for _, row := range scanned {
		c := row.control
		if c.Sites, err = r.childList(ctx,
			`SELECT site_pattern FROM impulse_control_sites WHERE impulse_control_id = $1 ORDER BY id`, row.serverID); err != nil {
			return nil, err
		}
		if c.Emails, err = r.childList(ctx,
			`SELECT email FROM impulse_control_emails WHERE impulse_control_id = $1 ORDER BY id`, row.serverID); err != nil {
			return nil, err
		}
		controls = append(controls, c)
	}
	return controls, nil
}

func (r *PostgresRepository) ReplaceImpulseControls(ctx context.Context, userID string, controls []models.ImpulseControl) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM impulse_controls WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, c := range controls {
		localID := c.LocalID
		if localID == nil && c.ID != "" {
			localID = &c.ID
		}
		difficulty := c.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}

		var controlID string
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO impulse_controls
			   (user_id, local_id, name, enabled, minutes_limit, openings_limit,
			    difficulty, url_warning_enabled, impulse_control_enabled,
			    impulse_control_timer, usage_notice_enabled, usage_notice_timer,
			    scroll_limit_enabled, scroll_pixel_limit, scroll_countdown_duration,
			    time_progress_indicator_enabled, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
			 RETURNING id`,
			userID, localID, c.Name, c.Enabled, c.Minutes, c.Openings,
			difficulty, c.URLWarningEnabled, c.ImpulseControlEnabled,
			c.ImpulseControlTimer, c.UsageNoticeEnabled, c.UsageNoticeTimer,
			c.ScrollLimitEnabled, c.ScrollPixelLimit, c.ScrollCountdownDuration,
			c.TimeProgressIndicatorEnabled,
		).Scan(&controlID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if err := r.insertChildren(ctx,
			`INSERT INTO impulse_control_sites (impulse_control_id, site_pattern) VALUES ($1, $2)`,
			controlID, c.Sites); err != nil {
			return err
		}
		if err := r.insertChildren(ctx,
			`INSERT INTO impulse_control_emails (impulse_control_id, email) VALUES ($1, $2)`,
			controlID, c.Emails); err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

func (r *PostgresRepository) childList(ctx context.Context, query, parentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return values, nil
}

func (r *PostgresRepository) insertChildren(ctx context.Context, query, parentID string, values []string) error {
	for _, v := range values {
		if _, err := r.db.ExecContext(ctx, query, parentID, v); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// clockHHMM trims a time value to HH:MM; legacy rows may carry seconds.
func clockHHMM(v string) string {
	if len(v) > 5 {
		return v[:5]
	}
	return v
}
