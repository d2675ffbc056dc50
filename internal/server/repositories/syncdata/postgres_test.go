package syncdata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

func TestGetSettings_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+user_settings`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSettings(context.Background(), "u1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetSettings(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+user_settings\s+WHERE\s+user_id\s+=\s+\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"theme_preference", "focus_pill_enabled", "quick_focus_enabled",
			"password_protection_enabled", "password_hash",
			"uninstall_alert_enabled", "uninstall_alert_email",
		}).AddRow("dark", false, true, true, "client-hash", false, nil))

	s, err := repo.GetSettings(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetSettings error: %v", err)
	}
	if s.ThemePreference != "dark" || !s.QuickFocusEnabled {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if s.PasswordHash == nil || *s.PasswordHash != "client-hash" {
		t.Fatalf("expected password hash to round-trip, got %+v", s.PasswordHash)
	}
}

func TestUpsertSettings(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_settings.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE`).
		WithArgs("u1", "dark", true, false, false, nil, false, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertSettings(context.Background(), "u1", models.UserSettings{
		ThemePreference:  "dark",
		FocusPillEnabled: true,
	})
	if err != nil {
		t.Fatalf("UpsertSettings error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListBlockingPeriods_AssemblesChildren(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+blocking_periods\s+WHERE\s+user_id\s+=\s+\$1\s+ORDER\s+BY\s+created_at`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "local_id", "name", "enabled", "time_from", "time_to",
			"always_on", "difficulty", "custom_message",
		}).AddRow("srv-1", "local-1", "Work hours", true, "09:00:00", "17:30:00", false, "hard", nil))

	mock.ExpectQuery(`FROM\s+blocking_period_sites`).
		WithArgs("srv-1").
		WillReturnRows(sqlmock.NewRows([]string{"site_pattern"}).
			AddRow("twitter.com").AddRow("reddit.com"))
	mock.ExpectQuery(`FROM\s+blocking_period_days`).
		WithArgs("srv-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_name"}).
			AddRow("monday").AddRow("tuesday"))
	mock.ExpectQuery(`FROM\s+blocking_period_emails`).
		WithArgs("srv-1").
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	periods, err := repo.ListBlockingPeriods(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListBlockingPeriods error: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if p.ID != "local-1" {
		t.Fatalf("expected client id to win, got %q", p.ID)
	}
	if p.TimeFrom != "09:00" || p.TimeTo != "17:30" {
		t.Fatalf("expected HH:MM times, got %q / %q", p.TimeFrom, p.TimeTo)
	}
	if len(p.Sites) != 2 || len(p.Days) != 2 || len(p.Emails) != 0 {
		t.Fatalf("unexpected children: %+v", p)
	}
}

func TestListBlockingPeriods_ServerIDWhenNoLocalID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+blocking_periods`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "local_id", "name", "enabled", "time_from", "time_to",
			"always_on", "difficulty", "custom_message",
		}).AddRow("srv-1", nil, nil, true, "00:00", "00:00", true, "medium", nil))

	mock.ExpectQuery(`FROM\s+blocking_period_sites`).
		WillReturnRows(sqlmock.NewRows([]string{"site_pattern"}))
	mock.ExpectQuery(`FROM\s+blocking_period_days`).
		WillReturnRows(sqlmock.NewRows([]string{"day_name"}))
	mock.ExpectQuery(`FROM\s+blocking_period_emails`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	periods, err := repo.ListBlockingPeriods(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListBlockingPeriods error: %v", err)
	}
	if periods[0].ID != "srv-1" {
		t.Fatalf("expected server id fallback, got %q", periods[0].ID)
	}
}

func TestReplaceBlockingPeriods_DeletesBeforeInserting(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+blocking_periods\s+WHERE\s+user_id\s+=\s+\$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+blocking_periods.*RETURNING\s+id`).
		WithArgs("u1", "local-9", nil, true, "08:00", "12:00", false, "medium", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("srv-9"))

	mock.ExpectExec(`^INSERT\s+INTO\s+blocking_period_sites`).
		WithArgs("srv-9", "news.ycombinator.com").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`^INSERT\s+INTO\s+blocking_period_days`).
		WithArgs("srv-9", "friday").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.ReplaceBlockingPeriods(context.Background(), "u1", []models.BlockingPeriod{{
		ID:       "local-9",
		Enabled:  true,
		TimeFrom: "08:00",
		TimeTo:   "12:00",
		Sites:    []string{"news.ycombinator.com"},
		Days:     []string{"friday"},
	}})
	if err != nil {
		t.Fatalf("ReplaceBlockingPeriods error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestReplaceBlockingPeriods_EmptySetStillClears(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+blocking_periods`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.ReplaceBlockingPeriods(context.Background(), "u1", nil); err != nil {
		t.Fatalf("ReplaceBlockingPeriods error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListImpulseControls_AssemblesChildren(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+impulse_controls\s+WHERE\s+user_id\s+=\s+\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "local_id", "name", "enabled", "minutes_limit", "openings_limit",
			"difficulty", "url_warning_enabled", "impulse_control_enabled",
			"impulse_control_timer", "usage_notice_enabled", "usage_notice_timer",
			"scroll_limit_enabled", "scroll_pixel_limit", "scroll_countdown_duration",
			"time_progress_indicator_enabled",
		}).AddRow("srv-5", nil, "Social media", true, 30, 10,
			"hard", true, true, 15, false, 0, false, 0, 0, true))

	mock.ExpectQuery(`FROM\s+impulse_control_sites`).
		WithArgs("srv-5").
		WillReturnRows(sqlmock.NewRows([]string{"site_pattern"}).AddRow("instagram.com"))
	mock.ExpectQuery(`FROM\s+impulse_control_emails`).
		WithArgs("srv-5").
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	controls, err := repo.ListImpulseControls(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListImpulseControls error: %v", err)
	}
	if len(controls) != 1 {
		t.Fatalf("expected 1 control, got %d", len(controls))
	}
	c := controls[0]
	if c.ID != "srv-5" || c.Name != "Social media" || c.Minutes != 30 {
		t.Fatalf("unexpected control: %+v", c)
	}
	if len(c.Sites) != 1 || c.Sites[0] != "instagram.com" {
		t.Fatalf("unexpected sites: %+v", c.Sites)
	}
}

func TestReplaceImpulseControls_DefaultsDifficulty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+impulse_controls`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+impulse_controls.*RETURNING\s+id`).
		WithArgs("u1", strptr("ic-1"), "Shorts", true, 10, 5,
			"medium", false, false, 0, false, 0, false, 0, 0, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("srv-2"))

	mock.ExpectExec(`^INSERT\s+INTO\s+impulse_control_sites`).
		WithArgs("srv-2", "youtube.com").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.ReplaceImpulseControls(context.Background(), "u1", []models.ImpulseControl{{
		LocalID:  strptr("ic-1"),
		Name:     "Shorts",
		Enabled:  true,
		Minutes:  10,
		Openings: 5,
		Sites:    []string{"youtube.com"},
	}})
	if err != nil {
		t.Fatalf("ReplaceImpulseControls error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
