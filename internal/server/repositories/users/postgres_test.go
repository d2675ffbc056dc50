package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/impulseapp/impulse-api/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "display_name", "is_active", "is_email_verified",
		"plan", "plan_expires_at", "created_at", "updated_at", "last_login_at",
	})
}

func TestCreate_NormalizesEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("bob@x.com", "hash", nil).
		WillReturnRows(userRows().AddRow(
			"u1", "bob@x.com", "hash", nil, true, false, "free", nil, now, now, nil))

	got, err := repo.Create(context.Background(), "  Bob@X.com ", "hash", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u1" || got.Email != "bob@x.com" || !got.IsActive || got.Plan != "free" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("bob@x.com", "hash", nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), "bob@x.com", "hash", nil)
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetByEmail_LowercasesLookup(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnRows(userRows().AddRow(
			"u1", "a@x.com", "hash", nil, true, false, "free", nil, now, now, nil))

	got, err := repo.GetByEmail(context.Background(), "A@X.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByID_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+id`).
		WithArgs("u404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u404")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEmailExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "A@x.com")
	if err != nil {
		t.Fatalf("EmailExists error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
}

func TestTouchLastLogin(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+last_login_at`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastLogin(context.Background(), "u1"); err != nil {
		t.Fatalf("TouchLastLogin error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
