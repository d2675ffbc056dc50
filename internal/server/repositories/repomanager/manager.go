package repomanager

import (
	"context"
	"database/sql"

	"github.com/impulseapp/impulse-api/internal/dbx"
	"github.com/impulseapp/impulse-api/internal/server/repositories/sessions"
	"github.com/impulseapp/impulse-api/internal/server/repositories/syncdata"
	"github.com/impulseapp/impulse-api/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can run
// the same repository code on the pool or inside a transaction, and exposes a
// schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	SyncData(db dbx.DBTX) syncdata.Repository
}
