// Package syncdata persists the sync aggregate: user settings, blocking
// periods, and impulse controls with their child site/day/email lists.
//
// Writes follow replace semantics: the client's pushed set overwrites the
// user's stored set wholesale. Callers that need the replacement to be atomic
// construct the repository over a *sql.Tx (see services.SyncService.Push).
package syncdata

import (
	"context"

	"github.com/impulseapp/impulse-api/internal/server/models"
)

type Repository interface {
	// GetSettings returns the user's settings row or an error matching
	// common.ErrNotFound when the user never pushed any.
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)

	// UpsertSettings inserts or updates the user's single settings row.
	UpsertSettings(ctx context.Context, userID string, s models.UserSettings) error

	// ListBlockingPeriods returns the user's periods in creation order, each
	// with its site/day/email lists populated.
	ListBlockingPeriods(ctx context.Context, userID string) ([]models.BlockingPeriod, error)

	// ReplaceBlockingPeriods deletes every period the user has and inserts
	// the supplied set, child rows included.
	ReplaceBlockingPeriods(ctx context.Context, userID string, periods []models.BlockingPeriod) error

	// ListImpulseControls returns the user's controls in creation order,
	// each with its site/email lists populated.
	ListImpulseControls(ctx context.Context, userID string) ([]models.ImpulseControl, error)

	// ReplaceImpulseControls deletes every control the user has and inserts
	// the supplied set, child rows included.
	ReplaceImpulseControls(ctx context.Context, userID string, controls []models.ImpulseControl) error
}
