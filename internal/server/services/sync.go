package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/impulseapp/impulse-api/internal/common"
	"github.com/impulseapp/impulse-api/internal/dbx"
	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/models"
	"github.com/impulseapp/impulse-api/internal/server/repositories/repomanager"
)

// SyncService moves the extension's configuration between devices. Pull reads
// the stored aggregate; Push replaces it with whatever the client sent, last
// writer wins.
type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewSyncService constructs a SyncService.
func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SyncService {
	return &SyncService{
		db:          db,
		repomanager: m,
		logger:      logger.With("service", "sync"),
	}
}

// Pull returns the user's stored sync aggregate. A user who never pushed gets
// default settings and empty collections rather than an error.
func (s *SyncService) Pull(ctx context.Context, userID string) (*models.SyncData, error) {
	repo := s.repomanager.SyncData(s.db)

	settings, err := repo.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		defaults := models.DefaultSettings()
		settings = &defaults
	}

	periods, err := repo.ListBlockingPeriods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading blocking periods: %w", err)
	}

	controls, err := repo.ListImpulseControls(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading impulse controls: %w", err)
	}

	return &models.SyncData{
		Settings:        settings,
		BlockingPeriods: periods,
		ImpulseControls: controls,
	}, nil
}

// Push stores the pushed aggregate inside a single transaction, so a reader
// never observes a half-replaced set. A nil part of the aggregate leaves the
// stored part untouched.
func (s *SyncService) Push(ctx context.Context, userID string, data models.SyncData) error {
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SyncData(tx)

		if data.Settings != nil {
			if err := repo.UpsertSettings(ctx, userID, *data.Settings); err != nil {
				return fmt.Errorf("storing settings: %w", err)
			}
		}
		if data.BlockingPeriods != nil {
			if err := repo.ReplaceBlockingPeriods(ctx, userID, data.BlockingPeriods); err != nil {
				return fmt.Errorf("storing blocking periods: %w", err)
			}
		}
		if data.ImpulseControls != nil {
			if err := repo.ReplaceImpulseControls(ctx, userID, data.ImpulseControls); err != nil {
				return fmt.Errorf("storing impulse controls: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "sync push stored", "user_id", userID,
		"settings", data.Settings != nil,
		"blocking_periods", len(data.BlockingPeriods),
		"impulse_controls", len(data.ImpulseControls))
	return nil
}
