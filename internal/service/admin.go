package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

type WipeResult struct {
	SessionsDeleted   int64 `json:"sessionsDeleted"`
	MilestonesDeleted int64 `json:"milestonesDeleted"`
	SettingsDeleted   int64 `json:"settingsDeleted"`
}

// AdminService backs the operator endpoints.
type AdminService struct {
	db            TxRunner
	sessionRepo   repository.SessionRepository
	milestoneRepo repository.MilestoneRepository
	settingRepo   repository.SettingRepository
	settings      *SettingsService
}

func NewAdminService(
	db TxRunner,
	sessionRepo repository.SessionRepository,
	milestoneRepo repository.MilestoneRepository,
	settingRepo repository.SettingRepository,
	settings *SettingsService,
) *AdminService {
	return &AdminService{
		db:            db,
		sessionRepo:   sessionRepo,
		milestoneRepo: milestoneRepo,
		settingRepo:   settingRepo,
		settings:      settings,
	}
}

// WipeAllData removes every fasting session, milestone and setting in one
// transaction, then re-seeds default settings. Accounts are kept.
func (s *AdminService) WipeAllData(ctx context.Context) (*WipeResult, error) {
	var result WipeResult

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		// Milestones reference sessions, so they go first.
		if result.MilestonesDeleted, err = s.milestoneRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if result.SessionsDeleted, err = s.sessionRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if result.SettingsDeleted, err = s.settingRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.settings.invalidate(ctx)
	if err := s.settings.EnsureDefaults(ctx); err != nil {
		return nil, err
	}

	log.Warn().
		Int64("sessions", result.SessionsDeleted).
		Int64("milestones", result.MilestonesDeleted).
		Int64("settings", result.SettingsDeleted).
		Msg("all fasting data wiped")

	return &result, nil
}
