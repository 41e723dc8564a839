package service

import (
	"context"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/clock"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/config"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/database"
	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

type StartFastResult struct {
	SessionID string    `json:"sessionId"`
	StartTime time.Time `json:"startTime"`
}

type EndFastResult struct {
	Duration           float64     `json:"duration"`
	MilestonesAchieved []Milestone `json:"milestonesAchieved"`
}

// CurrentFastResult is a read-only projection of the account's active fast.
type CurrentFastResult struct {
	SessionID       string         `json:"sessionId"`
	StartTime       time.Time      `json:"startTime"`
	TargetDuration  int            `json:"targetDuration"`
	IsPaused        bool           `json:"isPaused"`
	ElapsedHours    float64        `json:"elapsedHours"`
	CurrentPhase    Phase          `json:"currentPhase"`
	NextMilestone   *NextMilestone `json:"nextMilestone,omitempty"`
	ProgressPercent float64        `json:"progressPercent"`
}

// TxRunner runs a function inside a database transaction. *database.DB
// satisfies it; tests substitute a pass-through.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

// FastService owns the fasting session lifecycle: start, pause, resume, end,
// and the current-fast projection. Each transition is a read-check-write
// sequence inside a single transaction.
type FastService struct {
	db          TxRunner
	sessionRepo repository.SessionRepository
	milestones  *MilestoneEngine
	clock       clock.Clock
}

func NewFastService(
	db TxRunner,
	sessionRepo repository.SessionRepository,
	milestones *MilestoneEngine,
	clk clock.Clock,
) *FastService {
	return &FastService{
		db:          db,
		sessionRepo: sessionRepo,
		milestones:  milestones,
		clock:       clk,
	}
}

// Start begins a new fast. Any existing active session for the account is
// deactivated first: it is abandoned, not completed.
func (s *FastService) Start(ctx context.Context, accountID string, targetHours int) (*StartFastResult, error) {
	if targetHours < config.MinTargetHours || targetHours > config.MaxTargetHours {
		return nil, apperrors.InvalidDuration()
	}

	now := s.clock.Now()
	var created *model.FastSession

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.sessionRepo.WithTx(tx)

		abandoned, err := repo.DeactivateAllActive(ctx, accountID, now)
		if err != nil {
			return err
		}
		if abandoned > 0 {
			log.Info().
				Str("accountId", accountID).
				Int64("count", abandoned).
				Msg("abandoned active fast on new start")
		}

		created, err = repo.Create(ctx, model.CreateFastSessionParams{
			AccountID:   accountID,
			StartTime:   now,
			TargetHours: targetHours,
		})
		return err
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("sessionId", created.ID).
		Str("accountId", accountID).
		Int("targetHours", targetHours).
		Msg("fast started")

	return &StartFastResult{
		SessionID: created.ID,
		StartTime: created.StartTime,
	}, nil
}

// Pause flags the account's current active fast as paused. Pausing does not
// stop the elapsed-time clock.
func (s *FastService) Pause(ctx context.Context, sessionID, accountID string) error {
	now := s.clock.Now()

	return s.transition(ctx, sessionID, accountID, func(tx *sqlx.Tx, repo repository.SessionRepository, fast *model.FastSession) error {
		if err := repo.SetPaused(ctx, fast.ID, now); err != nil {
			return apperrors.Database(err)
		}
		log.Info().Str("sessionId", fast.ID).Msg("fast paused")
		return nil
	})
}

// Resume clears the paused flag on the account's current active fast.
func (s *FastService) Resume(ctx context.Context, sessionID, accountID string) error {
	now := s.clock.Now()

	return s.transition(ctx, sessionID, accountID, func(tx *sqlx.Tx, repo repository.SessionRepository, fast *model.FastSession) error {
		if err := repo.ClearPaused(ctx, fast.ID, now); err != nil {
			return apperrors.Database(err)
		}
		log.Info().Str("sessionId", fast.ID).Msg("fast resumed")
		return nil
	})
}

// End completes the account's current active fast. Milestones are recorded
// before the completion write, so a session observed as completed always has
// its milestone rows.
func (s *FastService) End(ctx context.Context, sessionID, accountID string) (*EndFastResult, error) {
	now := s.clock.Now()
	var result *EndFastResult

	err := s.transition(ctx, sessionID, accountID, func(tx *sqlx.Tx, repo repository.SessionRepository, fast *model.FastSession) error {
		elapsed := elapsedHours(fast.StartTime, now)

		if err := s.milestones.WithTx(tx).Record(ctx, fast.ID, elapsed); err != nil {
			return apperrors.Database(err)
		}

		if err := repo.Complete(ctx, fast.ID, now, int(elapsed)); err != nil {
			return apperrors.Database(err)
		}

		result = &EndFastResult{
			Duration:           elapsed,
			MilestonesAchieved: AchievedMilestones(elapsed),
		}

		log.Info().
			Str("sessionId", fast.ID).
			Str("accountId", accountID).
			Float64("duration", elapsed).
			Int("milestones", len(result.MilestonesAchieved)).
			Msg("fast completed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Current projects the account's active fast. Returns nil without error when
// no fast is active. No persisted side effects.
func (s *FastService) Current(ctx context.Context, accountID string) (*CurrentFastResult, error) {
	fast, err := s.sessionRepo.FindActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if fast == nil {
		return nil, nil
	}

	elapsed := elapsedHours(fast.StartTime, s.clock.Now())
	progress := math.Min(100, elapsed/float64(fast.TargetDuration)*100)

	return &CurrentFastResult{
		SessionID:       fast.ID,
		StartTime:       fast.StartTime,
		TargetDuration:  fast.TargetDuration,
		IsPaused:        fast.IsPaused(),
		ElapsedHours:    elapsed,
		CurrentPhase:    ClassifyPhase(elapsed),
		NextMilestone:   NextMilestoneAfter(elapsed),
		ProgressPercent: progress,
	}, nil
}

// transition runs fn against the account's current active fast inside a
// transaction. The session is re-read and validated inside the transaction
// so overlapping requests cannot act on stale state.
func (s *FastService) transition(
	ctx context.Context,
	sessionID, accountID string,
	fn func(tx *sqlx.Tx, repo repository.SessionRepository, fast *model.FastSession) error,
) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		repo := s.sessionRepo.WithTx(tx)

		fast, err := repo.FindActiveByAccount(ctx, accountID)
		if err != nil {
			return apperrors.Database(err)
		}
		// An id mismatch is rejected even if the session row exists.
		if fast == nil || fast.ID != sessionID {
			return apperrors.InvalidSession()
		}

		return fn(tx, repo, fast)
	})
}

// elapsedHours is wall-clock time since start, in hours, to 2 decimal
// places. Paused intervals are not subtracted.
func elapsedHours(start, now time.Time) float64 {
	return round2(now.Sub(start).Seconds() / 3600)
}
