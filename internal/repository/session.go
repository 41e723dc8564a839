package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
)

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.FastSession, error)
	// FindActiveByAccount returns the account's current active fast, or nil.
	FindActiveByAccount(ctx context.Context, accountID string) (*model.FastSession, error)
	Create(ctx context.Context, params model.CreateFastSessionParams) (*model.FastSession, error)
	SetPaused(ctx context.Context, id string, pausedAt time.Time) error
	ClearPaused(ctx context.Context, id string, now time.Time) error
	Complete(ctx context.Context, id string, endTime time.Time, actualDuration int) error
	// DeactivateAllActive abandons every active session for the account
	// without marking it completed.
	DeactivateAllActive(ctx context.Context, accountID string, now time.Time) (int64, error)
	ListCompleted(ctx context.Context, accountID string, limit int) ([]model.FastSession, error)
	AggregateCompleted(ctx context.Context, accountID string) (*model.FastTotals, error)
	// CompletionDates returns the distinct calendar dates (by session
	// creation date) with at least one completed fast, most recent first.
	CompletionDates(ctx context.Context, accountID string) ([]time.Time, error)
	DeleteAll(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SessionRepository
}

type sessionRepo struct {
	db db
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) WithTx(tx *sqlx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*model.FastSession, error) {
	var session model.FastSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM fasting_sessions WHERE id = $1
	`, id)
	return handleNotFound(&session, err)
}

func (r *sessionRepo) FindActiveByAccount(ctx context.Context, accountID string) (*model.FastSession, error) {
	var session model.FastSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM fasting_sessions
		WHERE account_id = $1 AND is_active
		ORDER BY start_time DESC
		LIMIT 1
	`, accountID)
	return handleNotFound(&session, err)
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateFastSessionParams) (*model.FastSession, error) {
	var session model.FastSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO fasting_sessions (account_id, start_time, target_duration, is_active, completed, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, FALSE, $2, $2)
		RETURNING *
	`, params.AccountID, params.StartTime, params.TargetHours)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) SetPaused(ctx context.Context, id string, pausedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE fasting_sessions SET
			paused_at = $2,
			updated_at = $2
		WHERE id = $1 AND is_active
	`, id, pausedAt)
	return err
}

func (r *sessionRepo) ClearPaused(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE fasting_sessions SET
			paused_at = NULL,
			updated_at = $2
		WHERE id = $1 AND is_active
	`, id, now)
	return err
}

func (r *sessionRepo) Complete(ctx context.Context, id string, endTime time.Time, actualDuration int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE fasting_sessions SET
			end_time = $2,
			actual_duration = $3,
			is_active = FALSE,
			completed = TRUE,
			updated_at = $2
		WHERE id = $1 AND is_active
	`, id, endTime, actualDuration)
	return err
}

func (r *sessionRepo) DeactivateAllActive(ctx context.Context, accountID string, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE fasting_sessions SET
			is_active = FALSE,
			updated_at = $2
		WHERE account_id = $1 AND is_active
	`, accountID, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *sessionRepo) ListCompleted(ctx context.Context, accountID string, limit int) ([]model.FastSession, error) {
	var sessions []model.FastSession
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM fasting_sessions
		WHERE account_id = $1 AND completed
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) AggregateCompleted(ctx context.Context, accountID string) (*model.FastTotals, error) {
	var totals model.FastTotals
	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total_fasts,
			COALESCE(SUM(actual_duration), 0) AS total_hours,
			COALESCE(MAX(actual_duration), 0) AS longest_fast
		FROM fasting_sessions
		WHERE account_id = $1 AND completed
	`, accountID)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *sessionRepo) CompletionDates(ctx context.Context, accountID string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.SelectContext(ctx, &dates, `
		SELECT DISTINCT created_at::date AS fast_date
		FROM fasting_sessions
		WHERE account_id = $1 AND completed
		ORDER BY fast_date DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *sessionRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fasting_sessions`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
