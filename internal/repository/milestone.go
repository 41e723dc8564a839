package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
)

type MilestoneRepository interface {
	// CreateIfAbsent inserts a milestone unless one already exists for the
	// (session, threshold) pair. Returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, params model.CreateFastMilestoneParams) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.FastMilestone, error)
	// CountDistinctByAccount counts the distinct thresholds achieved across
	// all of the account's sessions. A threshold hit twice counts once.
	CountDistinctByAccount(ctx context.Context, accountID string) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) MilestoneRepository
}

type milestoneRepo struct {
	db db
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepo{db: db}
}

func (r *milestoneRepo) WithTx(tx *sqlx.Tx) MilestoneRepository {
	return &milestoneRepo{db: tx}
}

func (r *milestoneRepo) CreateIfAbsent(ctx context.Context, params model.CreateFastMilestoneParams) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO fasting_milestones (session_id, milestone_hours, achieved_at, badge_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, milestone_hours) DO NOTHING
	`, params.SessionID, params.MilestoneHours, params.AchievedAt, params.BadgeName)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *milestoneRepo) ListBySession(ctx context.Context, sessionID string) ([]model.FastMilestone, error) {
	var milestones []model.FastMilestone
	err := r.db.SelectContext(ctx, &milestones, `
		SELECT * FROM fasting_milestones
		WHERE session_id = $1
		ORDER BY milestone_hours ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

func (r *milestoneRepo) CountDistinctByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(DISTINCT m.milestone_hours)
		FROM fasting_milestones m
		INNER JOIN fasting_sessions s ON m.session_id = s.id
		WHERE s.account_id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *milestoneRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fasting_milestones`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
