package model

import (
	"time"
)

// FastMilestone records a badge earned by a session. The table carries a
// uniqueness constraint on (session_id, milestone_hours), so recording is
// idempotent at the storage layer.
type FastMilestone struct {
	ID             string    `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"sessionId"`
	MilestoneHours int       `db:"milestone_hours" json:"milestoneHours"`
	AchievedAt     time.Time `db:"achieved_at" json:"achievedAt"`
	BadgeName      string    `db:"badge_name" json:"badgeName"`
}

type CreateFastMilestoneParams struct {
	SessionID      string
	MilestoneHours int
	BadgeName      string
	AchievedAt     time.Time
}
