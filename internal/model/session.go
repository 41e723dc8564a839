package model

import (
	"time"
)

// FastSession is a single timed fasting attempt by one account, from start to
// end or abandonment. At most one session per account has IsActive set.
type FastSession struct {
	ID             string     `db:"id" json:"id"`
	AccountID      string     `db:"account_id" json:"accountId"`
	StartTime      time.Time  `db:"start_time" json:"startTime"`
	EndTime        *time.Time `db:"end_time" json:"endTime,omitempty"`
	TargetDuration int        `db:"target_duration" json:"targetDuration"`
	ActualDuration *int       `db:"actual_duration" json:"actualDuration,omitempty"`
	IsActive       bool       `db:"is_active" json:"isActive"`
	PausedAt       *time.Time `db:"paused_at" json:"pausedAt,omitempty"`
	Completed      bool       `db:"completed" json:"completed"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

func (s *FastSession) IsPaused() bool {
	return s.PausedAt != nil
}

type CreateFastSessionParams struct {
	AccountID   string
	StartTime   time.Time
	TargetHours int
}

// FastTotals holds the aggregate row over an account's completed sessions.
type FastTotals struct {
	TotalFasts  int `db:"total_fasts"`
	TotalHours  int `db:"total_hours"`
	LongestFast int `db:"longest_fast"`
}
