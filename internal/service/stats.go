package service

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/clock"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/config"
	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	redisclient "github.com/Crypto-Scavenger/Ing-Fast/internal/redis"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

// UserStats aggregates an account's fasting history.
type UserStats struct {
	TotalFasts       int `json:"totalFasts"`
	TotalHours       int `json:"totalHours"`
	LongestFast      int `json:"longestFast"`
	CurrentStreak    int `json:"currentStreak"`
	MilestonesEarned int `json:"milestonesEarned"`
}

// StatsService computes aggregated statistics over completed sessions.
// Results are cached in Redis; the cache is invalidated explicitly when a
// fast ends or data is wiped, never via an implicit dirty flag.
type StatsService struct {
	sessionRepo   repository.SessionRepository
	milestoneRepo repository.MilestoneRepository
	cache         *redisclient.Client
	cacheTTL      time.Duration
	clock         clock.Clock
}

func NewStatsService(
	sessionRepo repository.SessionRepository,
	milestoneRepo repository.MilestoneRepository,
	cache *redisclient.Client,
	cacheTTL time.Duration,
	clk clock.Clock,
) *StatsService {
	return &StatsService{
		sessionRepo:   sessionRepo,
		milestoneRepo: milestoneRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		clock:         clk,
	}
}

// Stats returns the account's aggregated statistics. Zero completed sessions
// yields the all-zero struct, not an error.
func (s *StatsService) Stats(ctx context.Context, accountID string) (*UserStats, error) {
	if cached := s.fromCache(ctx, accountID); cached != nil {
		return cached, nil
	}

	totals, err := s.sessionRepo.AggregateCompleted(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	milestones, err := s.milestoneRepo.CountDistinctByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	dates, err := s.sessionRepo.CompletionDates(ctx, accountID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	stats := &UserStats{
		TotalFasts:       totals.TotalFasts,
		TotalHours:       totals.TotalHours,
		LongestFast:      totals.LongestFast,
		CurrentStreak:    calculateStreak(dates, s.clock.Now()),
		MilestonesEarned: milestones,
	}

	s.toCache(ctx, accountID, stats)
	return stats, nil
}

// History lists the account's completed sessions, most recent first.
func (s *StatsService) History(ctx context.Context, accountID string, limit int) ([]model.FastSession, error) {
	if limit <= 0 || limit > config.MaxHistoryLimit {
		limit = config.DefaultHistoryLimit
	}

	sessions, err := s.sessionRepo.ListCompleted(ctx, accountID, limit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if sessions == nil {
		sessions = []model.FastSession{}
	}
	return sessions, nil
}

// Invalidate drops the account's cached stats. Called after any write that
// changes completed-session history.
func (s *StatsService) Invalidate(ctx context.Context, accountID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, redisclient.StatsKey(accountID)).Err(); err != nil {
		log.Warn().Err(err).Str("accountId", accountID).Msg("invalidate stats cache")
	}
}

func (s *StatsService) fromCache(ctx context.Context, accountID string) *UserStats {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, redisclient.StatsKey(accountID)).Result()
	if err != nil {
		if err != goredis.Nil {
			log.Warn().Err(err).Str("accountId", accountID).Msg("read stats cache")
		}
		return nil
	}
	var stats UserStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, accountID string, stats *UserStats) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, redisclient.StatsKey(accountID), data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("accountId", accountID).Msg("write stats cache")
	}
}

// calculateStreak counts consecutive calendar days with at least one
// completed fast, ending today or yesterday. dates must be distinct calendar
// dates ordered most recent first.
func calculateStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today := truncateToDay(now)
	last := truncateToDay(dates[0])

	// A streak is only current if it reaches today or yesterday.
	if daysBetween(last, today) > 1 {
		return 0
	}

	streak := 1
	for _, d := range dates[1:] {
		d = truncateToDay(d)
		if daysBetween(d, last) <= 1 {
			streak++
			last = d
		} else {
			break
		}
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
