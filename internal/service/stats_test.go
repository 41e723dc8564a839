package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/clock"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
)

func newStatsService(sessionRepo *mockSessionRepo, milestoneRepo *mockMilestoneRepo, now time.Time) *StatsService {
	// nil cache disables Redis so tests exercise the aggregation path
	return NewStatsService(sessionRepo, milestoneRepo, nil, time.Minute, clock.Fixed(now))
}

func TestStatsService_Stats(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2025, 3, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	t.Run("aggregates totals, streak and milestones", func(t *testing.T) {
		sessionRepo := new(mockSessionRepo)
		milestoneRepo := new(mockMilestoneRepo)
		svc := newStatsService(sessionRepo, milestoneRepo, now)

		ctx := context.Background()
		sessionRepo.On("AggregateCompleted", ctx, "acc-1").Return(&model.FastTotals{
			TotalFasts:  5,
			TotalHours:  80,
			LongestFast: 24,
		}, nil)
		milestoneRepo.On("CountDistinctByAccount", ctx, "acc-1").Return(3, nil)
		sessionRepo.On("CompletionDates", ctx, "acc-1").Return([]time.Time{
			day(0), day(-1), day(-2),
		}, nil)

		stats, err := svc.Stats(ctx, "acc-1")

		assert.NoError(t, err)
		assert.Equal(t, 5, stats.TotalFasts)
		assert.Equal(t, 80, stats.TotalHours)
		assert.Equal(t, 24, stats.LongestFast)
		assert.Equal(t, 3, stats.CurrentStreak)
		assert.Equal(t, 3, stats.MilestonesEarned)
		sessionRepo.AssertExpectations(t)
		milestoneRepo.AssertExpectations(t)
	})

	t.Run("returns zero stats for an account with no history", func(t *testing.T) {
		sessionRepo := new(mockSessionRepo)
		milestoneRepo := new(mockMilestoneRepo)
		svc := newStatsService(sessionRepo, milestoneRepo, now)

		ctx := context.Background()
		sessionRepo.On("AggregateCompleted", ctx, "acc-1").Return(&model.FastTotals{}, nil)
		milestoneRepo.On("CountDistinctByAccount", ctx, "acc-1").Return(0, nil)
		sessionRepo.On("CompletionDates", ctx, "acc-1").Return([]time.Time{}, nil)

		stats, err := svc.Stats(ctx, "acc-1")

		assert.NoError(t, err)
		assert.Equal(t, &UserStats{}, stats)
	})

	t.Run("returns database error when aggregation fails", func(t *testing.T) {
		sessionRepo := new(mockSessionRepo)
		milestoneRepo := new(mockMilestoneRepo)
		svc := newStatsService(sessionRepo, milestoneRepo, now)

		ctx := context.Background()
		sessionRepo.On("AggregateCompleted", ctx, "acc-1").Return(nil, assert.AnError)

		stats, err := svc.Stats(ctx, "acc-1")

		assert.Nil(t, stats)
		assert.Error(t, err)
	})
}

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2025, 3, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	t.Run("no completed fasts", func(t *testing.T) {
		assert.Equal(t, 0, calculateStreak(nil, now))
		assert.Equal(t, 0, calculateStreak([]time.Time{}, now))
	})

	t.Run("three consecutive days ending today", func(t *testing.T) {
		dates := []time.Time{day(0), day(-1), day(-2)}
		assert.Equal(t, 3, calculateStreak(dates, now))
	})

	t.Run("streak ending yesterday still counts", func(t *testing.T) {
		dates := []time.Time{day(-1), day(-2)}
		assert.Equal(t, 2, calculateStreak(dates, now))
	})

	t.Run("most recent fast two days ago breaks the streak", func(t *testing.T) {
		dates := []time.Time{day(-2), day(-3)}
		assert.Equal(t, 0, calculateStreak(dates, now))
	})

	t.Run("gap in history stops the count", func(t *testing.T) {
		dates := []time.Time{day(0), day(-3), day(-4)}
		assert.Equal(t, 1, calculateStreak(dates, now))
	})

	t.Run("single fast today", func(t *testing.T) {
		assert.Equal(t, 1, calculateStreak([]time.Time{day(0)}, now))
	})

	t.Run("time of day does not affect the count", func(t *testing.T) {
		lateNow := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
		earlyNow := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
		dates := []time.Time{day(0), day(-1)}

		assert.Equal(t, 2, calculateStreak(dates, lateNow))
		assert.Equal(t, 2, calculateStreak(dates, earlyNow))
	})
}

func TestStatsService_History(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	t.Run("lists completed sessions", func(t *testing.T) {
		sessionRepo := new(mockSessionRepo)
		svc := newStatsService(sessionRepo, new(mockMilestoneRepo), now)

		ctx := context.Background()
		sessionRepo.On("ListCompleted", ctx, "acc-1", 10).Return([]model.FastSession{
			{ID: "sess-2", Completed: true},
			{ID: "sess-1", Completed: true},
		}, nil)

		sessions, err := svc.History(ctx, "acc-1", 10)

		assert.NoError(t, err)
		assert.Len(t, sessions, 2)
		assert.Equal(t, "sess-2", sessions[0].ID)
	})

	t.Run("falls back to default limit when out of range", func(t *testing.T) {
		for _, limit := range []int{0, -5, 101} {
			sessionRepo := new(mockSessionRepo)
			svc := newStatsService(sessionRepo, new(mockMilestoneRepo), now)

			ctx := context.Background()
			sessionRepo.On("ListCompleted", ctx, "acc-1", 10).Return([]model.FastSession{}, nil)

			_, err := svc.History(ctx, "acc-1", limit)

			assert.NoError(t, err)
			sessionRepo.AssertExpectations(t)
		}
	})

	t.Run("returns empty slice instead of nil", func(t *testing.T) {
		sessionRepo := new(mockSessionRepo)
		svc := newStatsService(sessionRepo, new(mockMilestoneRepo), now)

		ctx := context.Background()
		sessionRepo.On("ListCompleted", ctx, "acc-1", 10).Return(nil, nil)

		sessions, err := svc.History(ctx, "acc-1", 10)

		assert.NoError(t, err)
		assert.NotNil(t, sessions)
		assert.Empty(t, sessions)
	})
}
