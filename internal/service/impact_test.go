package service

import (
	"context"
	"testing"
	"time"

	"drc-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestImpactFigures(t *testing.T) {
	assert.Equal(t, ImpactFigures{}, Impact(0))

	got := Impact(50)
	assert.Equal(t, 5.0, got.WasteAvertedLbs)
	assert.Equal(t, 10.0, got.CarbonSavedKg)
	assert.Equal(t, 25.0, got.WaterSavedGal)

	// rates that produce repeating decimals are rounded to one place
	got = Impact(3)
	assert.Equal(t, 0.3, got.WasteAvertedLbs)
	assert.Equal(t, 0.6, got.CarbonSavedKg)
	assert.Equal(t, 1.5, got.WaterSavedGal)
}

func TestEarnedBadges(t *testing.T) {
	assert.Empty(t, EarnedBadges(0))
	assert.Equal(t, []string{"First Timer"}, EarnedBadges(1))
	assert.Equal(t, []string{"First Timer", "Getting Started"}, EarnedBadges(10))

	at50 := EarnedBadges(50)
	assert.Contains(t, at50, "Eco Warrior")
	assert.NotContains(t, at50, "100 Club")

	all := EarnedBadges(500)
	assert.Len(t, all, 6)
	assert.Equal(t, "Planet Hero", all[5])
}

func TestNextAchievement(t *testing.T) {
	next, progress := NextAchievement(0)
	assert.Equal(t, "First Timer", next.Badge)
	assert.Equal(t, 0.0, progress)

	next, progress = NextAchievement(25)
	assert.Equal(t, "Eco Warrior", next.Badge)
	assert.InDelta(t, 0.5, progress, 1e-9)

	next, progress = NextAchievement(500)
	assert.Nil(t, next)
	assert.Equal(t, 1.0, progress)
}

func TestStreaks(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	t.Run("Empty", func(t *testing.T) {
		current, longest := Streaks(nil, now)
		assert.Equal(t, 0, current)
		assert.Equal(t, 0, longest)
	})

	t.Run("ActiveRun", func(t *testing.T) {
		current, longest := Streaks([]time.Time{day(0), day(-1), day(-2)}, now)
		assert.Equal(t, 3, current)
		assert.Equal(t, 3, longest)
	})

	t.Run("AnchoredAtYesterday", func(t *testing.T) {
		current, _ := Streaks([]time.Time{day(-1), day(-2)}, now)
		assert.Equal(t, 2, current)
	})

	t.Run("BrokenRun", func(t *testing.T) {
		// returned today, but skipped yesterday
		current, longest := Streaks([]time.Time{day(0), day(-2), day(-3), day(-4)}, now)
		assert.Equal(t, 1, current)
		assert.Equal(t, 3, longest)
	})

	t.Run("StaleHistory", func(t *testing.T) {
		current, longest := Streaks([]time.Time{day(-5), day(-6)}, now)
		assert.Equal(t, 0, current)
		assert.Equal(t, 2, longest)
	})
}

func TestRecomputeForUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("FirstRecompute", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		statsRepo := new(MockImpactStatsRepo)
		svc := NewImpactService(txnRepo, statsRepo).(*impactService)
		svc.now = func() time.Time { return now }

		txnRepo.On("CountReturnsByUser", ctx, "ab123").Return(1, nil)
		txnRepo.On("ReturnDays", ctx, "ab123").Return([]time.Time{now}, nil)
		statsRepo.On("Get", ctx, "ab123").Return(nil, domain.ErrNotFound)
		statsRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.ImpactStats")).Return(nil)

		stats, newBadges, err := svc.RecomputeForUser(ctx, "ab123")
		assert.NoError(t, err)
		assert.Equal(t, 1, stats.ContainersReused)
		assert.Equal(t, 0.1, stats.WasteAvertedLbs)
		assert.Equal(t, 1, stats.Streak)
		assert.Equal(t, []string{"First Timer"}, newBadges)
	})

	t.Run("OnlyNewBadgesReported", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		statsRepo := new(MockImpactStatsRepo)
		svc := NewImpactService(txnRepo, statsRepo).(*impactService)
		svc.now = func() time.Time { return now }

		txnRepo.On("CountReturnsByUser", ctx, "ab123").Return(50, nil)
		txnRepo.On("ReturnDays", ctx, "ab123").Return([]time.Time{now}, nil)
		statsRepo.On("Get", ctx, "ab123").Return(&domain.ImpactStats{
			UserNetID:        "ab123",
			ContainersReused: 49,
			Badges:           []string{"First Timer", "Getting Started"},
			LongestStreak:    7,
		}, nil)
		statsRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.ImpactStats")).Return(nil)

		stats, newBadges, err := svc.RecomputeForUser(ctx, "ab123")
		assert.NoError(t, err)
		assert.Equal(t, []string{"Eco Warrior"}, newBadges)
		// longest streak never regresses
		assert.Equal(t, 7, stats.LongestStreak)
	})

	t.Run("NoChangeIsIdempotent", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		statsRepo := new(MockImpactStatsRepo)
		svc := NewImpactService(txnRepo, statsRepo).(*impactService)
		svc.now = func() time.Time { return now }

		txnRepo.On("CountReturnsByUser", ctx, "ab123").Return(10, nil)
		txnRepo.On("ReturnDays", ctx, "ab123").Return([]time.Time{now}, nil)
		statsRepo.On("Get", ctx, "ab123").Return(&domain.ImpactStats{
			UserNetID:        "ab123",
			ContainersReused: 10,
			Badges:           EarnedBadges(10),
		}, nil)
		statsRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.ImpactStats")).Return(nil)

		_, newBadges, err := svc.RecomputeForUser(ctx, "ab123")
		assert.NoError(t, err)
		assert.Empty(t, newBadges)
	})
}

func TestRecomputeLeaderboard(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepo)
	statsRepo := new(MockImpactStatsRepo)
	svc := NewImpactService(txnRepo, statsRepo)

	txnRepo.On("ReturnCounts", ctx).Return(map[string]int{
		"ab123": 50,
		"cd456": 12,
		"ef789": 12,
	}, nil)
	statsRepo.On("SetRank", ctx, "ab123", int32(1)).Return(nil)
	// ties break on net-id for a stable ordering
	statsRepo.On("SetRank", ctx, "cd456", int32(2)).Return(nil)
	statsRepo.On("SetRank", ctx, "ef789", int32(3)).Return(nil)

	assert.NoError(t, svc.RecomputeLeaderboard(ctx))
	statsRepo.AssertExpectations(t)
}

func TestGetStatsForNewUser(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepo)
	statsRepo := new(MockImpactStatsRepo)
	svc := NewImpactService(txnRepo, statsRepo)

	statsRepo.On("Get", ctx, "newbie").Return(nil, domain.ErrNotFound)

	stats, err := svc.GetStats(ctx, "newbie")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.ContainersReused)
	assert.NotNil(t, stats.Badges)
}
