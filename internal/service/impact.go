package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository"
)

// Per-return environmental rates for a single-use container avoided.
const (
	wastePerReturnLbs = 0.1
	carbonPerReturnKg = 0.2
	waterPerReturnGal = 0.5
)

// Achievement is a named badge with its return-count threshold.
type Achievement struct {
	Badge     string `json:"badge"`
	Threshold int    `json:"threshold"`
}

// achievements is ordered by ascending threshold.
var achievements = []Achievement{
	{Badge: "First Timer", Threshold: 1},
	{Badge: "Getting Started", Threshold: 10},
	{Badge: "Eco Warrior", Threshold: 50},
	{Badge: "100 Club", Threshold: 100},
	{Badge: "Sustainability Champion", Threshold: 250},
	{Badge: "Planet Hero", Threshold: 500},
}

// ImpactFigures are the derived environmental totals for n returns,
// each rounded to one decimal place.
type ImpactFigures struct {
	WasteAvertedLbs float64
	CarbonSavedKg   float64
	WaterSavedGal   float64
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Impact computes the environmental figures for n completed returns.
func Impact(n int) ImpactFigures {
	return ImpactFigures{
		WasteAvertedLbs: round1(float64(n) * wastePerReturnLbs),
		CarbonSavedKg:   round1(float64(n) * carbonPerReturnKg),
		WaterSavedGal:   round1(float64(n) * waterPerReturnGal),
	}
}

// EarnedBadges returns the badges unlocked at n returns, lowest first.
func EarnedBadges(n int) []string {
	var out []string
	for _, a := range achievements {
		if n >= a.Threshold {
			out = append(out, a.Badge)
		}
	}
	return out
}

// NextAchievement returns the first locked achievement and the progress
// toward it as a fraction in [0, 1]. A nil achievement means everything is
// unlocked.
func NextAchievement(n int) (*Achievement, float64) {
	for _, a := range achievements {
		if n < a.Threshold {
			next := a
			return &next, float64(n) / float64(a.Threshold)
		}
	}
	return nil, 1
}

// Streaks walks distinct return days (descending) and computes the current
// streak, anchored at today or yesterday relative to now, and the longest
// streak anywhere in the history.
func Streaks(days []time.Time, now time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	truncated := make([]time.Time, len(days))
	for i, d := range days {
		truncated[i] = d.UTC().Truncate(24 * time.Hour)
	}
	sort.Slice(truncated, func(i, j int) bool { return truncated[i].After(truncated[j]) })

	today := now.UTC().Truncate(24 * time.Hour)

	// Current streak: most recent day must be today or yesterday, then
	// each prior day exactly one day back.
	if !truncated[0].Before(today.AddDate(0, 0, -1)) {
		current = 1
		for i := 1; i < len(truncated); i++ {
			if truncated[i-1].Sub(truncated[i]) == 24*time.Hour {
				current++
			} else {
				break
			}
		}
	}

	run := 1
	longest = 1
	for i := 1; i < len(truncated); i++ {
		if truncated[i-1].Sub(truncated[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

type impactService struct {
	txnRepo   repository.TransactionRepository
	statsRepo repository.ImpactStatsRepository
	now       func() time.Time
}

func NewImpactService(txnRepo repository.TransactionRepository, statsRepo repository.ImpactStatsRepository) ImpactService {
	return &impactService{txnRepo: txnRepo, statsRepo: statsRepo, now: time.Now}
}

func (s *impactService) GetStats(ctx context.Context, netID string) (*domain.ImpactStats, error) {
	stats, err := s.statsRepo.Get(ctx, netID)
	if errors.Is(err, domain.ErrNotFound) {
		// A user with no returns yet has a valid, all-zero projection.
		return &domain.ImpactStats{UserNetID: netID, Badges: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get impact stats: %w", err)
	}
	return stats, nil
}

func (s *impactService) RecomputeForUser(ctx context.Context, netID string) (*domain.ImpactStats, []string, error) {
	n, err := s.txnRepo.CountReturnsByUser(ctx, netID)
	if err != nil {
		return nil, nil, fmt.Errorf("recompute impact: count returns: %w", err)
	}
	days, err := s.txnRepo.ReturnDays(ctx, netID)
	if err != nil {
		return nil, nil, fmt.Errorf("recompute impact: return days: %w", err)
	}

	prev, err := s.statsRepo.Get(ctx, netID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("recompute impact: load previous: %w", err)
	}

	now := s.now()
	figures := Impact(n)
	current, longest := Streaks(days, now)
	badges := EarnedBadges(n)

	stats := &domain.ImpactStats{
		UserNetID:        netID,
		ContainersReused: n,
		WasteAvertedLbs:  figures.WasteAvertedLbs,
		CarbonSavedKg:    figures.CarbonSavedKg,
		WaterSavedGal:    figures.WaterSavedGal,
		Streak:           current,
		LongestStreak:    longest,
		Badges:           badges,
		UpdatedOn:        now,
	}
	if prev != nil {
		stats.LeaderboardRank = prev.LeaderboardRank
		if prev.LongestStreak > stats.LongestStreak {
			stats.LongestStreak = prev.LongestStreak
		}
	}
	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return nil, nil, fmt.Errorf("recompute impact: upsert: %w", err)
	}

	var newBadges []string
	if prev == nil {
		newBadges = badges
	} else {
		had := make(map[string]bool, len(prev.Badges))
		for _, b := range prev.Badges {
			had[b] = true
		}
		for _, b := range badges {
			if !had[b] {
				newBadges = append(newBadges, b)
			}
		}
	}
	return stats, newBadges, nil
}

func (s *impactService) RecomputeLeaderboard(ctx context.Context) error {
	counts, err := s.txnRepo.ReturnCounts(ctx)
	if err != nil {
		return fmt.Errorf("recompute leaderboard: %w", err)
	}

	type entry struct {
		netID string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for id, n := range counts {
		entries = append(entries, entry{netID: id, count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].netID < entries[j].netID
	})

	for i, e := range entries {
		if err := s.statsRepo.SetRank(ctx, e.netID, int32(i+1)); err != nil {
			return fmt.Errorf("recompute leaderboard: rank %s: %w", e.netID, err)
		}
	}
	logger.Info("leaderboard recomputed", "users", len(entries))
	return nil
}

func (s *impactService) Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.statsRepo.Leaderboard(ctx, limit)
}
