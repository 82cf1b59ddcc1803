package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/repository"

	"github.com/lib/pq"
)

type impactStatsRepository struct {
	db *sql.DB
}

func NewImpactStatsRepository(db *sql.DB) repository.ImpactStatsRepository {
	return &impactStatsRepository{db: db}
}

const impactColumns = `user_net_id, containers_reused, waste_averted_lbs, carbon_saved_kg, water_saved_gal, streak, longest_streak, badges, leaderboard_rank, updated_on`

func (r *impactStatsRepository) Get(ctx context.Context, netID string) (*domain.ImpactStats, error) {
	s := &domain.ImpactStats{}
	query := `SELECT ` + impactColumns + ` FROM impact_stats WHERE user_net_id = $1`
	err := r.db.QueryRowContext(ctx, query, netID).Scan(&s.UserNetID, &s.ContainersReused,
		&s.WasteAvertedLbs, &s.CarbonSavedKg, &s.WaterSavedGal, &s.Streak, &s.LongestStreak,
		pq.Array(&s.Badges), &s.LeaderboardRank, &s.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("impact stats for %s: %w", netID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *impactStatsRepository) Upsert(ctx context.Context, s *domain.ImpactStats) error {
	query := `INSERT INTO impact_stats (` + impactColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (user_net_id) DO UPDATE SET
	            containers_reused = EXCLUDED.containers_reused,
	            waste_averted_lbs = EXCLUDED.waste_averted_lbs,
	            carbon_saved_kg = EXCLUDED.carbon_saved_kg,
	            water_saved_gal = EXCLUDED.water_saved_gal,
	            streak = EXCLUDED.streak,
	            longest_streak = GREATEST(impact_stats.longest_streak, EXCLUDED.longest_streak),
	            badges = EXCLUDED.badges,
	            updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query, s.UserNetID, s.ContainersReused, s.WasteAvertedLbs,
		s.CarbonSavedKg, s.WaterSavedGal, s.Streak, s.LongestStreak, pq.Array(s.Badges),
		s.LeaderboardRank, time.Now())
	return err
}

func (r *impactStatsRepository) SetRank(ctx context.Context, netID string, rank int32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE impact_stats SET leaderboard_rank = $2 WHERE user_net_id = $1`, netID, rank)
	return err
}

func (r *impactStatsRepository) Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error) {
	query := `SELECT ` + impactColumns + ` FROM impact_stats ORDER BY containers_reused DESC, user_net_id LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.ImpactStats
	for rows.Next() {
		var s domain.ImpactStats
		if err := rows.Scan(&s.UserNetID, &s.ContainersReused, &s.WasteAvertedLbs, &s.CarbonSavedKg,
			&s.WaterSavedGal, &s.Streak, &s.LongestStreak, pq.Array(&s.Badges), &s.LeaderboardRank,
			&s.UpdatedOn); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
