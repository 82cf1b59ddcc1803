package postgres

import (
	"context"
	"testing"
	"time"

	"drc-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestImpactStatsRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewImpactStatsRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_net_id", "containers_reused", "waste_averted_lbs",
			"carbon_saved_kg", "water_saved_gal", "streak", "longest_streak", "badges",
			"leaderboard_rank", "updated_on"}).
			AddRow("ab123", 52, 5.2, 10.4, 26.0, 3, 9, `{"First Timer","Getting Started","Eco Warrior"}`, 1, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM impact_stats WHERE user_net_id = \\$1").
			WithArgs("ab123").
			WillReturnRows(rows)

		stats, err := repo.Get(ctx, "ab123")
		assert.NoError(t, err)
		assert.Equal(t, 52, stats.ContainersReused)
		assert.Equal(t, []string{"First Timer", "Getting Started", "Eco Warrior"}, stats.Badges)
		assert.Equal(t, 9, stats.LongestStreak)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM impact_stats WHERE user_net_id = \\$1").
			WithArgs("zz999").
			WillReturnRows(sqlmock.NewRows([]string{"user_net_id"}))

		_, err := repo.Get(ctx, "zz999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestImpactStatsRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewImpactStatsRepository(db)

	mock.ExpectExec("INSERT INTO impact_stats").
		WithArgs("ab123", 10, 1.0, 2.0, 5.0, 2, 4,
			`{"First Timer","Getting Started"}`, int32(0), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), &domain.ImpactStats{
		UserNetID:        "ab123",
		ContainersReused: 10,
		WasteAvertedLbs:  1.0,
		CarbonSavedKg:    2.0,
		WaterSavedGal:    5.0,
		Streak:           2,
		LongestStreak:    4,
		Badges:           []string{"First Timer", "Getting Started"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
