package repository

import (
	"context"
	"time"

	"drc-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByNetID(ctx context.Context, netID string) (*domain.User, error)
	List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error)
}

type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	GetByCode(ctx context.Context, code string) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Update(ctx context.Context, loc *domain.Location) error
}

type ContainerRepository interface {
	Create(ctx context.Context, c *domain.Container) error
	CreateBatch(ctx context.Context, cs []*domain.Container) error
	GetByID(ctx context.Context, containerID string) (*domain.Container, error)
	GetByRFIDTag(ctx context.Context, tag string) (*domain.Container, error)
	ListByLocation(ctx context.Context, locationCode string, page, pageSize int32) ([]domain.Container, int32, error)
	ListByHolder(ctx context.Context, netID string) ([]domain.Container, error)
	CountActiveByHolder(ctx context.Context, netID string) (int, error)

	// UpdateStatusCAS swaps status from -> to only if the stored status still
	// equals from. The false return is how a concurrent loser finds out.
	UpdateStatusCAS(ctx context.Context, containerID string, from, to domain.ContainerStatus) (bool, error)
	SetCondition(ctx context.Context, containerID string, cond domain.ContainerCondition) error

	// MaxSequence returns the highest registered sequence for a location,
	// 0 when none exist. Bulk registration starts from the next value.
	MaxSequence(ctx context.Context, locationCode string) (int, error)

	// InventorySummary counts containers by effective status (derived LATE
	// included) for one location.
	InventorySummary(ctx context.Context, locationCode string, now time.Time) (*domain.InventorySummary, error)

	// ListOverdue returns containers whose effective status is LATE.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Container, error)
}

type TransactionRepository interface {
	// CreateCheckout is the checkout commit point: one SQL transaction that
	// CAS-moves the container AVAILABLE -> CHECKED_OUT (setting holder,
	// due date, and checkout count together) and appends the open
	// transaction row. Losing the CAS yields domain.ErrContainerUnavailable
	// and nothing is written.
	CreateCheckout(ctx context.Context, txn *domain.Transaction, dueAt time.Time) error

	// CloseReturn is the return commit point: one SQL transaction that
	// CAS-moves the container CHECKED_OUT -> target (clearing holder and
	// due date together) and closes the open transaction row. A container
	// not currently checked out yields domain.ErrNotCheckedOut.
	CloseReturn(ctx context.Context, containerID string, returnAt time.Time, wasLate bool, lateFeeCents *int32, target domain.ContainerStatus) (*domain.Transaction, error)

	GetOpenByContainer(ctx context.Context, containerID string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, netID string, page, pageSize int32) ([]domain.Transaction, int32, error)
	CountReturnsByUser(ctx context.Context, netID string) (int, error)

	// ReturnDays lists the distinct calendar days (UTC, descending) on which
	// the user completed at least one return. Feeds the streak calculation.
	ReturnDays(ctx context.Context, netID string) ([]time.Time, error)

	// ReturnCounts maps net-id -> completed return count across all users.
	// Feeds the leaderboard recompute.
	ReturnCounts(ctx context.Context) (map[string]int, error)
}

type ImpactStatsRepository interface {
	Get(ctx context.Context, netID string) (*domain.ImpactStats, error)
	Upsert(ctx context.Context, stats *domain.ImpactStats) error
	SetRank(ctx context.Context, netID string, rank int32) error
	Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, netID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id string, netID string) error
}
