package service

import (
	"context"
	"time"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"

	"github.com/google/uuid"
)

// PendingCheckout is the explicit context between the user scan and the
// container scan of a checkout. It can be inspected, completed, or abandoned
// without leaking into unrelated operations, and it expires on its own.
type PendingCheckout struct {
	ID           uuid.UUID `json:"id"`
	UserNetID    string    `json:"user_net_id"`
	LocationCode string    `json:"location_code"`
	StartedAt    time.Time `json:"started_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the pending checkout has timed out.
func (p *PendingCheckout) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

type TransactionService interface {
	// BeginCheckout validates the user and their active-container count and
	// opens a pending context awaiting the container scan.
	BeginCheckout(ctx context.Context, userNetID, locationCode string) (*PendingCheckout, error)

	// CompleteCheckout resolves the container and commits the checkout:
	// holder, due date, checkout count, and the open transaction record all
	// land atomically or not at all.
	CompleteCheckout(ctx context.Context, pendingID uuid.UUID, containerID string) (*domain.Transaction, error)

	// AbandonCheckout discards a pending context.
	AbandonCheckout(ctx context.Context, pendingID uuid.UUID) error

	// CompleteReturn closes the open transaction for a checked-out (or
	// derived-late) container, assessing the late fee when past due, and
	// triggers the impact recompute for the returning user.
	CompleteReturn(ctx context.Context, containerID string) (*domain.Transaction, error)

	// SweepExpiredPending drops timed-out pending checkouts and reports how
	// many were removed.
	SweepExpiredPending(ctx context.Context) int

	// ListUserTransactions pages through a user's checkout history, newest
	// first.
	ListUserTransactions(ctx context.Context, netID string, page, pageSize int32) ([]domain.Transaction, int32, error)
}

type ScanService interface {
	// Resolve decodes a scanned string and checks it against the expected
	// payload kind. A decode miss is ErrInvalidFormat; a valid payload of
	// the wrong kind is ErrTypeMismatch.
	Resolve(ctx context.Context, raw string, expected codec.PayloadKind) (*codec.Payload, error)

	// ResolveManualContainer validates a typed-in container identifier
	// through the same codec as scans.
	ResolveManualContainer(ctx context.Context, input string) (string, error)
}

type ImpactService interface {
	GetStats(ctx context.Context, netID string) (*domain.ImpactStats, error)

	// RecomputeForUser rebuilds the user's stats from transaction history.
	// Returns the stats and any badges earned since the last recompute.
	// Read-only over transactions; idempotent.
	RecomputeForUser(ctx context.Context, netID string) (*domain.ImpactStats, []string, error)

	RecomputeLeaderboard(ctx context.Context) error
	Leaderboard(ctx context.Context, limit int32) ([]domain.ImpactStats, error)
}

type InventoryService interface {
	GetContainer(ctx context.Context, containerID string) (*domain.Container, error)
	ListByLocation(ctx context.Context, locationCode string, page, pageSize int32) ([]domain.Container, int32, error)
	ListUserContainers(ctx context.Context, netID string) ([]domain.Container, error)
	LocationInventory(ctx context.Context, locationCode string) (*domain.InventorySummary, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

type FacilitiesService interface {
	StartCleaning(ctx context.Context, actorNetID, containerID string) error
	FinishCleaning(ctx context.Context, actorNetID, containerID string) error
	MarkDamaged(ctx context.Context, actorNetID, containerID string, condition domain.ContainerCondition) error
	RepairComplete(ctx context.Context, actorNetID, containerID string) error
	Retire(ctx context.Context, actorNetID, containerID string) error
}

type RegistrationService interface {
	// RegisterBatch creates count new containers at a location, numbered
	// consecutively after the highest existing sequence.
	RegisterBatch(ctx context.Context, locationCode string, count int) ([]domain.Container, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, netID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, netID, notificationID string) error

	// NotifyAchievement and NotifyOverdue record in-app notifications and
	// fan out email best-effort; failures never fail the caller.
	NotifyAchievement(ctx context.Context, user *domain.User, badge string)
	NotifyOverdue(ctx context.Context, user *domain.User, c *domain.Container)
}

type EmailService interface {
	SendOverdueReminder(ctx context.Context, email, name, containerID string, dueAt time.Time) error
	SendAchievementUnlocked(ctx context.Context, email, name, badge string) error
}
