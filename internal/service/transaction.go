package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drc-backend/internal/codec"
	"drc-backend/internal/config"
	"drc-backend/internal/domain"
	"drc-backend/internal/lifecycle"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type transactionService struct {
	containerRepo repository.ContainerRepository
	txnRepo       repository.TransactionRepository
	userRepo      repository.UserRepository
	locationRepo  repository.LocationRepository
	impactSvc     ImpactService
	noteSvc       NotificationService
	policy        config.PolicyConfig
	pending       *pendingStore
	tracer        trace.Tracer
	now           func() time.Time
}

func NewTransactionService(
	containerRepo repository.ContainerRepository,
	txnRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	locationRepo repository.LocationRepository,
	impactSvc ImpactService,
	noteSvc NotificationService,
	policy config.PolicyConfig,
) TransactionService {
	return &transactionService{
		containerRepo: containerRepo,
		txnRepo:       txnRepo,
		userRepo:      userRepo,
		locationRepo:  locationRepo,
		impactSvc:     impactSvc,
		noteSvc:       noteSvc,
		policy:        policy,
		pending:       newPendingStore(policy.PendingTTL()),
		tracer:        otel.Tracer("drc-backend/transaction"),
		now:           time.Now,
	}
}

func (s *transactionService) BeginCheckout(ctx context.Context, userNetID, locationCode string) (*PendingCheckout, error) {
	user, err := s.userRepo.GetByNetID(ctx, userNetID)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}

	active, err := s.containerRepo.CountActiveByHolder(ctx, user.NetID)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: count active: %w", err)
	}
	if active >= s.policy.MaxContainersPerUser {
		return nil, &domain.LimitError{Current: active, Max: s.policy.MaxContainersPerUser}
	}

	p := s.pending.put(user.NetID, locationCode, s.now())
	logger.Debug("checkout pending", "pending_id", p.ID, "user", user.NetID, "location", locationCode)
	return p, nil
}

func (s *transactionService) CompleteCheckout(ctx context.Context, pendingID uuid.UUID, containerID string) (*domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "CompleteCheckout",
		trace.WithAttributes(attribute.String("container_id", containerID)))
	defer span.End()

	p := s.pending.get(pendingID, s.now())
	if p == nil {
		return nil, fmt.Errorf("pending checkout %s: %w", pendingID, domain.ErrNotFound)
	}

	// Manual entry and scans converge here; both must be canonical.
	if _, err := codec.ParseContainerID(containerID); err != nil {
		return nil, err
	}

	c, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("complete checkout: %w", err)
	}
	if err := lifecycle.CanCheckout(c); err != nil {
		return nil, err
	}

	// The limit was checked at begin; check again at commit so two pending
	// checkouts for the same user cannot stack past the cap.
	active, err := s.containerRepo.CountActiveByHolder(ctx, p.UserNetID)
	if err != nil {
		return nil, fmt.Errorf("complete checkout: count active: %w", err)
	}
	if active >= s.policy.MaxContainersPerUser {
		return nil, &domain.LimitError{Current: active, Max: s.policy.MaxContainersPerUser}
	}

	now := s.now()
	txn := &domain.Transaction{
		ID:           uuid.New(),
		ContainerID:  c.ContainerID,
		UserNetID:    p.UserNetID,
		CheckoutAt:   now,
		LocationCode: c.LocationCode,
	}
	dueAt := now.Add(s.policy.ReturnWindow())

	// Single commit point: the repo moves the container and appends the
	// transaction row in one SQL transaction. A concurrent winner leaves us
	// with ErrContainerUnavailable and no partial state.
	if err := s.txnRepo.CreateCheckout(ctx, txn, dueAt); err != nil {
		return nil, err
	}
	s.pending.drop(pendingID)

	logger.Info("checkout complete",
		"container", c.ContainerID, "user", p.UserNetID, "due_at", dueAt)
	return txn, nil
}

func (s *transactionService) AbandonCheckout(ctx context.Context, pendingID uuid.UUID) error {
	if !s.pending.drop(pendingID) {
		return fmt.Errorf("pending checkout %s: %w", pendingID, domain.ErrNotFound)
	}
	return nil
}

func (s *transactionService) CompleteReturn(ctx context.Context, containerID string) (*domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "CompleteReturn",
		trace.WithAttributes(attribute.String("container_id", containerID)))
	defer span.End()

	if _, err := codec.ParseContainerID(containerID); err != nil {
		return nil, err
	}

	c, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("complete return: %w", err)
	}
	if err := lifecycle.CanReturn(c); err != nil {
		return nil, err
	}

	now := s.now()
	wasLate := lifecycle.IsOverdue(c, now)
	var lateFee *int32
	if wasLate {
		fee := int32(s.policy.LateFeeCents)
		lateFee = &fee
	}

	target := domain.ContainerStatusAvailable
	if loc, err := s.locationRepo.GetByCode(ctx, c.LocationCode); err == nil {
		target = lifecycle.ReturnTarget(loc.ReturnPolicy)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("complete return: location: %w", err)
	}

	txn, err := s.txnRepo.CloseReturn(ctx, c.ContainerID, now, wasLate, lateFee, target)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("was_late", wasLate))

	logger.Info("return complete",
		"container", c.ContainerID, "user", txn.UserNetID, "was_late", wasLate, "target", target)

	// Eventual by design: stats recompute runs after the commit above and
	// a failure here never unwinds the return.
	s.recomputeImpact(ctx, txn.UserNetID)

	return txn, nil
}

func (s *transactionService) recomputeImpact(ctx context.Context, netID string) {
	stats, newBadges, err := s.impactSvc.RecomputeForUser(ctx, netID)
	if err != nil {
		logger.Error("impact recompute failed", "user", netID, "error", err)
		return
	}
	if len(newBadges) == 0 {
		return
	}
	user, err := s.userRepo.GetByNetID(ctx, netID)
	if err != nil {
		logger.Error("achievement notify: user lookup failed", "user", netID, "error", err)
		return
	}
	for _, badge := range newBadges {
		s.noteSvc.NotifyAchievement(ctx, user, badge)
	}
	logger.Debug("impact updated", "user", netID, "reused", stats.ContainersReused, "new_badges", newBadges)
}

func (s *transactionService) ListUserTransactions(ctx context.Context, netID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if _, err := s.userRepo.GetByNetID(ctx, netID); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return s.txnRepo.ListByUser(ctx, netID, page, pageSize)
}

func (s *transactionService) SweepExpiredPending(ctx context.Context) int {
	removed := s.pending.sweep(s.now())
	if removed > 0 {
		logger.Info("swept expired pending checkouts", "count", removed)
	}
	return removed
}
