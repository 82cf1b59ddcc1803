package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"drc-backend/internal/config"
	"drc-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/sync/errgroup"
)

var testPolicy = config.PolicyConfig{
	ReturnWindowHours:    72,
	MaxContainersPerUser: 5,
	LateFeeCents:         500,
	GracePeriodHours:     24,
	PendingCheckoutTTL:   120,
}

type txnFixture struct {
	containerRepo *MockContainerRepo
	txnRepo       *MockTransactionRepo
	userRepo      *MockUserRepo
	locationRepo  *MockLocationRepo
	impactSvc     *MockImpactSvc
	noteSvc       *MockNotificationSvc
	svc           *transactionService
	now           time.Time
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()
	f := &txnFixture{
		containerRepo: new(MockContainerRepo),
		txnRepo:       new(MockTransactionRepo),
		userRepo:      new(MockUserRepo),
		locationRepo:  new(MockLocationRepo),
		impactSvc:     new(MockImpactSvc),
		noteSvc:       new(MockNotificationSvc),
		now:           time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewTransactionService(
		f.containerRepo, f.txnRepo, f.userRepo, f.locationRepo,
		f.impactSvc, f.noteSvc, testPolicy,
	).(*transactionService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func availableContainer(id string) *domain.Container {
	return &domain.Container{
		ContainerID:  id,
		Status:       domain.ContainerStatusAvailable,
		LocationCode: "MKT",
	}
}

func TestBeginCheckout(t *testing.T) {
	ctx := context.Background()
	student := &domain.User{NetID: "ab123", Name: "Alice", Role: domain.RoleStudent}

	t.Run("Success", func(t *testing.T) {
		f := newTxnFixture(t)
		f.userRepo.On("GetByNetID", ctx, "ab123").Return(student, nil)
		f.containerRepo.On("CountActiveByHolder", ctx, "ab123").Return(2, nil)

		pending, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
		assert.NoError(t, err)
		assert.Equal(t, "ab123", pending.UserNetID)
		assert.Equal(t, "MKT", pending.LocationCode)
		assert.Equal(t, f.now.Add(120*time.Second), pending.ExpiresAt)
	})

	t.Run("LimitReached", func(t *testing.T) {
		f := newTxnFixture(t)
		f.userRepo.On("GetByNetID", ctx, "ab123").Return(student, nil)
		f.containerRepo.On("CountActiveByHolder", ctx, "ab123").Return(5, nil)

		pending, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
		assert.Nil(t, pending)
		assert.ErrorIs(t, err, domain.ErrUserLimitReached)

		var limitErr *domain.LimitError
		assert.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 5, limitErr.Current)
		assert.Equal(t, 5, limitErr.Max)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newTxnFixture(t)
		f.userRepo.On("GetByNetID", ctx, "nobody").Return(nil, domain.ErrNotFound)

		_, err := f.svc.BeginCheckout(ctx, "nobody", "MKT")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCompleteCheckout(t *testing.T) {
	ctx := context.Background()
	student := &domain.User{NetID: "ab123", Name: "Alice", Role: domain.RoleStudent}

	begin := func(f *txnFixture) *PendingCheckout {
		f.userRepo.On("GetByNetID", ctx, "ab123").Return(student, nil)
		f.containerRepo.On("CountActiveByHolder", ctx, "ab123").Return(0, nil)
		pending, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
		assert.NoError(t, err)
		return pending
	}

	t.Run("Success", func(t *testing.T) {
		f := newTxnFixture(t)
		pending := begin(f)

		f.containerRepo.On("GetByID", ctx, "DRC-MKT-0042").Return(availableContainer("DRC-MKT-0042"), nil)
		f.txnRepo.On("CreateCheckout", ctx, mock.AnythingOfType("*domain.Transaction"), f.now.Add(72*time.Hour)).Return(nil)

		txn, err := f.svc.CompleteCheckout(ctx, pending.ID, "DRC-MKT-0042")
		assert.NoError(t, err)
		assert.Equal(t, "DRC-MKT-0042", txn.ContainerID)
		assert.Equal(t, "ab123", txn.UserNetID)
		assert.Equal(t, f.now, txn.CheckoutAt)
		assert.Nil(t, txn.ReturnAt)

		// committed checkout consumes the pending context
		_, err = f.svc.CompleteCheckout(ctx, pending.ID, "DRC-MKT-0042")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ContainerAlreadyCheckedOut", func(t *testing.T) {
		f := newTxnFixture(t)
		pending := begin(f)

		held := availableContainer("DRC-MKT-0042")
		held.Status = domain.ContainerStatusCheckedOut
		f.containerRepo.On("GetByID", ctx, "DRC-MKT-0042").Return(held, nil)

		_, err := f.svc.CompleteCheckout(ctx, pending.ID, "DRC-MKT-0042")
		assert.ErrorIs(t, err, domain.ErrContainerUnavailable)
		f.txnRepo.AssertNotCalled(t, "CreateCheckout")

		// the failed scan leaves the pending context usable for a retry
		f.containerRepo.On("GetByID", ctx, "DRC-MKT-0043").Return(availableContainer("DRC-MKT-0043"), nil)
		f.txnRepo.On("CreateCheckout", ctx, mock.AnythingOfType("*domain.Transaction"), mock.Anything).Return(nil)
		txn, err := f.svc.CompleteCheckout(ctx, pending.ID, "DRC-MKT-0043")
		assert.NoError(t, err)
		assert.Equal(t, "DRC-MKT-0043", txn.ContainerID)
	})

	t.Run("MalformedContainerID", func(t *testing.T) {
		f := newTxnFixture(t)
		pending := begin(f)

		_, err := f.svc.CompleteCheckout(ctx, pending.ID, "not-a-container")
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("UnknownPending", func(t *testing.T) {
		f := newTxnFixture(t)
		_, err := f.svc.CompleteCheckout(ctx, uuid.New(), "DRC-MKT-0042")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ExpiredPending", func(t *testing.T) {
		f := newTxnFixture(t)
		pending := begin(f)

		f.now = f.now.Add(121 * time.Second)
		_, err := f.svc.CompleteCheckout(ctx, pending.ID, "DRC-MKT-0042")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConcurrentCheckoutExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newTxnFixture(t)

	f.userRepo.On("GetByNetID", ctx, mock.Anything).Return(&domain.User{NetID: "x", Role: domain.RoleStudent}, nil)
	f.containerRepo.On("CountActiveByHolder", ctx, mock.Anything).Return(0, nil)
	f.containerRepo.On("GetByID", ctx, "DRC-MKT-0042").Return(availableContainer("DRC-MKT-0042"), nil)

	// the repo's CAS admits exactly one committer
	var committed int32
	f.txnRepo.On("CreateCheckout", ctx, mock.AnythingOfType("*domain.Transaction"), mock.Anything).
		Return(nil).
		Once().
		Run(func(mock.Arguments) { atomic.AddInt32(&committed, 1) })
	f.txnRepo.On("CreateCheckout", ctx, mock.AnythingOfType("*domain.Transaction"), mock.Anything).
		Return(domain.ErrContainerUnavailable)

	p1, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
	assert.NoError(t, err)
	p2, err := f.svc.BeginCheckout(ctx, "cd456", "MKT")
	assert.NoError(t, err)

	var wins, losses int32
	g := new(errgroup.Group)
	for _, pending := range []*PendingCheckout{p1, p2} {
		p := pending
		g.Go(func() error {
			_, err := f.svc.CompleteCheckout(ctx, p.ID, "DRC-MKT-0042")
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case assert.ErrorIs(t, err, domain.ErrContainerUnavailable):
				atomic.AddInt32(&losses, 1)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(1), losses)
	assert.Equal(t, int32(1), atomic.LoadInt32(&committed))
}

func TestCompleteReturn(t *testing.T) {
	ctx := context.Background()

	checkedOut := func(dueAt time.Time) *domain.Container {
		holder := "ab123"
		return &domain.Container{
			ContainerID:   "DRC-MKT-0042",
			Status:        domain.ContainerStatusCheckedOut,
			CurrentHolder: &holder,
			DueAt:         &dueAt,
			LocationCode:  "MKT",
		}
	}
	cleaningLoc := &domain.Location{Code: "MKT", ReturnPolicy: domain.ReturnPolicyCleaning}

	t.Run("OnTime", func(t *testing.T) {
		f := newTxnFixture(t)
		c := checkedOut(f.now.Add(24 * time.Hour))
		returnAt := f.now
		closed := &domain.Transaction{ID: uuid.New(), ContainerID: c.ContainerID, UserNetID: "ab123", ReturnAt: &returnAt}

		f.containerRepo.On("GetByID", ctx, c.ContainerID).Return(c, nil)
		f.locationRepo.On("GetByCode", ctx, "MKT").Return(cleaningLoc, nil)
		f.txnRepo.On("CloseReturn", ctx, c.ContainerID, f.now, false, (*int32)(nil), domain.ContainerStatusInCleaning).Return(closed, nil)
		f.impactSvc.On("RecomputeForUser", ctx, "ab123").Return(&domain.ImpactStats{UserNetID: "ab123"}, []string{}, nil)

		txn, err := f.svc.CompleteReturn(ctx, c.ContainerID)
		assert.NoError(t, err)
		assert.False(t, txn.WasLate)
		f.impactSvc.AssertCalled(t, "RecomputeForUser", ctx, "ab123")
		f.noteSvc.AssertNotCalled(t, "NotifyAchievement")
	})

	t.Run("LateReturnAssessesFee", func(t *testing.T) {
		f := newTxnFixture(t)
		c := checkedOut(f.now.Add(-2 * time.Hour))
		fee := int32(500)
		returnAt := f.now
		closed := &domain.Transaction{ID: uuid.New(), ContainerID: c.ContainerID, UserNetID: "ab123", ReturnAt: &returnAt, WasLate: true, LateFeeCents: &fee}

		f.containerRepo.On("GetByID", ctx, c.ContainerID).Return(c, nil)
		f.locationRepo.On("GetByCode", ctx, "MKT").Return(cleaningLoc, nil)
		f.txnRepo.On("CloseReturn", ctx, c.ContainerID, f.now, true, &fee, domain.ContainerStatusInCleaning).Return(closed, nil)
		f.impactSvc.On("RecomputeForUser", ctx, "ab123").Return(&domain.ImpactStats{UserNetID: "ab123"}, []string{}, nil)

		txn, err := f.svc.CompleteReturn(ctx, c.ContainerID)
		assert.NoError(t, err)
		assert.True(t, txn.WasLate)
		assert.Equal(t, int32(500), *txn.LateFeeCents)
	})

	t.Run("NotCheckedOut", func(t *testing.T) {
		f := newTxnFixture(t)
		f.containerRepo.On("GetByID", ctx, "DRC-MKT-0042").Return(availableContainer("DRC-MKT-0042"), nil)

		_, err := f.svc.CompleteReturn(ctx, "DRC-MKT-0042")
		assert.ErrorIs(t, err, domain.ErrNotCheckedOut)
		f.txnRepo.AssertNotCalled(t, "CloseReturn")
	})

	t.Run("NewBadgeNotifies", func(t *testing.T) {
		f := newTxnFixture(t)
		c := checkedOut(f.now.Add(24 * time.Hour))
		returnAt := f.now
		closed := &domain.Transaction{ID: uuid.New(), ContainerID: c.ContainerID, UserNetID: "ab123", ReturnAt: &returnAt}
		student := &domain.User{NetID: "ab123", Name: "Alice", Email: "ab123@campus.edu"}

		f.containerRepo.On("GetByID", ctx, c.ContainerID).Return(c, nil)
		f.locationRepo.On("GetByCode", ctx, "MKT").Return(cleaningLoc, nil)
		f.txnRepo.On("CloseReturn", ctx, c.ContainerID, f.now, false, (*int32)(nil), domain.ContainerStatusInCleaning).Return(closed, nil)
		f.impactSvc.On("RecomputeForUser", ctx, "ab123").Return(&domain.ImpactStats{UserNetID: "ab123", ContainersReused: 50}, []string{"Eco Warrior"}, nil)
		f.userRepo.On("GetByNetID", ctx, "ab123").Return(student, nil)
		f.noteSvc.On("NotifyAchievement", ctx, student, "Eco Warrior").Return()

		_, err := f.svc.CompleteReturn(ctx, c.ContainerID)
		assert.NoError(t, err)
		f.noteSvc.AssertCalled(t, "NotifyAchievement", ctx, student, "Eco Warrior")
	})
}

func TestAbandonCheckout(t *testing.T) {
	ctx := context.Background()
	f := newTxnFixture(t)
	f.userRepo.On("GetByNetID", ctx, "ab123").Return(&domain.User{NetID: "ab123"}, nil)
	f.containerRepo.On("CountActiveByHolder", ctx, "ab123").Return(0, nil)

	pending, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
	assert.NoError(t, err)

	assert.NoError(t, f.svc.AbandonCheckout(ctx, pending.ID))
	assert.ErrorIs(t, f.svc.AbandonCheckout(ctx, pending.ID), domain.ErrNotFound)
}

func TestSweepExpiredPending(t *testing.T) {
	ctx := context.Background()
	f := newTxnFixture(t)
	f.userRepo.On("GetByNetID", ctx, mock.Anything).Return(&domain.User{NetID: "ab123"}, nil)
	f.containerRepo.On("CountActiveByHolder", ctx, mock.Anything).Return(0, nil)

	_, err := f.svc.BeginCheckout(ctx, "ab123", "MKT")
	assert.NoError(t, err)
	_, err = f.svc.BeginCheckout(ctx, "ab123", "WU")
	assert.NoError(t, err)

	assert.Equal(t, 0, f.svc.SweepExpiredPending(ctx))

	f.now = f.now.Add(3 * time.Minute)
	assert.Equal(t, 2, f.svc.SweepExpiredPending(ctx))
}
