package service

import (
	"context"
	"testing"

	"drc-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFacilitiesRoleGate(t *testing.T) {
	ctx := context.Background()
	containerRepo := new(MockContainerRepo)
	userRepo := new(MockUserRepo)
	svc := NewFacilitiesService(containerRepo, userRepo)

	userRepo.On("GetByNetID", ctx, "ab123").Return(&domain.User{NetID: "ab123", Role: domain.RoleStudent}, nil)

	err := svc.StartCleaning(ctx, "ab123", "DRC-MKT-0001")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	containerRepo.AssertNotCalled(t, "UpdateStatusCAS")
}

func TestStartCleaning(t *testing.T) {
	ctx := context.Background()
	facilities := &domain.User{NetID: "jk345", Role: domain.RoleFacilities}

	t.Run("Success", func(t *testing.T) {
		containerRepo := new(MockContainerRepo)
		userRepo := new(MockUserRepo)
		svc := NewFacilitiesService(containerRepo, userRepo)

		userRepo.On("GetByNetID", ctx, "jk345").Return(facilities, nil)
		containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
			Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusAvailable}, nil)
		containerRepo.On("UpdateStatusCAS", ctx, "DRC-MKT-0001", domain.ContainerStatusAvailable, domain.ContainerStatusInCleaning).
			Return(true, nil)

		assert.NoError(t, svc.StartCleaning(ctx, "jk345", "DRC-MKT-0001"))
	})

	t.Run("LostRace", func(t *testing.T) {
		containerRepo := new(MockContainerRepo)
		userRepo := new(MockUserRepo)
		svc := NewFacilitiesService(containerRepo, userRepo)

		userRepo.On("GetByNetID", ctx, "jk345").Return(facilities, nil)
		containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
			Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusAvailable}, nil)
		containerRepo.On("UpdateStatusCAS", ctx, "DRC-MKT-0001", domain.ContainerStatusAvailable, domain.ContainerStatusInCleaning).
			Return(false, nil)

		err := svc.StartCleaning(ctx, "jk345", "DRC-MKT-0001")
		assert.ErrorIs(t, err, domain.ErrContainerUnavailable)
	})

	t.Run("WrongState", func(t *testing.T) {
		containerRepo := new(MockContainerRepo)
		userRepo := new(MockUserRepo)
		svc := NewFacilitiesService(containerRepo, userRepo)

		userRepo.On("GetByNetID", ctx, "jk345").Return(facilities, nil)
		containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
			Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusCheckedOut}, nil)

		err := svc.StartCleaning(ctx, "jk345", "DRC-MKT-0001")
		assert.ErrorIs(t, err, domain.ErrContainerUnavailable)
		containerRepo.AssertNotCalled(t, "UpdateStatusCAS")
	})
}

func TestMarkDamagedAndRepair(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{NetID: "admin1", Role: domain.RoleAdmin}

	containerRepo := new(MockContainerRepo)
	userRepo := new(MockUserRepo)
	svc := NewFacilitiesService(containerRepo, userRepo)

	userRepo.On("GetByNetID", ctx, "admin1").Return(admin, nil)
	containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
		Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusAvailable}, nil).Once()
	containerRepo.On("UpdateStatusCAS", ctx, "DRC-MKT-0001", domain.ContainerStatusAvailable, domain.ContainerStatusDamaged).
		Return(true, nil)
	containerRepo.On("SetCondition", ctx, "DRC-MKT-0001", domain.ContainerConditionPoor).Return(nil)

	assert.NoError(t, svc.MarkDamaged(ctx, "admin1", "DRC-MKT-0001", domain.ContainerConditionPoor))

	containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
		Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusDamaged}, nil).Once()
	containerRepo.On("UpdateStatusCAS", ctx, "DRC-MKT-0001", domain.ContainerStatusDamaged, domain.ContainerStatusAvailable).
		Return(true, nil)
	containerRepo.On("SetCondition", ctx, "DRC-MKT-0001", domain.ContainerConditionGood).Return(nil)

	assert.NoError(t, svc.RepairComplete(ctx, "admin1", "DRC-MKT-0001"))
}

func TestRetire(t *testing.T) {
	ctx := context.Background()
	facilities := &domain.User{NetID: "jk345", Role: domain.RoleFacilities}

	containerRepo := new(MockContainerRepo)
	userRepo := new(MockUserRepo)
	svc := NewFacilitiesService(containerRepo, userRepo)

	userRepo.On("GetByNetID", ctx, "jk345").Return(facilities, nil)
	containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
		Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusDamaged}, nil).Once()
	containerRepo.On("UpdateStatusCAS", ctx, "DRC-MKT-0001", domain.ContainerStatusDamaged, domain.ContainerStatusRetired).
		Return(true, nil)

	assert.NoError(t, svc.Retire(ctx, "jk345", "DRC-MKT-0001"))

	// retiring twice fails before any store write
	containerRepo.On("GetByID", ctx, "DRC-MKT-0001").
		Return(&domain.Container{ContainerID: "DRC-MKT-0001", Status: domain.ContainerStatusRetired}, nil).Once()
	err := svc.Retire(ctx, "jk345", "DRC-MKT-0001")
	assert.ErrorIs(t, err, domain.ErrContainerUnavailable)
}
