package service

import (
	"context"
	"fmt"

	"drc-backend/internal/domain"
	"drc-backend/internal/lifecycle"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository"
)

type facilitiesService struct {
	containerRepo repository.ContainerRepository
	userRepo      repository.UserRepository
}

func NewFacilitiesService(containerRepo repository.ContainerRepository, userRepo repository.UserRepository) FacilitiesService {
	return &facilitiesService{containerRepo: containerRepo, userRepo: userRepo}
}

// authorize loads the acting user and the container, checking the role gate.
func (s *facilitiesService) authorize(ctx context.Context, actorNetID, containerID string) (*domain.Container, error) {
	actor, err := s.userRepo.GetByNetID(ctx, actorNetID)
	if err != nil {
		return nil, fmt.Errorf("facilities action: %w", err)
	}
	if err := lifecycle.RequireFacilities(actor.Role); err != nil {
		return nil, err
	}
	c, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("facilities action: %w", err)
	}
	return c, nil
}

// transition applies the CAS move; a lost race surfaces as unavailable so
// the operator re-reads current state instead of clobbering it.
func (s *facilitiesService) transition(ctx context.Context, c *domain.Container, to domain.ContainerStatus) error {
	ok, err := s.containerRepo.UpdateStatusCAS(ctx, c.ContainerID, c.Status, to)
	if err != nil {
		return fmt.Errorf("transition %s -> %s: %w", c.Status, to, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s changed concurrently", domain.ErrContainerUnavailable, c.ContainerID)
	}
	logger.Info("container transition", "container", c.ContainerID, "from", c.Status, "to", to)
	return nil
}

func (s *facilitiesService) StartCleaning(ctx context.Context, actorNetID, containerID string) error {
	c, err := s.authorize(ctx, actorNetID, containerID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanStartCleaning(c); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.ContainerStatusInCleaning)
}

func (s *facilitiesService) FinishCleaning(ctx context.Context, actorNetID, containerID string) error {
	c, err := s.authorize(ctx, actorNetID, containerID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanFinishCleaning(c); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.ContainerStatusAvailable)
}

func (s *facilitiesService) MarkDamaged(ctx context.Context, actorNetID, containerID string, condition domain.ContainerCondition) error {
	c, err := s.authorize(ctx, actorNetID, containerID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanMarkDamaged(c); err != nil {
		return err
	}
	if err := s.transition(ctx, c, domain.ContainerStatusDamaged); err != nil {
		return err
	}
	if condition != "" {
		if err := s.containerRepo.SetCondition(ctx, containerID, condition); err != nil {
			return fmt.Errorf("mark damaged: set condition: %w", err)
		}
	}
	return nil
}

func (s *facilitiesService) RepairComplete(ctx context.Context, actorNetID, containerID string) error {
	c, err := s.authorize(ctx, actorNetID, containerID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanRepair(c); err != nil {
		return err
	}
	if err := s.transition(ctx, c, domain.ContainerStatusAvailable); err != nil {
		return err
	}
	if err := s.containerRepo.SetCondition(ctx, containerID, domain.ContainerConditionGood); err != nil {
		return fmt.Errorf("repair complete: set condition: %w", err)
	}
	return nil
}

func (s *facilitiesService) Retire(ctx context.Context, actorNetID, containerID string) error {
	c, err := s.authorize(ctx, actorNetID, containerID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanRetire(c); err != nil {
		return err
	}
	return s.transition(ctx, c, domain.ContainerStatusRetired)
}
