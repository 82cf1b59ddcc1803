package service

import (
	"context"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/lifecycle"
	"drc-backend/internal/repository"
)

type inventoryService struct {
	containerRepo repository.ContainerRepository
	locationRepo  repository.LocationRepository
	now           func() time.Time
}

func NewInventoryService(containerRepo repository.ContainerRepository, locationRepo repository.LocationRepository) InventoryService {
	return &inventoryService{containerRepo: containerRepo, locationRepo: locationRepo, now: time.Now}
}

// applyEffective rewrites the stored status to the derived view, so callers
// see LATE without any row ever holding it.
func (s *inventoryService) applyEffective(c *domain.Container) {
	c.Status = lifecycle.EffectiveStatus(c.Status, c.DueAt, s.now())
}

func (s *inventoryService) GetContainer(ctx context.Context, containerID string) (*domain.Container, error) {
	c, err := s.containerRepo.GetByID(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}
	s.applyEffective(c)
	return c, nil
}

func (s *inventoryService) ListByLocation(ctx context.Context, locationCode string, page, pageSize int32) ([]domain.Container, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	cs, total, err := s.containerRepo.ListByLocation(ctx, locationCode, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list containers: %w", err)
	}
	for i := range cs {
		s.applyEffective(&cs[i])
	}
	return cs, total, nil
}

func (s *inventoryService) ListUserContainers(ctx context.Context, netID string) ([]domain.Container, error) {
	cs, err := s.containerRepo.ListByHolder(ctx, netID)
	if err != nil {
		return nil, fmt.Errorf("list user containers: %w", err)
	}
	for i := range cs {
		s.applyEffective(&cs[i])
	}
	return cs, nil
}

func (s *inventoryService) LocationInventory(ctx context.Context, locationCode string) (*domain.InventorySummary, error) {
	if _, err := s.locationRepo.GetByCode(ctx, locationCode); err != nil {
		return nil, fmt.Errorf("location inventory: %w", err)
	}
	summary, err := s.containerRepo.InventorySummary(ctx, locationCode, s.now())
	if err != nil {
		return nil, fmt.Errorf("location inventory: %w", err)
	}
	return summary, nil
}

func (s *inventoryService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locationRepo.List(ctx)
}
