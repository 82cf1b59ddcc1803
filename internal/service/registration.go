package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository"
)

const maxBatchSize = 500

type registrationService struct {
	containerRepo repository.ContainerRepository
	locationRepo  repository.LocationRepository
	rng           *rand.Rand
	now           func() time.Time
}

func NewRegistrationService(containerRepo repository.ContainerRepository, locationRepo repository.LocationRepository) RegistrationService {
	return &registrationService{
		containerRepo: containerRepo,
		locationRepo:  locationRepo,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
	}
}

func (s *registrationService) RegisterBatch(ctx context.Context, locationCode string, count int) ([]domain.Container, error) {
	if count < 1 || count > maxBatchSize {
		return nil, fmt.Errorf("%w: batch size must be 1-%d, got %d", domain.ErrInvalidFormat, maxBatchSize, count)
	}
	loc, err := s.locationRepo.GetByCode(ctx, locationCode)
	if err != nil {
		return nil, fmt.Errorf("register batch: %w", err)
	}

	highest, err := s.containerRepo.MaxSequence(ctx, loc.Code)
	if err != nil {
		return nil, fmt.Errorf("register batch: max sequence: %w", err)
	}
	ids, err := codec.GenerateIDRange(loc.Code, highest+1, count)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batch := make([]*domain.Container, 0, len(ids))
	for _, id := range ids {
		cid := id.String()
		batch = append(batch, &domain.Container{
			ContainerID:  cid,
			RFIDTag:      codec.GenerateRFIDTag(cid, s.rng),
			Status:       domain.ContainerStatusAvailable,
			LocationCode: loc.Code,
			Condition:    domain.ContainerConditionGood,
			CreatedOn:    now,
			UpdatedOn:    now,
		})
	}
	if err := s.containerRepo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("register batch: %w", err)
	}

	logger.Info("registered container batch",
		"location", loc.Code, "count", count, "first", batch[0].ContainerID, "last", batch[len(batch)-1].ContainerID)

	out := make([]domain.Container, len(batch))
	for i, c := range batch {
		out[i] = *c
	}
	return out, nil
}
