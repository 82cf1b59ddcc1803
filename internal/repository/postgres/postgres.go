package postgres

import (
	"database/sql"

	"drc-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.LocationRepository
	repository.ContainerRepository
	repository.TransactionRepository
	repository.ImpactStatsRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		LocationRepository:     NewLocationRepository(db),
		ContainerRepository:    NewContainerRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		ImpactStatsRepository:  NewImpactStatsRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
