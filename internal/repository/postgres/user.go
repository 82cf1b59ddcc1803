package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (net_id, name, email, phone, role, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, u.NetID, u.Name, u.Email, u.Phone, u.Role, time.Now())
	return err
}

func (r *userRepository) GetByNetID(ctx context.Context, netID string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT net_id, name, email, phone, role, created_on FROM users WHERE net_id = $1`
	err := r.db.QueryRowContext(ctx, query, netID).Scan(&u.NetID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", netID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, role string, page, pageSize int32) ([]domain.User, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT net_id, name, email, phone, role, created_on FROM users`
	args := []interface{}{}
	argIdx := 1
	if role != "" {
		query += fmt.Sprintf(" WHERE role = $%d", argIdx)
		args = append(args, role)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY net_id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.NetID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedOn); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, count, rows.Err()
}
