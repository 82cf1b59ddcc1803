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

type containerRepository struct {
	db *sql.DB
}

func NewContainerRepository(db *sql.DB) repository.ContainerRepository {
	return &containerRepository{db: db}
}

const containerColumns = `container_id, rfid_tag, status, current_holder, due_at, location_code, checkout_count, condition, created_on, updated_on`

func scanContainer(row interface{ Scan(...interface{}) error }) (*domain.Container, error) {
	c := &domain.Container{}
	var holder sql.NullString
	var dueAt sql.NullTime
	err := row.Scan(&c.ContainerID, &c.RFIDTag, &c.Status, &holder, &dueAt, &c.LocationCode,
		&c.CheckoutCount, &c.Condition, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if holder.Valid {
		c.CurrentHolder = &holder.String
	}
	if dueAt.Valid {
		t := dueAt.Time
		c.DueAt = &t
	}
	return c, nil
}

func (r *containerRepository) Create(ctx context.Context, c *domain.Container) error {
	query := `INSERT INTO containers (container_id, rfid_tag, status, location_code, checkout_count, condition, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, c.ContainerID, c.RFIDTag, c.Status, c.LocationCode,
		c.CheckoutCount, c.Condition, now, now)
	return err
}

func (r *containerRepository) CreateBatch(ctx context.Context, cs []*domain.Container) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO containers (container_id, rfid_tag, status, location_code, checkout_count, condition, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	now := time.Now()
	for _, c := range cs {
		if _, err := tx.ExecContext(ctx, query, c.ContainerID, c.RFIDTag, c.Status, c.LocationCode,
			c.CheckoutCount, c.Condition, now, now); err != nil {
			return fmt.Errorf("insert container %s: %w", c.ContainerID, err)
		}
	}
	return tx.Commit()
}

func (r *containerRepository) GetByID(ctx context.Context, containerID string) (*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE container_id = $1`
	c, err := scanContainer(r.db.QueryRowContext(ctx, query, containerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("container %s: %w", containerID, domain.ErrNotFound)
	}
	return c, err
}

func (r *containerRepository) GetByRFIDTag(ctx context.Context, tag string) (*domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE rfid_tag = $1`
	c, err := scanContainer(r.db.QueryRowContext(ctx, query, tag))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rfid tag %s: %w", tag, domain.ErrNotFound)
	}
	return c, err
}

func (r *containerRepository) ListByLocation(ctx context.Context, locationCode string, page, pageSize int32) ([]domain.Container, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM containers WHERE location_code = $1`, locationCode).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + containerColumns + ` FROM containers WHERE location_code = $1 ORDER BY container_id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, locationCode, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var containers []domain.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, 0, err
		}
		containers = append(containers, *c)
	}
	return containers, count, rows.Err()
}

func (r *containerRepository) ListByHolder(ctx context.Context, netID string) ([]domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE current_holder = $1 ORDER BY due_at`
	rows, err := r.db.QueryContext(ctx, query, netID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []domain.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, err
		}
		containers = append(containers, *c)
	}
	return containers, rows.Err()
}

func (r *containerRepository) CountActiveByHolder(ctx context.Context, netID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM containers WHERE current_holder = $1 AND status = $2`,
		netID, domain.ContainerStatusCheckedOut).Scan(&count)
	return count, err
}

func (r *containerRepository) UpdateStatusCAS(ctx context.Context, containerID string, from, to domain.ContainerStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE containers SET status = $3, updated_on = $4 WHERE container_id = $1 AND status = $2`,
		containerID, from, to, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *containerRepository) SetCondition(ctx context.Context, containerID string, cond domain.ContainerCondition) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE containers SET condition = $2, updated_on = $3 WHERE container_id = $1`,
		containerID, cond, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("container %s: %w", containerID, domain.ErrNotFound)
	}
	return nil
}

func (r *containerRepository) MaxSequence(ctx context.Context, locationCode string) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(split_part(container_id, '-', 3) AS INTEGER)), 0)
		 FROM containers WHERE location_code = $1`, locationCode).Scan(&max)
	return max, err
}

func (r *containerRepository) InventorySummary(ctx context.Context, locationCode string, now time.Time) (*domain.InventorySummary, error) {
	// Derived LATE is computed in SQL so the summary never requires a write.
	query := `SELECT CASE WHEN status = 'CHECKED_OUT' AND due_at < $2 THEN 'LATE' ELSE status END AS effective, count(*)
	          FROM containers WHERE location_code = $1 GROUP BY effective`
	rows, err := r.db.QueryContext(ctx, query, locationCode, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &domain.InventorySummary{
		LocationCode: locationCode,
		ByStatus:     make(map[domain.ContainerStatus]int32),
	}
	for rows.Next() {
		var status domain.ContainerStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.ByStatus[status] = count
		summary.Total += count
	}
	return summary, rows.Err()
}

func (r *containerRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE status = $1 AND due_at < $2 ORDER BY due_at`
	rows, err := r.db.QueryContext(ctx, query, domain.ContainerStatusCheckedOut, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []domain.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, err
		}
		containers = append(containers, *c)
	}
	return containers, rows.Err()
}
