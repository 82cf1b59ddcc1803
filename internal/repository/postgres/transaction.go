package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/repository"

	"github.com/google/uuid"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateCheckout(ctx context.Context, txn *domain.Transaction, dueAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Holder and due date are set together with the status swap; the guard
	// on status serializes concurrent checkouts of the same container.
	res, err := tx.ExecContext(ctx,
		`UPDATE containers
		 SET status = $2, current_holder = $3, due_at = $4, checkout_count = checkout_count + 1, updated_on = $5
		 WHERE container_id = $1 AND status = $6`,
		txn.ContainerID, domain.ContainerStatusCheckedOut, txn.UserNetID, dueAt, time.Now(),
		domain.ContainerStatusAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("checkout %s: %w", txn.ContainerID, domain.ErrContainerUnavailable)
	}

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedOn = time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, container_id, user_net_id, checkout_at, location_code, was_late, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		txn.ID, txn.ContainerID, txn.UserNetID, txn.CheckoutAt, txn.LocationCode, false, txn.CreatedOn)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *transactionRepository) CloseReturn(ctx context.Context, containerID string, returnAt time.Time, wasLate bool, lateFeeCents *int32, target domain.ContainerStatus) (*domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE containers
		 SET status = $2, current_holder = NULL, due_at = NULL, updated_on = $3
		 WHERE container_id = $1 AND status = $4`,
		containerID, target, time.Now(), domain.ContainerStatusCheckedOut)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("return %s: %w", containerID, domain.ErrNotCheckedOut)
	}

	txn := &domain.Transaction{ContainerID: containerID, ReturnAt: &returnAt, WasLate: wasLate, LateFeeCents: lateFeeCents}
	var fee sql.NullInt32
	if lateFeeCents != nil {
		fee = sql.NullInt32{Int32: *lateFeeCents, Valid: true}
	}
	err = tx.QueryRowContext(ctx,
		`UPDATE transactions SET return_at = $2, was_late = $3, late_fee_cents = $4
		 WHERE container_id = $1 AND return_at IS NULL
		 RETURNING id, user_net_id, checkout_at, location_code, created_on`,
		containerID, returnAt, wasLate, fee).
		Scan(&txn.ID, &txn.UserNetID, &txn.CheckoutAt, &txn.LocationCode, &txn.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		// Container row said CHECKED_OUT but no open transaction exists;
		// refuse rather than invent history.
		return nil, fmt.Errorf("return %s: no open transaction: %w", containerID, domain.ErrNotCheckedOut)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return txn, nil
}

const transactionColumns = `id, container_id, user_net_id, checkout_at, return_at, location_code, was_late, late_fee_cents, created_on`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var returnAt sql.NullTime
	var fee sql.NullInt32
	err := row.Scan(&t.ID, &t.ContainerID, &t.UserNetID, &t.CheckoutAt, &returnAt, &t.LocationCode,
		&t.WasLate, &fee, &t.CreatedOn)
	if err != nil {
		return nil, err
	}
	if returnAt.Valid {
		at := returnAt.Time
		t.ReturnAt = &at
	}
	if fee.Valid {
		f := fee.Int32
		t.LateFeeCents = &f
	}
	return t, nil
}

func (r *transactionRepository) GetOpenByContainer(ctx context.Context, containerID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE container_id = $1 AND return_at IS NULL`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, containerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("open transaction for %s: %w", containerID, domain.ErrNotFound)
	}
	return t, err
}

func (r *transactionRepository) ListByUser(ctx context.Context, netID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM transactions WHERE user_net_id = $1`, netID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_net_id = $1 ORDER BY checkout_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, netID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *t)
	}
	return txns, count, rows.Err()
}

func (r *transactionRepository) CountReturnsByUser(ctx context.Context, netID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM transactions WHERE user_net_id = $1 AND return_at IS NOT NULL`, netID).Scan(&count)
	return count, err
}

func (r *transactionRepository) ReturnDays(ctx context.Context, netID string) ([]time.Time, error) {
	query := `SELECT DISTINCT (return_at AT TIME ZONE 'UTC')::date AS day
	          FROM transactions WHERE user_net_id = $1 AND return_at IS NOT NULL
	          ORDER BY day DESC`
	rows, err := r.db.QueryContext(ctx, query, netID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *transactionRepository) ReturnCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_net_id, count(*) FROM transactions WHERE return_at IS NOT NULL GROUP BY user_net_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var netID string
		var count int
		if err := rows.Scan(&netID, &count); err != nil {
			return nil, err
		}
		counts[netID] = count
	}
	return counts, rows.Err()
}
