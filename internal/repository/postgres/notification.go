package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return fmt.Errorf("marshal notification attributes: %w", err)
	}
	note.CreatedOn = time.Now()
	query := `INSERT INTO notifications (id, user_net_id, title, message, attributes, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, note.ID, note.UserNetID, note.Title, note.Message,
		attrs, false, note.CreatedOn)
	return err
}

func (r *notificationRepository) List(ctx context.Context, netID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_net_id = $1`, netID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_net_id, title, message, attributes, is_read, created_on
	          FROM notifications WHERE user_net_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, netID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserNetID, &n.Title, &n.Message, &attrs, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification attributes: %w", err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string, netID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_net_id = $2`, id, netID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
