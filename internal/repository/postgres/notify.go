package postgres

import (
	"context"
	"database/sql"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/notify"
)

// NotificationRepo implements notify.Repository against PostgreSQL.
type NotificationRepo struct{ db *sql.DB }

// NewNotificationRepo creates a Postgres-backed notification repository.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return wrapErr("create notification", err)
	}
	return nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, wrapErr("list notifications", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, wrapErr("scan notification", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return wrapErr("mark notification read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("mark notification read", err)
	}
	if n == 0 {
		return notify.ErrNotFound
	}
	return nil
}
