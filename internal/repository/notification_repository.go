package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, notification models.Notification) error {
	const query = `
		INSERT INTO notifications (
			id, company_id, recipient_id, type, title, message, level, source_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.CompanyID,
		notification.RecipientID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Level,
		notification.SourceID,
	)
	return err
}

// ExistsForSource reports whether a notification of the given type and
// escalation level was already created for a source entity. Keeps the
// reminder sweep idempotent.
func (r *NotificationRepository) ExistsForSource(ctx context.Context, notificationType models.NotificationType, sourceID string, level int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = $1 AND source_id = $2 AND level = $3
		)
	`

	row := r.pool.QueryRow(ctx, query, notificationType, sourceID, level)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int, offset int) ([]models.Notification, error) {
	const query = `
		SELECT id, company_id, recipient_id, type, title, message, level, source_id, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.CompanyID,
			&notification.RecipientID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.Level,
			&notification.SourceID,
			&notification.ReadAt,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID string, id string) error {
	const query = `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
