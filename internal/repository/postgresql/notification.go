package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

// Insert implements notification.NotificationRepository.
func (r *notificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	payloadJSON, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	query := `
		INSERT INTO notifications (id, worker_id, event, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := q.Exec(ctx, query, n.ID, n.WorkerID, n.Event, payloadJSON, n.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// ListByWorker implements notification.NotificationRepository.
func (r *notificationRepository) ListByWorker(ctx context.Context, workerID string, limit, offset int) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE worker_id = $1`
	if err := q.QueryRow(ctx, countQuery, workerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, worker_id, event, payload, created_at
		FROM notifications
		WHERE worker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, workerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var payloadJSON []byte
		if err := rows.Scan(&n.ID, &n.WorkerID, &n.Event, &payloadJSON, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &n.Payload); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification payload: %w", err)
			}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}
