package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

const notificationListLimit = 50

type NotificationInput struct {
	UserID   uuid.UUID
	Type     string
	Title    string
	Message  string
	Link     *string
	Metadata map[string]any
}

type NotificationService struct {
	db *database.DB
}

func NewNotificationService(db *database.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create goes through the create_user_notification function and returns the new id.
func (s *NotificationService) Create(ctx context.Context, in NotificationInput) (uuid.UUID, error) {
	metadata := []byte("{}")
	if in.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(in.Metadata); err != nil {
			return uuid.Nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
	}

	var id uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT create_user_notification($1, $2, $3, $4, $5, $6::jsonb)
	`, in.UserID, in.Type, in.Title, in.Message, in.Link, string(metadata)).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return id, nil
}

// List returns the newest notifications of a user.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, type, title, message, link, metadata, is_read, created_at
		FROM user_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &metadata, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Metadata = json.RawMessage(metadata)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_notifications WHERE user_id = $1 AND NOT is_read
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE user_notifications SET is_read = true WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE user_notifications SET is_read = true WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
