package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

// NotificationBroadcaster pushes notifications to connected dashboard clients.
// The realtime hub implements it; a nil broadcaster simply skips the push.
type NotificationBroadcaster interface {
	BroadcastToUser(userID string, payload any)
	Broadcast(payload any)
}

// NotificationService manages in-app notifications. A notification with an
// empty UserID addresses every dashboard user.
type NotificationService struct {
	db          *gorm.DB
	broadcaster NotificationBroadcaster
}

// NotificationInput describes a notification payload.
type NotificationInput struct {
	UserID    string
	Type      string
	Title     string
	Message   string
	Severity  string
	ActionURL string
	Metadata  map[string]any
}

// NewNotificationService constructs a notification service.
func NewNotificationService(db *gorm.DB, broadcaster NotificationBroadcaster) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db, broadcaster: broadcaster}, nil
}

// Create stores a notification and pushes it to connected clients.
func (s *NotificationService) Create(ctx context.Context, input NotificationInput) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewBadRequest("Notification title is required")
	}

	notification := models.Notification{
		UserID:    strings.TrimSpace(input.UserID),
		Type:      defaultIfEmpty(input.Type, "system"),
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		Severity:  defaultIfEmpty(input.Severity, "info"),
		ActionURL: strings.TrimSpace(input.ActionURL),
	}
	if len(input.Metadata) > 0 {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("notification service: marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("notification service: create: %w", err)
	}

	if s.broadcaster != nil {
		if notification.UserID == "" {
			s.broadcaster.Broadcast(&notification)
		} else {
			s.broadcaster.BroadcastToUser(notification.UserID, &notification)
		}
	}
	return &notification, nil
}

// List returns notifications visible to the user, newest first. Broadcast
// notifications (empty UserID) are included.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? OR user_id = ''", strings.TrimSpace(userID)).
		Order("created_at DESC").
		Limit(200)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("notification service: list: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("(user_id = ? OR user_id = '') AND is_read = ?", strings.TrimSpace(userID), false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("notification service: unread count: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ctx = ensureContext(ctx)

	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND (user_id = ? OR user_id = '')", strings.TrimSpace(id), strings.TrimSpace(userID)).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if result.Error != nil {
		return fmt.Errorf("notification service: mark read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every notification visible to the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("(user_id = ? OR user_id = '') AND is_read = ?", strings.TrimSpace(userID), false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
	if err != nil {
		return fmt.Errorf("notification service: mark all read: %w", err)
	}
	return nil
}

// Delete removes a notification the user owns. Broadcast rows cannot be
// deleted by individual users, only marked read.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", strings.TrimSpace(id), strings.TrimSpace(userID)).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("notification service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteOlderThan purges read notifications past the retention window. The
// maintenance cron calls this.
func (s *NotificationService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: purge: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// AppointmentChanged implements AppointmentNotifier by recording a broadcast
// notification for the dashboard.
func (s *NotificationService) AppointmentChanged(ctx context.Context, appointment *models.Appointment, previousStatus string) {
	if appointment == nil {
		return
	}

	title := "New appointment request"
	severity := "info"
	if previousStatus != "" {
		title = fmt.Sprintf("Appointment moved from %s to %s", previousStatus, appointment.Status)
		if appointment.Status == models.AppointmentStatusDeclined {
			severity = "warning"
		}
	}

	_, err := s.Create(ctx, NotificationInput{
		Type:     "appointment",
		Title:    title,
		Severity: severity,
		Metadata: map[string]any{
			"appointment_id": appointment.ID,
			"event_id":       appointment.EventID,
			"status":         appointment.Status,
		},
	})
	if err != nil {
		// Notification failures never block the appointment workflow.
		return
	}
}
