package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

type recordingBroadcaster struct {
	userPayloads map[string][]any
	broadcasts   []any
}

func (b *recordingBroadcaster) BroadcastToUser(userID string, payload any) {
	if b.userPayloads == nil {
		b.userPayloads = make(map[string][]any)
	}
	b.userPayloads[userID] = append(b.userPayloads[userID], payload)
}

func (b *recordingBroadcaster) Broadcast(payload any) {
	b.broadcasts = append(b.broadcasts, payload)
}

func TestNotificationCreatePushesToClient(t *testing.T) {
	db := newTestDB(t)
	broadcaster := &recordingBroadcaster{}
	svc, err := NewNotificationService(db, broadcaster)
	require.NoError(t, err)

	targeted, err := svc.Create(context.Background(), NotificationInput{
		UserID: "user-1",
		Title:  "Direct",
	})
	require.NoError(t, err)
	assert.Equal(t, "info", targeted.Severity)
	require.Len(t, broadcaster.userPayloads["user-1"], 1)

	_, err = svc.Create(context.Background(), NotificationInput{Title: "Everyone"})
	require.NoError(t, err)
	require.Len(t, broadcaster.broadcasts, 1)
}

func TestNotificationListIncludesBroadcasts(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), NotificationInput{UserID: "user-2", Title: "Theirs"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), NotificationInput{Title: "Broadcast"})
	require.NoError(t, err)

	visible, err := svc.List(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestNotificationMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: "Read me"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), "user-1", created.ID))

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Someone else's notification is invisible.
	err = svc.MarkRead(context.Background(), "user-2", created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNotificationMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		_, err = svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: title})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))
	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationDelete(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	owned, err := svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: "Mine"})
	require.NoError(t, err)
	broadcast, err := svc.Create(context.Background(), NotificationInput{Title: "Everyone"})
	require.NoError(t, err)

	// Deleting someone else's notification fails without leaking its existence.
	err = svc.Delete(context.Background(), "user-2", owned.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Broadcast rows are shared and cannot be removed by a single user.
	err = svc.Delete(context.Background(), "user-1", broadcast.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "user-1", owned.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}

func TestNotificationPurgeKeepsUnread(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	read, err := svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: "old read"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(context.Background(), "user-1", read.ID))
	_, err = svc.Create(context.Background(), NotificationInput{UserID: "user-1", Title: "old unread"})
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", "user-1").
		Update("created_at", old).Error)

	purged, err := svc.DeleteOlderThan(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var remaining int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}

func TestAppointmentChangedRecordsNotification(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewNotificationService(db, nil)
	require.NoError(t, err)

	appointment := &models.Appointment{
		BaseModel: models.BaseModel{ID: "appt-1"},
		EventID:   "event-1",
		Status:    models.AppointmentStatusDeclined,
	}
	svc.AppointmentChanged(context.Background(), appointment, models.AppointmentStatusPending)

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "appointment", rows[0].Type)
	assert.Equal(t, "warning", rows[0].Severity)
}
