package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evencio/evencio/internal/models"
)

func TestAuditRecordAndList(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	svc.Record(context.Background(), AuditEntry{
		Username: "admin",
		Action:   "event.create",
		Resource: "event:123",
		Metadata: map[string]any{"name": "Salon"},
	})
	svc.Record(context.Background(), AuditEntry{
		Username: "admin",
		Action:   "event.delete",
		Result:   AuditResultFailure,
	})

	entries, err := svc.List(context.Background(), ListAuditOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byAction, err := svc.List(context.Background(), ListAuditOptions{Action: "event.create"})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, AuditResultSuccess, byAction[0].Result)
	assert.Contains(t, byAction[0].Metadata, "Salon")
}

func TestAuditRecordDropsEmptyAction(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	svc.Record(context.Background(), AuditEntry{Username: "ghost"})

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuditRetention(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	svc.Record(context.Background(), AuditEntry{Action: "old.action"})
	svc.Record(context.Background(), AuditEntry{Action: "new.action"})

	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", "old.action").
		Update("created_at", past).Error)

	removed, err := svc.DeleteOlderThan(context.Background(), time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	entries, err := svc.List(context.Background(), ListAuditOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new.action", entries[0].Action)
}
