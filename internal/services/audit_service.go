package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/pkg/logger"
)

// Audit results.
const (
	AuditResultSuccess = "success"
	AuditResultFailure = "failure"
)

// AuditService records and queries the audit trail.
type AuditService struct {
	db *gorm.DB
}

// AuditEntry describes a single action to record.
type AuditEntry struct {
	UserID    *string
	Username  string
	Action    string
	Resource  string
	Result    string
	IPAddress string
	UserAgent string
	Metadata  map[string]any
}

// ListAuditOptions filters audit queries.
type ListAuditOptions struct {
	UserID string
	Action string
	Since  *time.Time
	Limit  int
}

// NewAuditService constructs an audit service.
func NewAuditService(db *gorm.DB) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	return &AuditService{db: db}, nil
}

// Record appends an entry to the audit trail. Failures are logged but never
// surfaced to the caller, an audit problem must not break the request.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	ctx = ensureContext(ctx)

	row := models.AuditLog{
		UserID:    entry.UserID,
		Username:  strings.TrimSpace(entry.Username),
		Action:    strings.TrimSpace(entry.Action),
		Resource:  strings.TrimSpace(entry.Resource),
		Result:    defaultIfEmpty(entry.Result, AuditResultSuccess),
		IPAddress: strings.TrimSpace(entry.IPAddress),
		UserAgent: strings.TrimSpace(entry.UserAgent),
	}
	if row.Action == "" {
		logger.Warn("audit entry dropped, action missing")
		return
	}
	if len(entry.Metadata) > 0 {
		if raw, err := json.Marshal(entry.Metadata); err == nil {
			row.Metadata = string(raw)
		}
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.Error("audit entry write failed",
			zap.String("action", row.Action),
			zap.Error(err))
	}
}

// List returns audit entries matching the options, newest first.
func (s *AuditService) List(ctx context.Context, opts ListAuditOptions) ([]models.AuditLog, error) {
	ctx = ensureContext(ctx)

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := s.db.WithContext(ctx).Model(&models.AuditLog{}).
		Order("created_at DESC").
		Limit(limit)
	if userID := strings.TrimSpace(opts.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := strings.TrimSpace(opts.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if opts.Since != nil {
		query = query.Where("created_at >= ?", *opts.Since)
	}

	var entries []models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("audit service: list: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes audit entries past the retention window.
func (s *AuditService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: purge: %w", result.Error)
	}
	return result.RowsAffected, nil
}
