package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	iauth "github.com/evencio/evencio/internal/auth"
	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/logger"
)

const (
	defaultAuditRetentionDays        = 90
	defaultNotificationRetentionDays = 30
	defaultSessionSpec               = "@hourly"
	defaultRetentionSpec             = "@daily"
	defaultDispatchSpec              = "@every 1m"
)

// Cleaner coordinates background maintenance: purging expired sessions,
// enforcing audit and notification retention, and dispatching scheduled
// campaigns whose send time has arrived.
type Cleaner struct {
	sessions      *iauth.SessionService
	audit         *services.AuditService
	notifications *services.NotificationService
	campaigns     *services.CampaignService
	cron          *cron.Cron
	now           func() time.Time
	log           *zap.Logger

	auditRetention        int
	notificationRetention int

	sessionSchedule   string
	retentionSchedule string
	dispatchSchedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained.
func WithAuditRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.auditRetention = days
		}
	}
}

// WithNotificationRetentionDays adjusts how long read notifications are retained.
func WithNotificationRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.notificationRetention = days
		}
	}
}

// WithDispatchSchedule overrides the cron specification for campaign dispatch.
func WithDispatchSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.dispatchSchedule = spec
		}
	}
}

// WithSessionSchedule overrides the cron specification for session cleanup.
func WithSessionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sessionSchedule = spec
		}
	}
}

// WithRetentionSchedule overrides the cron specification for retention enforcement.
func WithRetentionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.retentionSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Any nil dependency
// results in the corresponding job being skipped.
func NewCleaner(sessions *iauth.SessionService, audit *services.AuditService, notifications *services.NotificationService, campaigns *services.CampaignService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		sessions:              sessions,
		audit:                 audit,
		notifications:         notifications,
		campaigns:             campaigns,
		now:                   time.Now,
		auditRetention:        defaultAuditRetentionDays,
		notificationRetention: defaultNotificationRetentionDays,
		sessionSchedule:       defaultSessionSpec,
		retentionSchedule:     defaultRetentionSpec,
		dispatchSchedule:      defaultDispatchSpec,
		log:                   logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.sessions != nil {
		if _, err := c.cron.AddFunc(c.sessionSchedule, func() {
			if _, err := c.sessions.DeleteExpired(context.Background()); err != nil {
				c.log.Warn("session cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.audit != nil && c.auditRetention > 0 {
		if _, err := c.cron.AddFunc(c.retentionSchedule, func() {
			cutoff := c.now().AddDate(0, 0, -c.auditRetention)
			if _, err := c.audit.DeleteOlderThan(context.Background(), cutoff); err != nil {
				c.log.Warn("audit cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.notifications != nil && c.notificationRetention > 0 {
		if _, err := c.cron.AddFunc(c.retentionSchedule, func() {
			cutoff := c.now().AddDate(0, 0, -c.notificationRetention)
			if _, err := c.notifications.DeleteOlderThan(context.Background(), cutoff); err != nil {
				c.log.Warn("notification cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.campaigns != nil {
		if _, err := c.cron.AddFunc(c.dispatchSchedule, func() {
			if _, err := c.campaigns.DispatchDue(context.Background(), c.now()); err != nil {
				c.log.Warn("campaign dispatch failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured routines sequentially. Used in tests and
// during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.sessions != nil {
		if _, err := c.sessions.DeleteExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.audit != nil && c.auditRetention > 0 {
		cutoff := c.now().AddDate(0, 0, -c.auditRetention)
		if _, err := c.audit.DeleteOlderThan(ctx, cutoff); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.notifications != nil && c.notificationRetention > 0 {
		cutoff := c.now().AddDate(0, 0, -c.notificationRetention)
		if _, err := c.notifications.DeleteOlderThan(ctx, cutoff); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.campaigns != nil {
		if _, err := c.campaigns.DispatchDue(ctx, c.now()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
