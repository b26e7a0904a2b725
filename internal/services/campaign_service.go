package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/templates"
	apperrors "github.com/evencio/evencio/pkg/errors"
	"github.com/evencio/evencio/pkg/logger"
	"github.com/evencio/evencio/pkg/mail"
	"github.com/evencio/evencio/pkg/metrics"
)

// CampaignService manages bulk email campaigns built on templates.
type CampaignService struct {
	db     *gorm.DB
	mailer mail.Mailer
	clock  func() time.Time
}

// CampaignInput describes a campaign create payload. The template reference
// is mandatory and must point at an active template visible to the event.
type CampaignInput struct {
	Name            string
	TemplateID      string
	Subject         string
	ParticipantType string
	ScheduledAt     *time.Time
}

// ListCampaignsOptions filters campaign listings.
type ListCampaignsOptions struct {
	Status string
}

// NewCampaignService constructs a campaign service.
func NewCampaignService(db *gorm.DB, mailer mail.Mailer) (*CampaignService, error) {
	if db == nil {
		return nil, errors.New("campaign service: db is required")
	}
	return &CampaignService{db: db, mailer: mailer, clock: time.Now}, nil
}

// Create records a campaign in SCHEDULED status. Campaigns without a
// ScheduledAt are dispatched explicitly through Send.
func (s *CampaignService) Create(ctx context.Context, eventID string, input CampaignInput) (*models.Campaign, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("campaign service: load event: %w", err)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("Campaign name is required")
	}

	tpl, err := s.loadTemplate(ctx, eventID, input.TemplateID)
	if err != nil {
		return nil, err
	}

	audience := strings.ToUpper(strings.TrimSpace(input.ParticipantType))
	if audience != "" && !isParticipantType(audience) {
		return nil, apperrors.NewBadRequest("Unknown participant type")
	}

	campaign := models.Campaign{
		EventID:         event.ID,
		TemplateID:      tpl.ID,
		Name:            strings.TrimSpace(input.Name),
		Subject:         strings.TrimSpace(input.Subject),
		Status:          models.CampaignStatusScheduled,
		ParticipantType: audience,
		ScheduledAt:     input.ScheduledAt,
	}

	if err := s.db.WithContext(ctx).Create(&campaign).Error; err != nil {
		return nil, fmt.Errorf("campaign service: create: %w", err)
	}
	return &campaign, nil
}

// Get loads a campaign with its template preloaded.
func (s *CampaignService) Get(ctx context.Context, eventID, id string) (*models.Campaign, error) {
	ctx = ensureContext(ctx)

	var campaign models.Campaign
	err := s.db.WithContext(ctx).
		Preload("Template").
		First(&campaign, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("campaign service: get: %w", err)
	}
	return &campaign, nil
}

// List returns the event's campaigns, newest first.
func (s *CampaignService) List(ctx context.Context, eventID string, opts ListCampaignsOptions) ([]models.Campaign, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Preload("Template").
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("created_at DESC")
	if status := strings.ToUpper(strings.TrimSpace(opts.Status)); status != "" {
		query = query.Where("status = ?", status)
	}

	var campaigns []models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("campaign service: list: %w", err)
	}
	return campaigns, nil
}

// Delete removes a campaign that has not been dispatched yet.
func (s *CampaignService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	campaign, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}
	if campaign.Status != models.CampaignStatusScheduled {
		return apperrors.NewConflict("CAMPAIGN_DISPATCHED", "Only scheduled campaigns can be deleted")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", campaign.ID).Error; err != nil {
		return fmt.Errorf("campaign service: delete: %w", err)
	}
	return nil
}

// Send dispatches a SCHEDULED campaign immediately: the template is rendered
// per recipient and delivery results are tallied on the campaign row.
func (s *CampaignService) Send(ctx context.Context, eventID, id string) (*models.Campaign, error) {
	ctx = ensureContext(ctx)

	campaign, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignStatusScheduled {
		return nil, apperrors.NewConflict("CAMPAIGN_DISPATCHED", "Campaign has already been dispatched")
	}
	return s.dispatch(ctx, campaign)
}

// DispatchDue sends every campaign whose schedule has come due. It is called
// from the maintenance cron and returns the number of campaigns dispatched.
func (s *CampaignService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	ctx = ensureContext(ctx)

	var due []models.Campaign
	err := s.db.WithContext(ctx).
		Preload("Template").
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
			models.CampaignStatusScheduled, now).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("campaign service: load due campaigns: %w", err)
	}

	dispatched := 0
	for i := range due {
		if _, err := s.dispatch(ctx, &due[i]); err != nil {
			logger.Error("campaign dispatch failed",
				zap.String("campaign_id", due[i].ID),
				zap.Error(err))
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *CampaignService) dispatch(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if campaign.Template == nil {
		tpl, err := s.loadTemplate(ctx, campaign.EventID, campaign.TemplateID)
		if err != nil {
			return nil, err
		}
		campaign.Template = tpl
	}

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", campaign.EventID).Error; err != nil {
		return nil, fmt.Errorf("campaign service: load event: %w", err)
	}

	// Only confirmed participants receive campaign email.
	recipientQuery := s.db.WithContext(ctx).
		Where("event_id = ? AND confirmed = ?", campaign.EventID, true)
	if campaign.ParticipantType != "" {
		recipientQuery = recipientQuery.Where("type = ?", campaign.ParticipantType)
	}
	var recipients []models.Participant
	if err := recipientQuery.Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("campaign service: load recipients: %w", err)
	}

	campaign.Status = models.CampaignStatusSending
	campaign.RecipientCount = len(recipients)
	if err := s.db.WithContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("campaign service: mark sending: %w", err)
	}

	subjectTemplate := defaultIfEmpty(campaign.Subject, campaign.Template.Subject)
	success, failure := 0, 0
	for i := range recipients {
		fields := templates.MergeFields(&event, &recipients[i], nil)
		msg := mail.Message{
			To:      []string{recipients[i].Email},
			Subject: templates.Render(subjectTemplate, fields),
			Body:    templates.Render(campaign.Template.HTMLContent, fields),
			HTML:    true,
		}

		if s.mailer == nil {
			failure++
			metrics.EmailsSent.WithLabelValues("campaign", "failure").Inc()
			continue
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			failure++
			metrics.EmailsSent.WithLabelValues("campaign", "failure").Inc()
			logger.Warn("campaign email failed",
				zap.String("campaign_id", campaign.ID),
				zap.String("recipient", recipients[i].Email),
				zap.Error(err))
			continue
		}
		success++
		metrics.EmailsSent.WithLabelValues("campaign", "success").Inc()
	}

	now := s.clock()
	campaign.SuccessCount = success
	campaign.FailureCount = failure
	campaign.SentAt = &now
	if success == 0 && failure > 0 {
		campaign.Status = models.CampaignStatusFailed
	} else {
		campaign.Status = models.CampaignStatusSent
	}

	if err := s.db.WithContext(ctx).Save(campaign).Error; err != nil {
		return nil, fmt.Errorf("campaign service: record result: %w", err)
	}

	metrics.CampaignsDispatched.WithLabelValues(campaign.Status).Inc()
	logger.Info("campaign dispatched",
		zap.String("campaign_id", campaign.ID),
		zap.String("status", campaign.Status),
		zap.Int("recipients", campaign.RecipientCount),
		zap.Int("success", success),
		zap.Int("failure", failure))
	return campaign, nil
}

func (s *CampaignService) loadTemplate(ctx context.Context, eventID, templateID string) (*models.EmailTemplate, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return nil, apperrors.NewBadRequest("Campaign template is required")
	}

	var tpl models.EmailTemplate
	err := s.db.WithContext(ctx).
		Where("id = ?", templateID).
		Where("event_id = ? OR is_global = ?", strings.TrimSpace(eventID), true).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("Campaign template does not exist for this event")
		}
		return nil, fmt.Errorf("campaign service: load template: %w", err)
	}
	if !tpl.IsActive {
		return nil, apperrors.NewConflict("TEMPLATE_INACTIVE", "Campaign template must be active")
	}
	return &tpl, nil
}
