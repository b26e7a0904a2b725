package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/templates"
	apperrors "github.com/evencio/evencio/pkg/errors"
	"github.com/evencio/evencio/pkg/mail"
	"github.com/evencio/evencio/pkg/metrics"
)

// TemplateService manages email templates and their merge-field rendering.
type TemplateService struct {
	db     *gorm.DB
	mailer mail.Mailer
}

// TemplateInput describes template create/update payloads. Pointer fields
// distinguish "leave unchanged" from explicit values on update.
type TemplateInput struct {
	Name        string
	Description string
	Subject     string
	Category    string
	Type        string
	HTMLContent string
	TextContent string
	IsActive    *bool
}

// TemplatePreview is a rendered subject/body pair.
type TemplatePreview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// ListTemplatesOptions filters template listings.
type ListTemplatesOptions struct {
	Category   string
	Type       string
	ActiveOnly bool
}

// NewTemplateService constructs a template service. The mailer is optional
// and only required for SendTest.
func NewTemplateService(db *gorm.DB, mailer mail.Mailer) (*TemplateService, error) {
	if db == nil {
		return nil, errors.New("template service: db is required")
	}
	return &TemplateService{db: db, mailer: mailer}, nil
}

// List returns the event's own templates plus the global default catalog.
func (s *TemplateService) List(ctx context.Context, eventID string, opts ListTemplatesOptions) ([]models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.EmailTemplate{}).
		Where("event_id = ? OR is_global = ?", strings.TrimSpace(eventID), true).
		Order("is_default ASC, category ASC, name ASC")

	if category := strings.TrimSpace(opts.Category); category != "" {
		query = query.Where("category = ?", strings.ToUpper(category))
	}
	if ttype := strings.TrimSpace(opts.Type); ttype != "" {
		query = query.Where("type = ?", strings.ToUpper(ttype))
	}
	if opts.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []models.EmailTemplate
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("template service: list: %w", err)
	}
	return rows, nil
}

// Get loads a template visible to the event (its own or a global default).
func (s *TemplateService) Get(ctx context.Context, eventID, id string) (*models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	var tpl models.EmailTemplate
	err := s.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(id)).
		Where("event_id = ? OR is_global = ?", strings.TrimSpace(eventID), true).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("template service: get: %w", err)
	}
	return &tpl, nil
}

// Create adds a custom template scoped to the event.
func (s *TemplateService) Create(ctx context.Context, eventID string, input TemplateInput) (*models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("template service: load event: %w", err)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("Template name is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewBadRequest("Template subject is required")
	}
	if strings.TrimSpace(input.HTMLContent) == "" {
		return nil, apperrors.NewBadRequest("Template HTML content is required")
	}
	ttype := strings.ToUpper(defaultIfEmpty(input.Type, models.TemplateTypeAnnouncement))
	if !isTemplateType(ttype) {
		return nil, apperrors.NewBadRequest("Unknown template type")
	}

	tpl := models.EmailTemplate{
		EventID:     &event.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Subject:     strings.TrimSpace(input.Subject),
		Category:    strings.ToUpper(strings.TrimSpace(input.Category)),
		Type:        ttype,
		HTMLContent: input.HTMLContent,
		TextContent: input.TextContent,
	}
	if input.IsActive != nil {
		tpl.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&tpl).Error; err != nil {
		return nil, fmt.Errorf("template service: create: %w", err)
	}
	return &tpl, nil
}

// Update patches a template. Global defaults are read-only; customising one
// goes through Duplicate first.
func (s *TemplateService) Update(ctx context.Context, eventID, id string, input TemplateInput) (*models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	tpl, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}
	if tpl.IsDefault {
		return nil, apperrors.NewConflict("TEMPLATE_READ_ONLY", "Default templates cannot be edited, duplicate them first")
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		tpl.Name = v
	}
	if input.Description != "" {
		tpl.Description = strings.TrimSpace(input.Description)
	}
	if v := strings.TrimSpace(input.Subject); v != "" {
		tpl.Subject = v
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		tpl.Category = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(input.Type); v != "" {
		v = strings.ToUpper(v)
		if !isTemplateType(v) {
			return nil, apperrors.NewBadRequest("Unknown template type")
		}
		tpl.Type = v
	}
	if input.HTMLContent != "" {
		tpl.HTMLContent = input.HTMLContent
	}
	if input.TextContent != "" {
		tpl.TextContent = input.TextContent
	}
	if input.IsActive != nil {
		tpl.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return nil, fmt.Errorf("template service: update: %w", err)
	}
	return tpl, nil
}

// Duplicate copies a template (typically a global default) into the event's
// own catalog so it can be customised and activated.
func (s *TemplateService) Duplicate(ctx context.Context, eventID, id string) (*models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	src, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	eventID = strings.TrimSpace(eventID)
	copyRow := models.EmailTemplate{
		EventID:     &eventID,
		Name:        src.Name,
		Description: src.Description,
		Subject:     src.Subject,
		Category:    src.Category,
		Type:        src.Type,
		HTMLContent: src.HTMLContent,
		TextContent: src.TextContent,
	}

	if err := s.db.WithContext(ctx).Create(&copyRow).Error; err != nil {
		return nil, fmt.Errorf("template service: duplicate: %w", err)
	}
	return &copyRow, nil
}

// SetActive toggles whether the template can be used by campaigns.
func (s *TemplateService) SetActive(ctx context.Context, eventID, id string, active bool) (*models.EmailTemplate, error) {
	ctx = ensureContext(ctx)

	tpl, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}
	if tpl.IsDefault && active {
		return nil, apperrors.NewConflict("TEMPLATE_READ_ONLY", "Activate a duplicated copy instead of the default template")
	}

	tpl.IsActive = active
	if err := s.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return nil, fmt.Errorf("template service: set active: %w", err)
	}
	return tpl, nil
}

// Delete removes a custom template. Defaults are protected.
func (s *TemplateService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	tpl, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}
	if tpl.IsDefault {
		return apperrors.NewConflict("TEMPLATE_READ_ONLY", "Default templates cannot be deleted")
	}

	var inUse int64
	if err := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("template_id = ?", tpl.ID).Count(&inUse).Error; err != nil {
		return fmt.Errorf("template service: check campaigns: %w", err)
	}
	if inUse > 0 {
		return apperrors.NewConflict("TEMPLATE_IN_USE", "Template is referenced by campaigns")
	}

	if err := s.db.WithContext(ctx).Delete(&models.EmailTemplate{}, "id = ?", tpl.ID).Error; err != nil {
		return fmt.Errorf("template service: delete: %w", err)
	}
	return nil
}

// Preview renders the template against the event and a fixed sample
// participant so organizers see realistic merge output.
func (s *TemplateService) Preview(ctx context.Context, eventID, id string) (*TemplatePreview, error) {
	ctx = ensureContext(ctx)

	tpl, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", strings.TrimSpace(eventID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("template service: load event: %w", err)
	}

	fields := templates.MergeFields(&event, templates.SampleParticipant(), nil)
	return &TemplatePreview{
		Subject: templates.Render(tpl.Subject, fields),
		HTML:    templates.Render(tpl.HTMLContent, fields),
	}, nil
}

// SendTest delivers a rendered preview to the given address.
func (s *TemplateService) SendTest(ctx context.Context, eventID, id, recipient string) error {
	ctx = ensureContext(ctx)

	if s.mailer == nil {
		return apperrors.NewConflict("SMTP_DISABLED", "Email delivery is not configured")
	}
	recipient = normaliseEmail(recipient)
	if recipient == "" {
		return apperrors.NewBadRequest("Recipient address is required")
	}

	preview, err := s.Preview(ctx, eventID, id)
	if err != nil {
		return err
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:      []string{recipient},
		Subject: preview.Subject,
		Body:    preview.HTML,
		HTML:    true,
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("test", "failure").Inc()
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return apperrors.NewConflict("SMTP_DISABLED", "Email delivery is not configured")
		}
		return fmt.Errorf("template service: send test: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("test", "success").Inc()
	return nil
}

func isTemplateType(value string) bool {
	switch value {
	case models.TemplateTypeInvitation, models.TemplateTypeAnnouncement,
		models.TemplateTypeReminder, models.TemplateTypeFollowUp:
		return true
	}
	return false
}
