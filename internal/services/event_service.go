package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

// EventService manages the event aggregate.
type EventService struct {
	db *gorm.DB
}

// EventInput describes event create/update payloads.
type EventInput struct {
	Name          string
	Slug          string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	Location      string
	Timezone      string
	BannerURL     string
	OrganizerName string
	SupportEmail  string
	Capacity      int
}

// EventStats aggregates headline counters for the dashboard overview.
type EventStats struct {
	ParticipantCount int64            `json:"participant_count"`
	ConfirmedCount   int64            `json:"confirmed_count"`
	ByType           map[string]int64 `json:"by_type"`
	SessionCount     int64            `json:"session_count"`
	SpeakerCount     int64            `json:"speaker_count"`
	SponsorCount     int64            `json:"sponsor_count"`
	AppointmentCount int64            `json:"appointment_count"`
}

// ListEventsOptions filters event listings.
type ListEventsOptions struct {
	Status string
	Search string
}

// NewEventService constructs an event service.
func NewEventService(db *gorm.DB) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	return &EventService{db: db}, nil
}

// Create persists a new event in DRAFT status. A slug is derived from the
// name when none is supplied.
func (s *EventService) Create(ctx context.Context, input EventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("Event name is required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.NewBadRequest("Event end date cannot precede the start date")
	}

	slug := defaultIfEmpty(input.Slug, slugify(name))
	if slug == "" {
		return nil, apperrors.NewBadRequest("Event slug is required")
	}

	event := models.Event{
		Name:          name,
		Slug:          slug,
		Description:   strings.TrimSpace(input.Description),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Location:      strings.TrimSpace(input.Location),
		Timezone:      defaultIfEmpty(input.Timezone, "Europe/Paris"),
		BannerURL:     strings.TrimSpace(input.BannerURL),
		Status:        models.EventStatusDraft,
		OrganizerName: strings.TrimSpace(input.OrganizerName),
		SupportEmail:  normaliseEmail(input.SupportEmail),
		Capacity:      input.Capacity,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("EVENT_SLUG_TAKEN", "An event with this slug already exists")
		}
		return nil, fmt.Errorf("event service: create: %w", err)
	}
	return &event, nil
}

// Get loads an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	ctx = ensureContext(ctx)

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("event service: get: %w", err)
	}
	return &event, nil
}

// GetBySlug loads an event by its public slug.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	ctx = ensureContext(ctx)

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "slug = ?", strings.TrimSpace(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("event service: get by slug: %w", err)
	}
	return &event, nil
}

// List returns events matching the options, most recent start date first.
func (s *EventService) List(ctx context.Context, opts ListEventsOptions) ([]models.Event, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Event{}).Order("start_date DESC")
	if status := strings.TrimSpace(opts.Status); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("event service: list: %w", err)
	}
	return events, nil
}

// Update applies the input to an existing event.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		event.Name = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		event.Slug = slug
	}
	if input.Description != "" {
		event.Description = strings.TrimSpace(input.Description)
	}
	if !input.StartDate.IsZero() {
		event.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		event.EndDate = input.EndDate
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, apperrors.NewBadRequest("Event end date cannot precede the start date")
	}
	if input.Location != "" {
		event.Location = strings.TrimSpace(input.Location)
	}
	if input.Timezone != "" {
		event.Timezone = strings.TrimSpace(input.Timezone)
	}
	if input.BannerURL != "" {
		event.BannerURL = strings.TrimSpace(input.BannerURL)
	}
	if input.OrganizerName != "" {
		event.OrganizerName = strings.TrimSpace(input.OrganizerName)
	}
	if input.SupportEmail != "" {
		event.SupportEmail = normaliseEmail(input.SupportEmail)
	}
	if input.Capacity > 0 {
		event.Capacity = input.Capacity
	}

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("EVENT_SLUG_TAKEN", "An event with this slug already exists")
		}
		return nil, fmt.Errorf("event service: update: %w", err)
	}
	return event, nil
}

// SetStatus moves an event between DRAFT, PUBLISHED and ARCHIVED.
// Archived events cannot be republished.
func (s *EventService) SetStatus(ctx context.Context, id, status string) (*models.Event, error) {
	ctx = ensureContext(ctx)

	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case models.EventStatusDraft, models.EventStatusPublished, models.EventStatusArchived:
	default:
		return nil, apperrors.NewBadRequest("Unknown event status")
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusArchived && status != models.EventStatusArchived {
		return nil, apperrors.NewConflict("EVENT_ARCHIVED", "Archived events cannot change status")
	}

	event.Status = status
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, fmt.Errorf("event service: set status: %w", err)
	}
	return event, nil
}

// Delete removes an event and everything scoped to it.
func (s *EventService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.Appointment{},
			&models.Campaign{},
			&models.EmailTemplate{},
			&models.ProgramSession{},
			&models.Speaker{},
			&models.Sponsor{},
			&models.Participant{},
		} {
			if err := tx.Where("event_id = ?", event.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("event service: delete scoped rows: %w", err)
			}
		}
		if err := tx.Delete(&models.Event{}, "id = ?", event.ID).Error; err != nil {
			return fmt.Errorf("event service: delete: %w", err)
		}
		return nil
	})
}

// Stats computes the dashboard counters for a single event.
func (s *EventService) Stats(ctx context.Context, id string) (*EventStats, error) {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := EventStats{ByType: make(map[string]int64)}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Participant{}).Where("event_id = ?", event.ID).Count(&stats.ParticipantCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count participants: %w", err)
	}
	if err := db.Model(&models.Participant{}).Where("event_id = ? AND confirmed = ?", event.ID, true).Count(&stats.ConfirmedCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count confirmed: %w", err)
	}

	type typeCount struct {
		Type  string
		Count int64
	}
	var byType []typeCount
	if err := db.Model(&models.Participant{}).
		Select("type, COUNT(*) AS count").
		Where("event_id = ?", event.ID).
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("event service: count by type: %w", err)
	}
	for _, tc := range byType {
		stats.ByType[tc.Type] = tc.Count
	}

	if err := db.Model(&models.ProgramSession{}).Where("event_id = ?", event.ID).Count(&stats.SessionCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count sessions: %w", err)
	}
	if err := db.Model(&models.Speaker{}).Where("event_id = ?", event.ID).Count(&stats.SpeakerCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count speakers: %w", err)
	}
	if err := db.Model(&models.Sponsor{}).Where("event_id = ?", event.ID).Count(&stats.SponsorCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count sponsors: %w", err)
	}
	if err := db.Model(&models.Appointment{}).Where("event_id = ?", event.ID).Count(&stats.AppointmentCount).Error; err != nil {
		return nil, fmt.Errorf("event service: count appointments: %w", err)
	}

	return &stats, nil
}
