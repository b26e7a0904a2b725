package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	apperrors "github.com/evencio/evencio/pkg/errors"
)

// SpeakerService manages event speakers.
type SpeakerService struct {
	db *gorm.DB
}

// SpeakerInput describes speaker create/update payloads.
type SpeakerInput struct {
	FirstName string
	LastName  string
	Email     string
	Bio       string
	Company   string
	Title     string
	PhotoURL  string
}

// NewSpeakerService constructs a speaker service.
func NewSpeakerService(db *gorm.DB) (*SpeakerService, error) {
	if db == nil {
		return nil, errors.New("speaker service: db is required")
	}
	return &SpeakerService{db: db}, nil
}

// Create adds a speaker to the event.
func (s *SpeakerService) Create(ctx context.Context, eventID string, input SpeakerInput) (*models.Speaker, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("speaker service: load event: %w", err)
	}

	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apperrors.NewBadRequest("Speaker first and last name are required")
	}

	speaker := models.Speaker{
		EventID:   event.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     normaliseEmail(input.Email),
		Bio:       strings.TrimSpace(input.Bio),
		Company:   strings.TrimSpace(input.Company),
		Title:     strings.TrimSpace(input.Title),
		PhotoURL:  strings.TrimSpace(input.PhotoURL),
	}

	if err := s.db.WithContext(ctx).Create(&speaker).Error; err != nil {
		return nil, fmt.Errorf("speaker service: create: %w", err)
	}
	return &speaker, nil
}

// Get loads a speaker scoped to the event.
func (s *SpeakerService) Get(ctx context.Context, eventID, id string) (*models.Speaker, error) {
	ctx = ensureContext(ctx)

	var speaker models.Speaker
	err := s.db.WithContext(ctx).
		First(&speaker, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("speaker service: get: %w", err)
	}
	return &speaker, nil
}

// List returns the event's speakers ordered by name.
func (s *SpeakerService) List(ctx context.Context, eventID string) ([]models.Speaker, error) {
	ctx = ensureContext(ctx)

	var speakers []models.Speaker
	err := s.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("last_name ASC, first_name ASC").
		Find(&speakers).Error
	if err != nil {
		return nil, fmt.Errorf("speaker service: list: %w", err)
	}
	return speakers, nil
}

// Update applies the input to an existing speaker.
func (s *SpeakerService) Update(ctx context.Context, eventID, id string, input SpeakerInput) (*models.Speaker, error) {
	ctx = ensureContext(ctx)

	speaker, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.FirstName); v != "" {
		speaker.FirstName = v
	}
	if v := strings.TrimSpace(input.LastName); v != "" {
		speaker.LastName = v
	}
	if input.Email != "" {
		speaker.Email = normaliseEmail(input.Email)
	}
	if input.Bio != "" {
		speaker.Bio = strings.TrimSpace(input.Bio)
	}
	if input.Company != "" {
		speaker.Company = strings.TrimSpace(input.Company)
	}
	if input.Title != "" {
		speaker.Title = strings.TrimSpace(input.Title)
	}
	if input.PhotoURL != "" {
		speaker.PhotoURL = strings.TrimSpace(input.PhotoURL)
	}

	if err := s.db.WithContext(ctx).Save(speaker).Error; err != nil {
		return nil, fmt.Errorf("speaker service: update: %w", err)
	}
	return speaker, nil
}

// Delete removes a speaker and their session assignments.
func (s *SpeakerService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	speaker, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(speaker).Association("Sessions").Clear(); err != nil {
		return fmt.Errorf("speaker service: clear sessions: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Speaker{}, "id = ?", speaker.ID).Error; err != nil {
		return fmt.Errorf("speaker service: delete: %w", err)
	}
	return nil
}
