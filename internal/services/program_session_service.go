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

// ProgramSessionService manages the event program schedule.
type ProgramSessionService struct {
	db *gorm.DB
}

// ProgramSessionInput describes session create/update payloads.
type ProgramSessionInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Room        string
	Track       string
	Capacity    int
	SpeakerIDs  []string
}

// NewProgramSessionService constructs a program session service.
func NewProgramSessionService(db *gorm.DB) (*ProgramSessionService, error) {
	if db == nil {
		return nil, errors.New("program session service: db is required")
	}
	return &ProgramSessionService{db: db}, nil
}

// Create schedules a session on the event program.
func (s *ProgramSessionService) Create(ctx context.Context, eventID string, input ProgramSessionInput) (*models.ProgramSession, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("program session service: load event: %w", err)
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewBadRequest("Session title is required")
	}
	if input.EndsAt.Before(input.StartsAt) {
		return nil, apperrors.NewBadRequest("Session end time cannot precede the start time")
	}

	speakers, err := s.resolveSpeakers(ctx, eventID, input.SpeakerIDs)
	if err != nil {
		return nil, err
	}

	session := models.ProgramSession{
		EventID:     event.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Room:        strings.TrimSpace(input.Room),
		Track:       strings.TrimSpace(input.Track),
		Capacity:    input.Capacity,
		Speakers:    speakers,
	}

	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("program session service: create: %w", err)
	}
	return &session, nil
}

// Get loads a session with speakers preloaded.
func (s *ProgramSessionService) Get(ctx context.Context, eventID, id string) (*models.ProgramSession, error) {
	ctx = ensureContext(ctx)

	var session models.ProgramSession
	err := s.db.WithContext(ctx).
		Preload("Speakers").
		First(&session, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("program session service: get: %w", err)
	}
	return &session, nil
}

// List returns the event program in chronological order.
func (s *ProgramSessionService) List(ctx context.Context, eventID string, track string) ([]models.ProgramSession, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.ProgramSession{}).
		Preload("Speakers").
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("starts_at ASC")
	if track = strings.TrimSpace(track); track != "" {
		query = query.Where("track = ?", track)
	}

	var sessions []models.ProgramSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("program session service: list: %w", err)
	}
	return sessions, nil
}

// Update applies the input to an existing session. A non-nil SpeakerIDs slice
// replaces the full speaker assignment.
func (s *ProgramSessionService) Update(ctx context.Context, eventID, id string, input ProgramSessionInput) (*models.ProgramSession, error) {
	ctx = ensureContext(ctx)

	session, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Title); v != "" {
		session.Title = v
	}
	if input.Description != "" {
		session.Description = strings.TrimSpace(input.Description)
	}
	if !input.StartsAt.IsZero() {
		session.StartsAt = input.StartsAt
	}
	if !input.EndsAt.IsZero() {
		session.EndsAt = input.EndsAt
	}
	if session.EndsAt.Before(session.StartsAt) {
		return nil, apperrors.NewBadRequest("Session end time cannot precede the start time")
	}
	if input.Room != "" {
		session.Room = strings.TrimSpace(input.Room)
	}
	if input.Track != "" {
		session.Track = strings.TrimSpace(input.Track)
	}
	if input.Capacity > 0 {
		session.Capacity = input.Capacity
	}

	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return nil, fmt.Errorf("program session service: update: %w", err)
	}

	if input.SpeakerIDs != nil {
		speakers, err := s.resolveSpeakers(ctx, eventID, input.SpeakerIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(session).Association("Speakers").Replace(speakers); err != nil {
			return nil, fmt.Errorf("program session service: replace speakers: %w", err)
		}
		session.Speakers = speakers
	}
	return session, nil
}

// Delete removes a session from the program.
func (s *ProgramSessionService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	session, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(session).Association("Speakers").Clear(); err != nil {
		return fmt.Errorf("program session service: clear speakers: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.ProgramSession{}, "id = ?", session.ID).Error; err != nil {
		return fmt.Errorf("program session service: delete: %w", err)
	}
	return nil
}

func (s *ProgramSessionService) resolveSpeakers(ctx context.Context, eventID string, ids []string) ([]models.Speaker, error) {
	ids = normaliseIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var speakers []models.Speaker
	if err := s.db.WithContext(ctx).
		Where("event_id = ? AND id IN ?", strings.TrimSpace(eventID), ids).
		Find(&speakers).Error; err != nil {
		return nil, fmt.Errorf("program session service: load speakers: %w", err)
	}
	if len(speakers) != len(ids) {
		return nil, apperrors.NewBadRequest("All speakers must belong to the event")
	}
	return speakers, nil
}
