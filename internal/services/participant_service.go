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

// ParticipantService manages event participants.
type ParticipantService struct {
	db *gorm.DB
}

// ParticipantInput describes participant create/update payloads.
type ParticipantInput struct {
	FirstName   string
	LastName    string
	Email       string
	Company     string
	JobTitle    string
	Type        string
	Confirmed   *bool
	StandNumber string
}

// ListParticipantsOptions filters participant listings within an event.
type ListParticipantsOptions struct {
	Type      string
	Confirmed *bool
	Search    string
}

// NewParticipantService constructs a participant service.
func NewParticipantService(db *gorm.DB) (*ParticipantService, error) {
	if db == nil {
		return nil, errors.New("participant service: db is required")
	}
	return &ParticipantService{db: db}, nil
}

// Create registers a participant on an event. Email is unique per event.
func (s *ParticipantService) Create(ctx context.Context, eventID string, input ParticipantInput) (*models.Participant, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("participant service: load event: %w", err)
	}

	email := normaliseEmail(input.Email)
	if email == "" {
		return nil, apperrors.NewBadRequest("Participant email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apperrors.NewBadRequest("Participant first and last name are required")
	}

	ptype := strings.ToUpper(defaultIfEmpty(input.Type, models.ParticipantTypeAttendee))
	if !isParticipantType(ptype) {
		return nil, apperrors.NewBadRequest("Unknown participant type")
	}

	participant := models.Participant{
		EventID:     event.ID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		Company:     strings.TrimSpace(input.Company),
		JobTitle:    strings.TrimSpace(input.JobTitle),
		Type:        ptype,
		StandNumber: strings.TrimSpace(input.StandNumber),
	}
	if input.Confirmed != nil {
		participant.Confirmed = *input.Confirmed
	}

	if err := s.db.WithContext(ctx).Create(&participant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("PARTICIPANT_EXISTS", "A participant with this email is already registered")
		}
		return nil, fmt.Errorf("participant service: create: %w", err)
	}
	return &participant, nil
}

// Get loads a participant by id, scoped to the event.
func (s *ParticipantService) Get(ctx context.Context, eventID, id string) (*models.Participant, error) {
	ctx = ensureContext(ctx)

	var participant models.Participant
	err := s.db.WithContext(ctx).
		First(&participant, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("participant service: get: %w", err)
	}
	return &participant, nil
}

// List returns the event's participants, filtered and ordered by name.
func (s *ParticipantService) List(ctx context.Context, eventID string, opts ListParticipantsOptions) ([]models.Participant, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Participant{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("last_name ASC, first_name ASC")

	if ptype := strings.ToUpper(strings.TrimSpace(opts.Type)); ptype != "" {
		query = query.Where("type = ?", ptype)
	}
	if opts.Confirmed != nil {
		query = query.Where("confirmed = ?", *opts.Confirmed)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?",
			like, like, like, like,
		)
	}

	var participants []models.Participant
	if err := query.Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("participant service: list: %w", err)
	}
	return participants, nil
}

// Update applies the input to an existing participant.
func (s *ParticipantService) Update(ctx context.Context, eventID, id string, input ParticipantInput) (*models.Participant, error) {
	ctx = ensureContext(ctx)

	participant, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.FirstName); v != "" {
		participant.FirstName = v
	}
	if v := strings.TrimSpace(input.LastName); v != "" {
		participant.LastName = v
	}
	if v := normaliseEmail(input.Email); v != "" {
		participant.Email = v
	}
	if input.Company != "" {
		participant.Company = strings.TrimSpace(input.Company)
	}
	if input.JobTitle != "" {
		participant.JobTitle = strings.TrimSpace(input.JobTitle)
	}
	if input.Type != "" {
		ptype := strings.ToUpper(strings.TrimSpace(input.Type))
		if !isParticipantType(ptype) {
			return nil, apperrors.NewBadRequest("Unknown participant type")
		}
		participant.Type = ptype
	}
	if input.Confirmed != nil {
		participant.Confirmed = *input.Confirmed
	}
	if input.StandNumber != "" {
		participant.StandNumber = strings.TrimSpace(input.StandNumber)
	}

	if err := s.db.WithContext(ctx).Save(participant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("PARTICIPANT_EXISTS", "A participant with this email is already registered")
		}
		return nil, fmt.Errorf("participant service: update: %w", err)
	}
	return participant, nil
}

// Confirm marks the participant's registration as confirmed.
func (s *ParticipantService) Confirm(ctx context.Context, eventID, id string) (*models.Participant, error) {
	ctx = ensureContext(ctx)

	participant, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}
	if participant.Confirmed {
		return participant, nil
	}

	participant.Confirmed = true
	if err := s.db.WithContext(ctx).Save(participant).Error; err != nil {
		return nil, fmt.Errorf("participant service: confirm: %w", err)
	}
	return participant, nil
}

// Delete removes a participant together with their appointments.
func (s *ParticipantService) Delete(ctx context.Context, eventID, id string) error {
	ctx = ensureContext(ctx)

	participant, err := s.Get(ctx, eventID, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requester_id = ? OR recipient_id = ?", participant.ID, participant.ID).
			Delete(&models.Appointment{}).Error; err != nil {
			return fmt.Errorf("participant service: delete appointments: %w", err)
		}
		if err := tx.Delete(&models.Participant{}, "id = ?", participant.ID).Error; err != nil {
			return fmt.Errorf("participant service: delete: %w", err)
		}
		return nil
	})
}

func isParticipantType(value string) bool {
	switch value {
	case models.ParticipantTypeAttendee, models.ParticipantTypeExhibitor,
		models.ParticipantTypeSpeaker, models.ParticipantTypeOrganizer:
		return true
	}
	return false
}
