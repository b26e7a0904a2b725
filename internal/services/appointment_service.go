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
	"github.com/evencio/evencio/pkg/metrics"
)

// AppointmentService manages networking appointments between participants.
// Status changes always go through the transition table; appointments are
// kept forever for reporting, never deleted.
type AppointmentService struct {
	db       *gorm.DB
	notifier AppointmentNotifier
}

// AppointmentNotifier receives appointment lifecycle events. Implementations
// must not block.
type AppointmentNotifier interface {
	AppointmentChanged(ctx context.Context, appointment *models.Appointment, previousStatus string)
}

// AppointmentInput describes an appointment request payload.
type AppointmentInput struct {
	RequesterID  string
	RecipientID  string
	Message      string
	ProposedTime *time.Time
	Location     string
}

// AppointmentResponseInput carries the recipient's answer to a request.
type AppointmentResponseInput struct {
	Status        string
	ConfirmedTime *time.Time
	Location      string
	Notes         string
}

// Direction filters relative to ParticipantID.
const (
	AppointmentDirectionSent     = "sent"
	AppointmentDirectionReceived = "received"
)

// ListAppointmentsOptions filters appointment listings within an event.
// Direction requires ParticipantID: "sent" keeps appointments the participant
// requested, "received" those addressed to them. Search matches the requester
// or recipient full name, or the message body, case-insensitively.
type ListAppointmentsOptions struct {
	Status        string
	ParticipantID string
	Direction     string
	Search        string
}

// NewAppointmentService constructs an appointment service. The notifier is optional.
func NewAppointmentService(db *gorm.DB, notifier AppointmentNotifier) (*AppointmentService, error) {
	if db == nil {
		return nil, errors.New("appointment service: db is required")
	}
	return &AppointmentService{db: db, notifier: notifier}, nil
}

// Create opens a PENDING appointment request between two participants of the
// same event. Self-requests and duplicate open requests for the same pair are
// rejected.
func (s *AppointmentService) Create(ctx context.Context, eventID string, input AppointmentInput) (*models.Appointment, error) {
	ctx = ensureContext(ctx)

	eventID = strings.TrimSpace(eventID)
	requesterID := strings.TrimSpace(input.RequesterID)
	recipientID := strings.TrimSpace(input.RecipientID)
	if requesterID == "" || recipientID == "" {
		return nil, apperrors.NewBadRequest("Requester and recipient are required")
	}
	if requesterID == recipientID {
		return nil, apperrors.NewBadRequest("Cannot request an appointment with yourself")
	}

	var participants []models.Participant
	if err := s.db.WithContext(ctx).
		Where("event_id = ? AND id IN ?", eventID, []string{requesterID, recipientID}).
		Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("appointment service: load participants: %w", err)
	}
	if len(participants) != 2 {
		return nil, apperrors.NewBadRequest("Both participants must belong to the event")
	}

	var open int64
	if err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("event_id = ? AND status IN ?", eventID,
			[]string{models.AppointmentStatusPending, models.AppointmentStatusAccepted}).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			requesterID, recipientID, recipientID, requesterID).
		Count(&open).Error; err != nil {
		return nil, fmt.Errorf("appointment service: check duplicates: %w", err)
	}
	if open > 0 {
		return nil, apperrors.NewConflict("APPOINTMENT_EXISTS", "An open appointment already exists between these participants")
	}

	appointment := models.Appointment{
		EventID:      eventID,
		RequesterID:  requesterID,
		RecipientID:  recipientID,
		Status:       models.AppointmentStatusPending,
		Message:      strings.TrimSpace(input.Message),
		ProposedTime: input.ProposedTime,
		Location:     strings.TrimSpace(input.Location),
	}

	if err := s.db.WithContext(ctx).Create(&appointment).Error; err != nil {
		return nil, fmt.Errorf("appointment service: create: %w", err)
	}

	if s.notifier != nil {
		s.notifier.AppointmentChanged(ctx, &appointment, "")
	}
	return &appointment, nil
}

// Get loads an appointment with both participants preloaded.
func (s *AppointmentService) Get(ctx context.Context, eventID, id string) (*models.Appointment, error) {
	ctx = ensureContext(ctx)

	var appointment models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Requester").
		Preload("Recipient").
		First(&appointment, "id = ? AND event_id = ?", strings.TrimSpace(id), strings.TrimSpace(eventID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("appointment service: get: %w", err)
	}
	return &appointment, nil
}

// List returns the event's appointments, newest first. The participant filter
// matches either side of the meeting.
func (s *AppointmentService) List(ctx context.Context, eventID string, opts ListAppointmentsOptions) ([]models.Appointment, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Preload("Requester").
		Preload("Recipient").
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Order("created_at DESC")

	if status := strings.ToUpper(strings.TrimSpace(opts.Status)); status != "" {
		if !models.IsAppointmentStatus(status) {
			return nil, apperrors.NewBadRequest("Unknown appointment status")
		}
		query = query.Where("status = ?", status)
	}
	pid := strings.TrimSpace(opts.ParticipantID)
	switch direction := strings.ToLower(strings.TrimSpace(opts.Direction)); direction {
	case "", "all":
		if pid != "" {
			query = query.Where("requester_id = ? OR recipient_id = ?", pid, pid)
		}
	case AppointmentDirectionSent:
		if pid == "" {
			return nil, apperrors.NewBadRequest("Direction filter requires a participant id")
		}
		query = query.Where("requester_id = ?", pid)
	case AppointmentDirectionReceived:
		if pid == "" {
			return nil, apperrors.NewBadRequest("Direction filter requires a participant id")
		}
		query = query.Where("recipient_id = ?", pid)
	default:
		return nil, apperrors.NewBadRequest("Unknown appointment direction")
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("appointment service: list: %w", err)
	}

	if search := strings.ToLower(strings.TrimSpace(opts.Search)); search != "" {
		filtered := appointments[:0]
		for _, appointment := range appointments {
			if appointmentMatches(appointment, search) {
				filtered = append(filtered, appointment)
			}
		}
		appointments = filtered
	}
	return appointments, nil
}

// appointmentMatches applies the free-text filter against the preloaded
// participant names and the message body.
func appointmentMatches(appointment models.Appointment, search string) bool {
	if strings.Contains(strings.ToLower(appointment.Message), search) {
		return true
	}
	for _, participant := range []*models.Participant{appointment.Requester, appointment.Recipient} {
		if participant == nil {
			continue
		}
		fullName := strings.ToLower(participant.FirstName + " " + participant.LastName)
		if strings.Contains(fullName, search) {
			return true
		}
	}
	return false
}

// Respond records the recipient's answer to a PENDING request. Accepting may
// fix the confirmed time and location; declining closes the request.
func (s *AppointmentService) Respond(ctx context.Context, eventID, id string, input AppointmentResponseInput) (*models.Appointment, error) {
	ctx = ensureContext(ctx)

	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status != models.AppointmentStatusAccepted && status != models.AppointmentStatusDeclined {
		return nil, apperrors.NewBadRequest("Response must be ACCEPTED or DECLINED")
	}

	return s.transition(ctx, eventID, id, status, func(appointment *models.Appointment) {
		if status == models.AppointmentStatusAccepted {
			appointment.ConfirmedTime = input.ConfirmedTime
			if appointment.ConfirmedTime == nil {
				appointment.ConfirmedTime = appointment.ProposedTime
			}
			if loc := strings.TrimSpace(input.Location); loc != "" {
				appointment.Location = loc
			}
		}
		if notes := strings.TrimSpace(input.Notes); notes != "" {
			appointment.Notes = notes
		}
	})
}

// Complete marks an ACCEPTED appointment as held.
func (s *AppointmentService) Complete(ctx context.Context, eventID, id string, notes string) (*models.Appointment, error) {
	ctx = ensureContext(ctx)

	return s.transition(ctx, eventID, id, models.AppointmentStatusCompleted, func(appointment *models.Appointment) {
		if notes = strings.TrimSpace(notes); notes != "" {
			appointment.Notes = notes
		}
	})
}

func (s *AppointmentService) transition(ctx context.Context, eventID, id, to string, apply func(*models.Appointment)) (*models.Appointment, error) {
	appointment, err := s.Get(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	from := appointment.Status
	if !models.CanTransitionAppointment(from, to) {
		return nil, apperrors.NewConflict("APPOINTMENT_ILLEGAL_TRANSITION",
			fmt.Sprintf("Cannot move appointment from %s to %s", from, to))
	}

	appointment.Status = to
	if apply != nil {
		apply(appointment)
	}

	if err := s.db.WithContext(ctx).Save(appointment).Error; err != nil {
		return nil, fmt.Errorf("appointment service: transition: %w", err)
	}

	metrics.AppointmentTransitions.WithLabelValues(from, to).Inc()
	if s.notifier != nil {
		s.notifier.AppointmentChanged(ctx, appointment, from)
	}
	return appointment, nil
}
