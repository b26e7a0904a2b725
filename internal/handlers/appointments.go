package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/response"
)

// AppointmentHandler exposes HTTP endpoints for networking appointments.
type AppointmentHandler struct {
	service *services.AppointmentService
}

// NewAppointmentHandler constructs an appointment handler.
func NewAppointmentHandler(db *gorm.DB, notifier services.AppointmentNotifier) (*AppointmentHandler, error) {
	service, err := services.NewAppointmentService(db, notifier)
	if err != nil {
		return nil, err
	}
	return &AppointmentHandler{service: service}, nil
}

// List returns the event's appointments with optional status/participant filters.
func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, err := h.service.List(requestContext(c), eventID(c), services.ListAppointmentsOptions{
		Status:        c.Query("status"),
		ParticipantID: c.Query("participant_id"),
		Direction:     c.Query("direction"),
		Search:        c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointments)
}

// Get returns a single appointment with both participants.
func (h *AppointmentHandler) Get(c *gin.Context) {
	appointment, err := h.service.Get(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointment)
}

// Create opens a new appointment request between two participants.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var payload struct {
		RequesterID  string     `json:"requester_id" validate:"required"`
		RecipientID  string     `json:"recipient_id" validate:"required"`
		Message      string     `json:"message" validate:"omitempty,max=2000"`
		ProposedTime *time.Time `json:"proposed_time"`
		Location     string     `json:"location"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	appointment, err := h.service.Create(requestContext(c), eventID(c), services.AppointmentInput{
		RequesterID:  payload.RequesterID,
		RecipientID:  payload.RecipientID,
		Message:      payload.Message,
		ProposedTime: payload.ProposedTime,
		Location:     payload.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, appointment)
}

// Respond records the recipient's accept/decline answer.
func (h *AppointmentHandler) Respond(c *gin.Context) {
	var payload struct {
		Status        string     `json:"status" validate:"required,oneof=ACCEPTED DECLINED"`
		ConfirmedTime *time.Time `json:"confirmed_time"`
		Location      string     `json:"location"`
		Notes         string     `json:"notes" validate:"omitempty,max=2000"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	appointment, err := h.service.Respond(requestContext(c), eventID(c), c.Param("id"), services.AppointmentResponseInput{
		Status:        payload.Status,
		ConfirmedTime: payload.ConfirmedTime,
		Location:      payload.Location,
		Notes:         payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointment)
}

// UpdateStatus moves the appointment to the requested status. Accept and
// decline go through the recipient response path, COMPLETED closes an
// accepted appointment.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var payload struct {
		Status        string     `json:"status" validate:"required,oneof=ACCEPTED DECLINED COMPLETED"`
		ConfirmedTime *time.Time `json:"confirmed_time"`
		Location      string     `json:"location"`
		Notes         string     `json:"notes" validate:"omitempty,max=2000"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	var (
		appointment *models.Appointment
		err         error
	)
	if payload.Status == models.AppointmentStatusCompleted {
		appointment, err = h.service.Complete(requestContext(c), eventID(c), c.Param("id"), payload.Notes)
	} else {
		appointment, err = h.service.Respond(requestContext(c), eventID(c), c.Param("id"), services.AppointmentResponseInput{
			Status:        payload.Status,
			ConfirmedTime: payload.ConfirmedTime,
			Location:      payload.Location,
			Notes:         payload.Notes,
		})
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointment)
}

// Complete marks an accepted appointment as held.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	var payload struct {
		Notes string `json:"notes" validate:"omitempty,max=2000"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	appointment, err := h.service.Complete(requestContext(c), eventID(c), c.Param("id"), payload.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointment)
}
