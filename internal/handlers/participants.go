package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/response"
)

// ParticipantHandler exposes HTTP endpoints for event participants.
type ParticipantHandler struct {
	service *services.ParticipantService
}

// NewParticipantHandler constructs a participant handler.
func NewParticipantHandler(db *gorm.DB) (*ParticipantHandler, error) {
	service, err := services.NewParticipantService(db)
	if err != nil {
		return nil, err
	}
	return &ParticipantHandler{service: service}, nil
}

type participantPayload struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName    string `json:"last_name" validate:"omitempty,min=1,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
	Type        string `json:"type" validate:"omitempty,oneof=ATTENDEE EXHIBITOR SPEAKER ORGANIZER"`
	Confirmed   *bool  `json:"confirmed"`
	StandNumber string `json:"stand_number"`
}

func (p participantPayload) toInput() services.ParticipantInput {
	return services.ParticipantInput{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Company:     p.Company,
		JobTitle:    p.JobTitle,
		Type:        p.Type,
		Confirmed:   p.Confirmed,
		StandNumber: p.StandNumber,
	}
}

// List returns the event participants with optional type/confirmed/search filters.
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.service.List(requestContext(c), eventID(c), services.ListParticipantsOptions{
		Type:      c.Query("type"),
		Confirmed: parseBoolQuery(c, "confirmed"),
		Search:    c.Query("search"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, participants)
}

// Get returns a single participant.
func (h *ParticipantHandler) Get(c *gin.Context) {
	participant, err := h.service.Get(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, participant)
}

// Create registers a participant on the event.
func (h *ParticipantHandler) Create(c *gin.Context) {
	var payload participantPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	participant, err := h.service.Create(requestContext(c), eventID(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, participant)
}

// Update patches a participant.
func (h *ParticipantHandler) Update(c *gin.Context) {
	var payload participantPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	participant, err := h.service.Update(requestContext(c), eventID(c), c.Param("id"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, participant)
}

// Confirm marks the participant's registration as confirmed.
func (h *ParticipantHandler) Confirm(c *gin.Context) {
	participant, err := h.service.Confirm(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, participant)
}

// Delete removes a participant and their appointments.
func (h *ParticipantHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
