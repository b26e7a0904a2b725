package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/mail"
	"github.com/evencio/evencio/pkg/response"
)

// CampaignHandler exposes HTTP endpoints for email campaigns.
type CampaignHandler struct {
	service *services.CampaignService
}

// NewCampaignHandler constructs a campaign handler.
func NewCampaignHandler(db *gorm.DB, mailer mail.Mailer) (*CampaignHandler, error) {
	service, err := services.NewCampaignService(db, mailer)
	if err != nil {
		return nil, err
	}
	return &CampaignHandler{service: service}, nil
}

// List returns the event's campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.service.List(requestContext(c), eventID(c), services.ListCampaignsOptions{
		Status: c.Query("status"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaigns)
}

// Get returns a single campaign with its template.
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.service.Get(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

// Create schedules a new campaign.
func (h *CampaignHandler) Create(c *gin.Context) {
	var payload struct {
		Name            string     `json:"name" validate:"required,min=1,max=255"`
		TemplateID      string     `json:"template_id" validate:"required"`
		Subject         string     `json:"subject" validate:"omitempty,max=500"`
		ParticipantType string     `json:"participant_type" validate:"omitempty,oneof=ATTENDEE EXHIBITOR SPEAKER ORGANIZER"`
		ScheduledAt     *time.Time `json:"scheduled_at"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	campaign, err := h.service.Create(requestContext(c), eventID(c), services.CampaignInput{
		Name:            payload.Name,
		TemplateID:      payload.TemplateID,
		Subject:         payload.Subject,
		ParticipantType: payload.ParticipantType,
		ScheduledAt:     payload.ScheduledAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, campaign)
}

// Send dispatches a scheduled campaign immediately.
func (h *CampaignHandler) Send(c *gin.Context) {
	campaign, err := h.service.Send(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

// Delete removes a campaign that has not been dispatched.
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
