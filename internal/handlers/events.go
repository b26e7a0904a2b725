package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/response"
)

// EventHandler exposes HTTP endpoints for events.
type EventHandler struct {
	service *services.EventService
}

// NewEventHandler constructs an event handler.
func NewEventHandler(db *gorm.DB) (*EventHandler, error) {
	service, err := services.NewEventService(db)
	if err != nil {
		return nil, err
	}
	return &EventHandler{service: service}, nil
}

type eventPayload struct {
	Name          string     `json:"name" validate:"omitempty,min=2,max=255"`
	Slug          string     `json:"slug" validate:"omitempty,max=255"`
	Description   string     `json:"description"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Location      string     `json:"location"`
	Timezone      string     `json:"timezone" validate:"omitempty,tz"`
	BannerURL     string     `json:"banner_url" validate:"omitempty,url"`
	OrganizerName string     `json:"organizer_name"`
	SupportEmail  string     `json:"support_email" validate:"omitempty,email"`
	Capacity      int        `json:"capacity" validate:"omitempty,min=0"`
}

func (p eventPayload) toInput() services.EventInput {
	input := services.EventInput{
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Location:      p.Location,
		Timezone:      p.Timezone,
		BannerURL:     p.BannerURL,
		OrganizerName: p.OrganizerName,
		SupportEmail:  p.SupportEmail,
		Capacity:      p.Capacity,
	}
	if p.StartDate != nil {
		input.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		input.EndDate = *p.EndDate
	}
	return input
}

// List returns events, optionally filtered by status or search term.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(requestContext(c), services.ListEventsOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// Get returns a single event by id.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(requestContext(c), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// Create registers a new event.
func (h *EventHandler) Create(c *gin.Context) {
	var payload eventPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	event, err := h.service.Create(requestContext(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, event)
}

// Update patches an existing event.
func (h *EventHandler) Update(c *gin.Context) {
	var payload eventPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	event, err := h.service.Update(requestContext(c), c.Param("eventId"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// SetStatus publishes or archives an event.
func (h *EventHandler) SetStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" validate:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	event, err := h.service.SetStatus(requestContext(c), c.Param("eventId"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// Delete removes an event with everything scoped to it.
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), c.Param("eventId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Stats returns the dashboard counters for an event.
func (h *EventHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(requestContext(c), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func eventID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("eventId"))
}
