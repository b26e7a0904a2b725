package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/mail"
	"github.com/evencio/evencio/pkg/response"
)

// TemplateHandler exposes HTTP endpoints for email templates.
type TemplateHandler struct {
	service *services.TemplateService
}

// NewTemplateHandler constructs a template handler.
func NewTemplateHandler(db *gorm.DB, mailer mail.Mailer) (*TemplateHandler, error) {
	service, err := services.NewTemplateService(db, mailer)
	if err != nil {
		return nil, err
	}
	return &TemplateHandler{service: service}, nil
}

type templatePayload struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=255"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"omitempty,max=500"`
	Category    string `json:"category" validate:"omitempty,max=64"`
	Type        string `json:"type" validate:"omitempty,oneof=INVITATION ANNOUNCEMENT REMINDER FOLLOW_UP"`
	HTMLContent string `json:"html_content"`
	TextContent string `json:"text_content"`
	IsActive    *bool  `json:"is_active"`
}

func (p templatePayload) toInput() services.TemplateInput {
	return services.TemplateInput{
		Name:        p.Name,
		Description: p.Description,
		Subject:     p.Subject,
		Category:    p.Category,
		Type:        p.Type,
		HTMLContent: p.HTMLContent,
		TextContent: p.TextContent,
		IsActive:    p.IsActive,
	}
}

// List returns the event's templates plus the global default catalog.
func (h *TemplateHandler) List(c *gin.Context) {
	active := parseBoolQuery(c, "active")
	templates, err := h.service.List(requestContext(c), eventID(c), services.ListTemplatesOptions{
		Category:   c.Query("category"),
		Type:       c.Query("type"),
		ActiveOnly: active != nil && *active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, templates)
}

// Get returns a single template.
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.service.Get(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tpl)
}

// Create adds a custom template scoped to the event.
func (h *TemplateHandler) Create(c *gin.Context) {
	var payload templatePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	tpl, err := h.service.Create(requestContext(c), eventID(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tpl)
}

// Update patches a custom template.
func (h *TemplateHandler) Update(c *gin.Context) {
	var payload templatePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	tpl, err := h.service.Update(requestContext(c), eventID(c), c.Param("id"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tpl)
}

// Duplicate copies a template into the event's own catalog.
func (h *TemplateHandler) Duplicate(c *gin.Context) {
	tpl, err := h.service.Duplicate(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tpl)
}

// SetActive toggles whether the template can be used by campaigns.
func (h *TemplateHandler) SetActive(c *gin.Context) {
	var payload struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	tpl, err := h.service.SetActive(requestContext(c), eventID(c), c.Param("id"), *payload.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tpl)
}

// Delete removes a custom template.
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), eventID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Preview renders the template with sample data.
func (h *TemplateHandler) Preview(c *gin.Context) {
	preview, err := h.service.Preview(requestContext(c), eventID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// SendTest delivers a rendered preview to the supplied address.
func (h *TemplateHandler) SendTest(c *gin.Context) {
	var payload struct {
		Recipient string `json:"recipient" validate:"required,email"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.service.SendTest(requestContext(c), eventID(c), c.Param("id"), payload.Recipient); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}
