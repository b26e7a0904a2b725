package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/services"
	apperrors "github.com/evencio/evencio/pkg/errors"
	"github.com/evencio/evencio/pkg/response"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(db *gorm.DB) (*AuditHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &AuditHandler{audit: audit}, nil
}

// List returns audit entries filtered by user, action and time window.
func (h *AuditHandler) List(c *gin.Context) {
	opts := services.ListAuditOptions{
		UserID: c.Query("user_id"),
		Action: c.Query("action"),
		Limit:  parseIntQuery(c, "limit", 0),
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("Invalid since timestamp, expected RFC 3339"))
			return
		}
		opts.Since = &since
	}

	entries, err := h.audit.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
