package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/evencio/evencio/internal/auth"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
	"github.com/evencio/evencio/internal/services"
	apperrors "github.com/evencio/evencio/pkg/errors"
	"github.com/evencio/evencio/pkg/response"
)

// AuthHandler exposes login, token refresh and profile endpoints.
type AuthHandler struct {
	users    *services.UserService
	sessions *iauth.SessionService
	checker  *permissions.Checker
	audit    *services.AuditService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, sessions *iauth.SessionService) (*AuthHandler, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, sessions: sessions, checker: checker, audit: audit}, nil
}

// Login verifies credentials and opens a refresh-token backed session.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), payload.Identifier, payload.Password, c.ClientIP())
	if err != nil {
		h.audit.Record(requestContext(c), services.AuditEntry{
			Username:  payload.Identifier,
			Action:    "auth.login",
			Result:    services.AuditResultFailure,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		response.Error(c, err)
		return
	}

	pair, _, err := h.sessions.Create(requestContext(c), user.ID, iauth.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "could not open session"))
		return
	}

	h.audit.Record(requestContext(c), services.AuditEntry{
		UserID:    &user.ID,
		Username:  user.Username,
		Action:    "auth.login",
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	response.Success(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh rotates the refresh token and issues a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var payload struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	pair, _, err := h.sessions.Refresh(requestContext(c), payload.RefreshToken)
	if err != nil {
		if errors.Is(err, iauth.ErrSessionNotFound) ||
			errors.Is(err, iauth.ErrSessionRevoked) ||
			errors.Is(err, iauth.ErrSessionExpired) {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": pair})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var payload struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.sessions.Revoke(requestContext(c), payload.RefreshToken); err != nil &&
		!errors.Is(err, iauth.ErrSessionNotFound) {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me returns the authenticated user's profile and effective permissions.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.users.Get(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	perms, err := h.checker.GetUserPermissions(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        user,
		"permissions": perms,
	})
}

// ChangePassword rotates the current user's password and revokes other sessions.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.users.ChangePassword(requestContext(c), userID, payload.CurrentPassword, payload.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.sessions.RevokeAll(requestContext(c), userID); err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(requestContext(c), services.AuditEntry{
		UserID: &userID,
		Action: "auth.change_password",
	})

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
