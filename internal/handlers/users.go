package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/services"
	"github.com/evencio/evencio/pkg/response"
)

// UserHandler exposes admin user management endpoints.
type UserHandler struct {
	db    *gorm.DB
	users *services.UserService
	audit *services.AuditService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	users, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{db: db, users: users, audit: audit}, nil
}

type userPayload struct {
	Username  string   `json:"username" validate:"required,min=3,max=64"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"omitempty,min=8"`
	FirstName string   `json:"first_name" validate:"omitempty,max=128"`
	LastName  string   `json:"last_name" validate:"omitempty,max=128"`
	Avatar    string   `json:"avatar" validate:"omitempty,url"`
	RoleIDs   []string `json:"role_ids"`
}

func (p userPayload) toInput() services.UserInput {
	return services.UserInput{
		Username:  p.Username,
		Email:     p.Email,
		Password:  p.Password,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Avatar:    p.Avatar,
		RoleIDs:   p.RoleIDs,
	}
}

// List returns all dashboard users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// Get returns one user.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(requestContext(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Create registers a new dashboard user.
func (h *UserHandler) Create(c *gin.Context) {
	var payload userPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Create(requestContext(c), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(requestContext(c), services.AuditEntry{
		Action:   "user.create",
		Resource: user.Username,
	})

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Update edits a user's profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	var payload userPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Update(requestContext(c), c.Param("userId"), payload.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// SetRoles replaces a user's role assignments.
func (h *UserHandler) SetRoles(c *gin.Context) {
	var payload struct {
		RoleIDs []string `json:"role_ids" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.SetRoles(requestContext(c), c.Param("userId"), payload.RoleIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// SetActive enables or disables a user account.
func (h *UserHandler) SetActive(c *gin.Context) {
	var payload struct {
		Active *bool `json:"active" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.SetActive(requestContext(c), c.Param("userId"), *payload.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Delete removes a user account.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(requestContext(c), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListRoles returns the assignable roles with their permissions.
func (h *UserHandler) ListRoles(c *gin.Context) {
	var roles []models.Role
	if err := h.db.WithContext(requestContext(c)).
		Preload("Permissions").
		Order("name ASC").
		Find(&roles).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}
