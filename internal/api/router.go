package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/evencio/evencio/internal/auth"
	"github.com/evencio/evencio/internal/handlers"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
	"github.com/evencio/evencio/internal/realtime"
	"github.com/evencio/evencio/pkg/mail"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, sessions *iauth.SessionService, hub *realtime.Hub, mailer mail.Mailer) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if hub == nil {
		return nil, fmt.Errorf("realtime hub must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	healthHandler := handlers.NewHealthHandler(db, Version)
	r.GET("/health", healthHandler.Check)

	authHandler, err := handlers.NewAuthHandler(db, sessions)
	if err != nil {
		return nil, err
	}

	// Public auth routes, rate limited to slow credential stuffing.
	auth := r.Group("/api/auth")
	auth.Use(middleware.RateLimit(20, time.Minute))
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes
	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}
	requireAuth := middleware.Auth(jwt)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/password", authHandler.ChangePassword)

	// The notification service doubles as the appointment notifier, so it is
	// built first and threaded through the appointment routes.
	notificationHandler, err := handlers.NewNotificationHandler(db, hub)
	if err != nil {
		return nil, err
	}

	if err := registerEventRoutes(api, db, checker, notificationHandler.Service()); err != nil {
		return nil, err
	}
	if err := registerTemplateRoutes(api, db, checker, mailer); err != nil {
		return nil, err
	}
	if err := registerProgramRoutes(api, db, checker); err != nil {
		return nil, err
	}
	registerNotificationRoutes(api, notificationHandler)
	if err := registerUserRoutes(api, db, checker); err != nil {
		return nil, err
	}

	// Audit
	auditHandler, err := handlers.NewAuditHandler(db)
	if err != nil {
		return nil, err
	}
	api.GET("/audit", middleware.RequirePermission(checker, "audit.view"), auditHandler.List)

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
