package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/handlers"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
	"github.com/evencio/evencio/internal/services"
)

func registerEventRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker, notifier services.AppointmentNotifier) error {
	eventHandler, err := handlers.NewEventHandler(db)
	if err != nil {
		return err
	}
	participantHandler, err := handlers.NewParticipantHandler(db)
	if err != nil {
		return err
	}
	appointmentHandler, err := handlers.NewAppointmentHandler(db, notifier)
	if err != nil {
		return err
	}

	events := api.Group("/events")
	{
		events.GET("", middleware.RequirePermission(checker, "event.view"), eventHandler.List)
		events.POST("", middleware.RequirePermission(checker, "event.manage"), eventHandler.Create)
		events.GET("/:eventId", middleware.RequirePermission(checker, "event.view"), eventHandler.Get)
		events.PATCH("/:eventId", middleware.RequirePermission(checker, "event.manage"), eventHandler.Update)
		events.POST("/:eventId/status", middleware.RequirePermission(checker, "event.manage"), eventHandler.SetStatus)
		events.DELETE("/:eventId", middleware.RequirePermission(checker, "event.manage"), eventHandler.Delete)
		events.GET("/:eventId/stats", middleware.RequirePermission(checker, "event.view"), eventHandler.Stats)
	}

	participants := api.Group("/events/:eventId/participants")
	{
		participants.GET("", middleware.RequirePermission(checker, "participant.view"), participantHandler.List)
		participants.POST("", middleware.RequirePermission(checker, "participant.manage"), participantHandler.Create)
		participants.GET("/:id", middleware.RequirePermission(checker, "participant.view"), participantHandler.Get)
		participants.PATCH("/:id", middleware.RequirePermission(checker, "participant.manage"), participantHandler.Update)
		participants.POST("/:id/confirm", middleware.RequirePermission(checker, "participant.manage"), participantHandler.Confirm)
		participants.DELETE("/:id", middleware.RequirePermission(checker, "participant.manage"), participantHandler.Delete)
	}

	appointments := api.Group("/events/:eventId/appointments")
	{
		appointments.GET("", middleware.RequirePermission(checker, "appointment.view"), appointmentHandler.List)
		appointments.POST("", middleware.RequirePermission(checker, "appointment.manage"), appointmentHandler.Create)
		appointments.GET("/:id", middleware.RequirePermission(checker, "appointment.view"), appointmentHandler.Get)
		appointments.PUT("/:id", middleware.RequirePermission(checker, "appointment.manage"), appointmentHandler.UpdateStatus)
		appointments.POST("/:id/respond", middleware.RequirePermission(checker, "appointment.manage"), appointmentHandler.Respond)
		appointments.POST("/:id/complete", middleware.RequirePermission(checker, "appointment.manage"), appointmentHandler.Complete)
	}

	return nil
}
