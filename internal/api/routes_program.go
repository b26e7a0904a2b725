package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/handlers"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
)

func registerProgramRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	programHandler, err := handlers.NewProgramHandler(db)
	if err != nil {
		return err
	}

	sessions := api.Group("/events/:eventId/sessions")
	{
		sessions.GET("", middleware.RequirePermission(checker, "program.view"), programHandler.ListSessions)
		sessions.POST("", middleware.RequirePermission(checker, "program.manage"), programHandler.CreateSession)
		sessions.GET("/:id", middleware.RequirePermission(checker, "program.view"), programHandler.GetSession)
		sessions.PATCH("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.UpdateSession)
		sessions.DELETE("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.DeleteSession)
	}

	speakers := api.Group("/events/:eventId/speakers")
	{
		speakers.GET("", middleware.RequirePermission(checker, "program.view"), programHandler.ListSpeakers)
		speakers.POST("", middleware.RequirePermission(checker, "program.manage"), programHandler.CreateSpeaker)
		speakers.PATCH("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.UpdateSpeaker)
		speakers.DELETE("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.DeleteSpeaker)
	}

	sponsors := api.Group("/events/:eventId/sponsors")
	{
		sponsors.GET("", middleware.RequirePermission(checker, "program.view"), programHandler.ListSponsors)
		sponsors.POST("", middleware.RequirePermission(checker, "program.manage"), programHandler.CreateSponsor)
		sponsors.PATCH("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.UpdateSponsor)
		sponsors.DELETE("/:id", middleware.RequirePermission(checker, "program.manage"), programHandler.DeleteSponsor)
	}

	return nil
}
