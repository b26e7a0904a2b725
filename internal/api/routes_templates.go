package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/handlers"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
	"github.com/evencio/evencio/pkg/mail"
)

func registerTemplateRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker, mailer mail.Mailer) error {
	templateHandler, err := handlers.NewTemplateHandler(db, mailer)
	if err != nil {
		return err
	}
	campaignHandler, err := handlers.NewCampaignHandler(db, mailer)
	if err != nil {
		return err
	}

	templates := api.Group("/events/:eventId/templates")
	{
		templates.GET("", middleware.RequirePermission(checker, "template.view"), templateHandler.List)
		templates.POST("", middleware.RequirePermission(checker, "template.manage"), templateHandler.Create)
		templates.GET("/:id", middleware.RequirePermission(checker, "template.view"), templateHandler.Get)
		templates.PATCH("/:id", middleware.RequirePermission(checker, "template.manage"), templateHandler.Update)
		templates.POST("/:id/duplicate", middleware.RequirePermission(checker, "template.manage"), templateHandler.Duplicate)
		templates.POST("/:id/activate", middleware.RequirePermission(checker, "template.manage"), templateHandler.SetActive)
		templates.DELETE("/:id", middleware.RequirePermission(checker, "template.manage"), templateHandler.Delete)
		templates.POST("/:id/preview", middleware.RequirePermission(checker, "template.view"), templateHandler.Preview)
		templates.POST("/:id/test", middleware.RequirePermission(checker, "template.manage"), templateHandler.SendTest)
	}

	campaigns := api.Group("/events/:eventId/campaigns")
	{
		campaigns.GET("", middleware.RequirePermission(checker, "campaign.view"), campaignHandler.List)
		campaigns.POST("", middleware.RequirePermission(checker, "campaign.manage"), campaignHandler.Create)
		campaigns.GET("/:id", middleware.RequirePermission(checker, "campaign.view"), campaignHandler.Get)
		campaigns.POST("/:id/send", middleware.RequirePermission(checker, "campaign.manage"), campaignHandler.Send)
		campaigns.DELETE("/:id", middleware.RequirePermission(checker, "campaign.manage"), campaignHandler.Delete)
	}

	return nil
}
