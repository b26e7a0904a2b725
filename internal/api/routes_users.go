package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/handlers"
	"github.com/evencio/evencio/internal/middleware"
	"github.com/evencio/evencio/internal/permissions"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(checker, "user.view"), userHandler.List)
		users.POST("", middleware.RequirePermission(checker, "user.manage"), userHandler.Create)
		users.GET("/:userId", middleware.RequirePermission(checker, "user.view"), userHandler.Get)
		users.PATCH("/:userId", middleware.RequirePermission(checker, "user.manage"), userHandler.Update)
		users.POST("/:userId/roles", middleware.RequirePermission(checker, "user.manage"), userHandler.SetRoles)
		users.POST("/:userId/active", middleware.RequirePermission(checker, "user.manage"), userHandler.SetActive)
		users.DELETE("/:userId", middleware.RequirePermission(checker, "user.manage"), userHandler.Delete)
	}

	api.GET("/roles", middleware.RequirePermission(checker, "user.view"), userHandler.ListRoles)

	return nil
}
