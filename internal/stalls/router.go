package stalls

import (
	"bookfair/internal/shared/config"
	"bookfair/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles stall catalog routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all stall routes
func (stallRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	stalls := rg.Group("/stalls")
	{
		// Public catalog browsing
		stalls.GET("", stallRouter.controller.ListStalls)
		stalls.GET("/available", stallRouter.controller.ListAvailableStalls)
		stalls.GET("/:id", stallRouter.controller.GetStall)
		stalls.GET("/:id/reservation", stallRouter.controller.GetStallReservation)

		// Staff catalog management
		staff := stalls.Group("")
		staff.Use(middleware.JWTAuthWithConfig(stallRouter.config), middleware.RequireStaff())
		{
			staff.POST("", stallRouter.controller.CreateStall)
			staff.PUT("/:id", stallRouter.controller.UpdateStall)
			staff.PUT("/:id/status", stallRouter.controller.UpdateStallStatus)
			staff.DELETE("/:id", stallRouter.controller.DeleteStall)
			staff.GET("/stats", stallRouter.controller.GetStatistics)
		}
	}
}
