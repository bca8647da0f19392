package reservations

import (
	"bookfair/internal/shared/config"
	"bookfair/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles reservation lifecycle routes
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

// SetupRoutes registers all reservation routes
func (resRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	auth := middleware.JWTAuthWithConfig(resRouter.config)

	reservations := rg.Group("/reservations")
	reservations.Use(auth)
	{
		reservations.POST("", resRouter.controller.CreateReservation)
		reservations.GET("/:id", resRouter.controller.GetReservation)
		reservations.DELETE("/:id", resRouter.controller.CancelReservation)
		reservations.POST("/:id/resend-email", resRouter.controller.ResendConfirmationEmail)

		// Staff operations
		staff := reservations.Group("")
		staff.Use(middleware.RequireStaff())
		{
			staff.GET("", resRouter.controller.ListReservations)
			staff.PUT("/:id/confirm", resRouter.controller.ConfirmReservation)
		}
	}

	// Vendor's own reservation history
	userGroup := rg.Group("/users")
	userGroup.Use(auth)
	{
		userGroup.GET("/reservations", resRouter.controller.GetUserReservations)
	}
}
