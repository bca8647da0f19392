package dashboard

import (
	"bookfair/internal/shared/config"
	"bookfair/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles dashboard routes
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

// SetupRoutes registers the staff dashboard routes
func (dashRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.JWTAuthWithConfig(dashRouter.config))
	dashboard.Use(middleware.RequireStaff())
	{
		dashboard.GET("/stats", dashRouter.controller.GetDashboardStats)
	}
}
